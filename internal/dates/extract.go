package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// patterns are tried in order; the first one that matches and parses wins.
// Longer, more specific forms come first so that "01-02-2025" is never read
// as the two-digit-year form "01-02-20".
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[-_.]\d{1,2}[-_.]\d{4})`), // DD-MM-YYYY
	regexp.MustCompile(`(\d{4}[-_.]\d{1,2}[-_.]\d{1,2})`), // YYYY-MM-DD
	regexp.MustCompile(`(\d{1,2}[-_.]\d{1,2}[-_.]\d{2})`), // DD-MM-YY
}

var separators = strings.NewReplacer("_", "-", ".", "-")

// now is replaced in tests to pin the two-digit-year window.
var now = time.Now

// Extract returns the first calendar date found in name.
//
// name may be a bare file name or a full path. The second return value is
// false when no pattern matches or none of the matches is a valid date.
func Extract(name string) (time.Time, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if t, ok := parse(separators.Replace(m[1])); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// parse resolves "a-b-c" with a day-first bias.
//
// A four-digit or >31 first field makes the string year-first; the last two
// fields are then read as day-month when the last one can be a month. Other
// strings are day-month-year unless the first field can only be a month.
func parse(s string) (time.Time, bool) {
	fields := strings.Split(s, "-")
	if len(fields) != 3 {
		return time.Time{}, false
	}

	var v [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, false
		}
		v[i] = n
	}

	var year, month, day int
	yearDigits := 0

	switch {
	case len(fields[0]) > 2 || v[0] > 31:
		year, yearDigits = v[0], len(fields[0])
		if v[2] <= 12 {
			day, month = v[1], v[2]
		} else {
			month, day = v[1], v[2]
		}
	case v[0] > 12 || v[1] <= 12:
		day, month, year = v[0], v[1], v[2]
		yearDigits = len(fields[2])
	default:
		month, day, year = v[0], v[1], v[2]
		yearDigits = len(fields[2])
	}

	if yearDigits <= 2 {
		year = expandYear(year)
	}

	return date(year, month, day)
}

// expandYear places a two-digit year within 50 years of the current year.
func expandYear(yy int) int {
	current := now().Year()
	year := yy + current/100*100
	if year >= current+50 {
		year -= 100
	} else if year < current-50 {
		year += 100
	}
	return year
}

// date validates the components instead of letting time.Date normalize them.
func date(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
