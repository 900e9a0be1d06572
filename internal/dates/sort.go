package dates

import (
	"path/filepath"
	"sort"
	"time"
)

type keyed struct {
	path    string
	date    time.Time
	hasDate bool
}

// Sort returns paths ordered by the date in each base name. Directory
// names are ignored: a dated folder does not date the files inside it.
//
// newestFirst reverses only the date comparison. Files without a date are
// always placed last, and equal keys fall back to ascending path order so
// the result is deterministic. The input slice is not modified.
func Sort(paths []string, newestFirst bool) []string {
	items := make([]keyed, len(paths))
	for i, p := range paths {
		d, ok := Extract(filepath.Base(p))
		items[i] = keyed{path: p, date: d, hasDate: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.hasDate != b.hasDate {
			return a.hasDate
		}
		if a.hasDate && !a.date.Equal(b.date) {
			if newestFirst {
				return a.date.After(b.date)
			}
			return a.date.Before(b.date)
		}
		return a.path < b.path
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.path
	}
	return out
}
