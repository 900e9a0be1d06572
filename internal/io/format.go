package ioutils

import "fmt"

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		return "-" + FormatBytes(-bytes)
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// SizeDelta describes how an output size compares to its input size,
// e.g. "reduced by 1.2 MiB (34.5%)".
func SizeDelta(input, output int64) string {
	diff := output - input
	switch {
	case diff < 0:
		return fmt.Sprintf("reduced by %s (%.1f%%)", FormatBytes(-diff), percent(-diff, input))
	case diff > 0:
		return fmt.Sprintf("increased by %s (%.1f%%)", FormatBytes(diff), percent(diff, input))
	default:
		return "unchanged"
	}
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
