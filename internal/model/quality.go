package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownQuality is returned by ParseQuality for names outside the preset table.
var ErrUnknownQuality = errors.New("unknown quality preset")

// Quality is a named image recompression preset.
//
// Each preset maps to a JPEG quality factor and a target maximum DPI.
// Images are assumed to have been scanned at 300 DPI, so the target DPI
// translates into a scale factor of MaxDPI/300.
type Quality int

const (
	// QualityHigh keeps full resolution and re-encodes at JPEG quality 85.
	QualityHigh Quality = iota

	// QualityMedium scales to 200 DPI at JPEG quality 75.
	QualityMedium

	// QualityLow scales to 150 DPI at JPEG quality 60.
	QualityLow

	// QualityUltraLow scales to 100 DPI at JPEG quality 50.
	QualityUltraLow

	// QualityOriginal copies pages verbatim without touching images.
	QualityOriginal
)

var qualityNames = map[Quality]string{
	QualityHigh:     "high",
	QualityMedium:   "medium",
	QualityLow:      "low",
	QualityUltraLow: "ultra-low",
	QualityOriginal: "original",
}

// Qualities lists all presets from strongest image fidelity to plain copy.
func Qualities() []Quality {
	return []Quality{QualityHigh, QualityMedium, QualityLow, QualityUltraLow, QualityOriginal}
}

// ParseQuality converts a preset name ("high", "medium", "low", "ultra-low",
// "original") into a Quality. Matching is case-insensitive and accepts
// "ultralow" and "ultra_low" as spellings of "ultra-low".
func ParseQuality(name string) (Quality, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if n == "ultralow" {
		n = "ultra-low"
	}
	for q, s := range qualityNames {
		if s == n {
			return q, nil
		}
	}
	return QualityMedium, fmt.Errorf("%w: %q", ErrUnknownQuality, name)
}

// String returns the preset name.
func (q Quality) String() string {
	if s, ok := qualityNames[q]; ok {
		return s
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// JPEGQuality returns the lossy quality factor, or 0 for QualityOriginal.
func (q Quality) JPEGQuality() int {
	switch q {
	case QualityHigh:
		return 85
	case QualityMedium:
		return 75
	case QualityLow:
		return 60
	case QualityUltraLow:
		return 50
	}
	return 0
}

// MaxDPI returns the target resolution, or 0 for QualityOriginal.
func (q Quality) MaxDPI() int {
	switch q {
	case QualityHigh:
		return 300
	case QualityMedium:
		return 200
	case QualityLow:
		return 150
	case QualityUltraLow:
		return 100
	}
	return 0
}

// Recompresses reports whether the preset touches embedded images.
func (q Quality) Recompresses() bool {
	return q.JPEGQuality() > 0
}

// Description returns a short human-readable summary for menus and logs.
func (q Quality) Description() string {
	switch q {
	case QualityHigh:
		return "High quality, good compression"
	case QualityMedium:
		return "Medium quality, balanced"
	case QualityLow:
		return "Low quality, maximum compression"
	case QualityUltraLow:
		return "Ultra-low quality, aggressive compression"
	case QualityOriginal:
		return "Original, no compression"
	}
	return ""
}
