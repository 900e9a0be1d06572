package ocr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrNotInstalled     = errors.New("ocrmypdf not found (install with: brew install ocrmypdf)")
	ErrTesseractMissing = errors.New("tesseract not found (install with: brew install tesseract)")
)

const probeTimeout = 5 * time.Second

// Installation describes the OCR toolchain found on this machine.
type Installation struct {
	OCRmyPDF  string
	Tesseract string
	Version   string
}

// CheckInstallation verifies that ocrmypdf and tesseract are present and
// that ocrmypdf runs.
func CheckInstallation(ctx context.Context) (Installation, error) {
	var inst Installation

	inst.OCRmyPDF = findBinary("ocrmypdf")
	if inst.OCRmyPDF == "" {
		return inst, ErrNotInstalled
	}
	inst.Tesseract = findBinary("tesseract")
	if inst.Tesseract == "" {
		return inst, ErrTesseractMissing
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, inst.OCRmyPDF, "--version").Output()
	if err != nil {
		return inst, fmt.Errorf("ocrmypdf found but not working: %w", err)
	}
	inst.Version = strings.TrimSpace(string(out))

	return inst, nil
}

// InstalledLanguages lists the tesseract language packs. It falls back to
// "eng" when tesseract is missing or the listing fails.
func InstalledLanguages(ctx context.Context) []string {
	fallback := []string{"eng"}

	bin := findBinary("tesseract")
	if bin == "" {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "--list-langs").Output()
	if err != nil {
		return fallback
	}

	// The first line is a header ("List of available languages ...").
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	var langs []string
	for _, line := range lines[1:] {
		if l := strings.TrimSpace(line); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		return fallback
	}
	return langs
}
