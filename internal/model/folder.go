package model

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// OutputTimeLayout is the time layout embedded in merged file names.
const OutputTimeLayout = "2006-01-02_15-04-05"

// artifactPattern matches files written by a previous merge run:
// <anything>_YYYY-MM-DD_HH-MM-SS.pdf, extension case-insensitive.
var artifactPattern = regexp.MustCompile(`(?i)^.*_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.pdf$`)

// IsMergeArtifact reports whether a file name carries the merge output suffix.
// Only the base name is inspected.
func IsMergeArtifact(name string) bool {
	return artifactPattern.MatchString(filepath.Base(name))
}

// Folder is one directory selected for merging.
//
// The member PDF files are not stored here: they are enumerated on demand
// because the directory may change between the counting and the
// processing phase of a run.
type Folder struct {
	// Path is the absolute or base-relative directory path.
	Path string

	// Name is the directory's own name.
	Name string

	// Label is the sanitized prefix of the output file name. For folders
	// nested more than one level below the run root it is
	// "<parent>_<name>".
	Label string

	// Created is the folder creation timestamp used in the output name.
	Created time.Time
}

// NewFolder builds a Folder for path, computing its label relative to root.
func NewFolder(root, path string, created time.Time) *Folder {
	name := filepath.Base(path)
	label := name

	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) >= 2 {
			label = filepath.Base(filepath.Dir(path)) + "_" + name
		}
	}

	return &Folder{
		Path:    path,
		Name:    name,
		Label:   sanitizeLabel(label),
		Created: created,
	}
}

// OutputName returns "<label>_YYYY-MM-DD_HH-MM-SS.pdf".
func (f *Folder) OutputName() string {
	return f.Label + "_" + f.Created.Format(OutputTimeLayout) + ".pdf"
}

// OutputPath returns the merge destination inside the folder.
func (f *Folder) OutputPath() string {
	return filepath.Join(f.Path, f.OutputName())
}

// Reserve moves Created forward one second at a time until OutputPath names
// no existing file. It reports whether the name had to change.
func (f *Folder) Reserve(exists func(path string) bool) bool {
	moved := false
	for exists(f.OutputPath()) {
		f.Created = f.Created.Add(time.Second)
		moved = true
	}
	return moved
}

// sanitizeLabel keeps letters, digits, spaces, hyphens and underscores and
// trims surrounding spaces. An empty result becomes "merged".
func sanitizeLabel(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	label := strings.TrimSpace(b.String())
	if label == "" {
		return "merged"
	}
	return label
}
