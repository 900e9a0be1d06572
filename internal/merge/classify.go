package merge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// FailureKind classifies why a source file was skipped.
type FailureKind int

const (
	KindMissing FailureKind = iota
	KindEmpty
	KindTooSmall
	KindCorrupted
	KindProtected
	KindTruncated
	KindOther
)

func (k FailureKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindEmpty:
		return "empty"
	case KindTooSmall:
		return "too small"
	case KindCorrupted:
		return "corrupted structure"
	case KindProtected:
		return "password protected"
	case KindTruncated:
		return "truncated"
	}
	return "unreadable"
}

// Skipped describes a source file left out of a merge.
type Skipped struct {
	Path string
	Name string
	Size int64
	Kind FailureKind

	// Reason is a one-line summary for reports.
	Reason string

	// Detail is a multi-line diagnosis naming the file, its path and size.
	Detail string
}

func newSkipped(path string, size int64, kind FailureKind, reason string) Skipped {
	name := filepath.Base(path)
	return Skipped{
		Path:   path,
		Name:   name,
		Size:   size,
		Kind:   kind,
		Reason: reason,
		Detail: fmt.Sprintf("Skipped '%s'\n  Path: %s\n  Problem: %s", name, path, reason),
	}
}

// classify turns a parse error into a Skipped entry.
func classify(path string, err error) Skipped {
	name := filepath.Base(path)
	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	}
	msg := err.Error()
	kind := kindOf(err)

	s := Skipped{
		Path:   path,
		Name:   name,
		Size:   size,
		Kind:   kind,
		Reason: kind.String() + ": " + truncate(msg, 50),
	}

	switch kind {
	case KindCorrupted:
		s.Detail = fmt.Sprintf("Corrupted PDF structure in '%s'\n  Path: %s\n  Size: %s\n"+
			"  Problem: the document contains invalid objects\n"+
			"  Tip: repair the file in a PDF viewer and save it again",
			name, path, ioutils.FormatBytes(size))
	case KindProtected:
		s.Detail = fmt.Sprintf("Protected PDF: '%s'\n  Path: %s\n  Problem: the document is password protected",
			name, path)
	case KindTruncated:
		s.Detail = fmt.Sprintf("Damaged PDF file: '%s'\n  Path: %s\n  Size: %s\n"+
			"  Problem: the file is incomplete or damaged",
			name, path, ioutils.FormatBytes(size))
	default:
		s.Detail = fmt.Sprintf("Error reading '%s'\n  Path: %s\n  Size: %s\n  Error: %s",
			name, path, ioutils.FormatBytes(size), truncate(msg, 100))
	}

	return s
}

func kindOf(err error) FailureKind {
	switch {
	case errors.Is(err, pdfcpu.ErrWrongPassword), errors.Is(err, pdfcpu.ErrUnknownEncryption):
		return KindProtected
	case errors.Is(err, pdfcpu.ErrMissingXRefSection):
		return KindTruncated
	case errors.Is(err, pdfcpu.ErrReferenceDoesNotExist):
		return KindCorrupted
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "nullobject", "null object", "corrupt", "malformed", "invalid object"):
		return KindCorrupted
	case containsAny(msg, "password", "encrypt"):
		return KindProtected
	case containsAny(msg, "eof", "xref", "unexpected end", "truncated"):
		return KindTruncated
	}
	return KindOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
