package model

import (
	"path/filepath"
	"time"
)

// PDFFile is a candidate source document found while scanning a folder.
type PDFFile struct {
	// Path is the full file path.
	Path string

	// Size is the file size in bytes at scan time.
	Size int64

	// Date is the calendar date extracted from the file name.
	// Only meaningful when HasDate is true.
	Date    time.Time
	HasDate bool
}

// Name returns the base file name.
func (p PDFFile) Name() string {
	return filepath.Base(p.Path)
}

// IsMergeArtifact reports whether the file is the output of a previous run.
func (p PDFFile) IsMergeArtifact() bool {
	return IsMergeArtifact(p.Path)
}

// MergeJob describes a single folder merge: the date-sorted sources, the
// destination, the preset and whether sources are removed afterwards.
//
// A job is built per folder and discarded after the attempt. Sources never
// contain Destination.
type MergeJob struct {
	Folder       *Folder
	Sources      []string
	Destination  string
	Quality      Quality
	DeleteSource bool
}

// NewMergeJob builds a job for folder from already sorted sources.
// The destination path is removed from sources if present.
func NewMergeJob(folder *Folder, sources []string, quality Quality, deleteSource bool) *MergeJob {
	dest := folder.OutputPath()

	filtered := make([]string, 0, len(sources))
	for _, src := range sources {
		if filepath.Clean(src) == filepath.Clean(dest) {
			continue
		}
		filtered = append(filtered, src)
	}

	return &MergeJob{
		Folder:       folder,
		Sources:      filtered,
		Destination:  dest,
		Quality:      quality,
		DeleteSource: deleteSource,
	}
}
