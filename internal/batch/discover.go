package batch

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/handiism/pdf-batch-joiner/internal/dates"
	"github.com/handiism/pdf-batch-joiner/internal/model"
	"github.com/handiism/pdf-batch-joiner/internal/ocr"
)

// Discover walks root recursively and returns every *.pdf file (any case)
// that is not a merge artifact, in lexical order, together with the
// number of artifacts it left out. OCR temporaries and backups are
// skipped as well.
//
// Listing errors are passed to onError, when set, and the affected
// directory contributes no files.
func Discover(root string, onError func(path string, err error)) ([]model.PDFFile, int) {
	var (
		files     []model.PDFFile
		artifacts int
	)

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}

		f := model.PDFFile{Path: path}
		if f.IsMergeArtifact() {
			artifacts++
			return nil
		}
		if ocr.IsWorkFile(path) {
			return nil
		}
		if info, err := d.Info(); err == nil {
			f.Size = info.Size()
		}
		f.Date, f.HasDate = dates.Extract(d.Name())
		files = append(files, f)
		return nil
	})

	return files, artifacts
}

func paths(files []model.PDFFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
