// Package model defines the core data types of the PDF batch joiner.
//
// # Types
//
//   - Folder: a directory selected for merging, with its output label and
//     creation timestamp
//   - PDFFile: a candidate source document
//   - MergeJob: the ordered sources, destination and options for one folder
//   - Quality: an image recompression preset
//
// # Output Naming
//
// Merged documents are named "<label>_YYYY-MM-DD_HH-MM-SS.pdf", where the
// timestamp is the folder creation time:
//
//	folder := model.NewFolder("/scans", "/scans/2024/March", created)
//	folder.OutputName() // "2024_March_2024-03-01_09-15-00.pdf"
//
// Any file carrying that suffix is a merge artifact. IsMergeArtifact is the
// single source of truth for excluding previous outputs from new runs, which
// keeps repeated runs over the same folder idempotent.
//
// # Quality Presets
//
//	| preset    | JPEG quality | max DPI |
//	|-----------|--------------|---------|
//	| high      | 85           | 300     |
//	| medium    | 75           | 200     |
//	| low       | 60           | 150     |
//	| ultra-low | 50           | 100     |
//	| original  | -            | -       |
//
// Use ParseQuality to convert user input:
//
//	q, err := model.ParseQuality("ultra-low")
package model
