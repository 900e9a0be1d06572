// Package merge concatenates PDF files into a single document using
// pdfcpu.
//
// # Engine
//
// An Engine is created for one quality preset and merges a list of source
// files into a destination:
//
//	engine := merge.NewEngine(model.QualityMedium)
//	res := engine.Merge(ctx, sources, "/scans/March/March_2024-03-01_09-05-07.pdf")
//	if !res.OK {
//	    log.Println(res.Diagnostic)
//	}
//
// Sources that are missing, empty, smaller than the minimum file size or
// unreadable by pdfcpu are skipped and reported in Result.Skipped. Every
// skip carries a FailureKind and a human readable Detail.
//
// # Compression
//
// For every preset except original, images referenced from page
// resources are decoded, scaled down to the preset's DPI ceiling, and
// re-encoded as JPEG. A recompressed image is only substituted when it is
// smaller than the original stream. Uncompressed content streams are
// flate encoded and the output is written with object and xref streams.
//
// The original preset copies pages without touching their content.
package merge
