// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File copying, size lookup and best-effort removal
//   - Folder creation timestamps (birth time where available)
//   - Human-readable byte sizes and size deltas
//   - Image flattening, downscaling and JPEG re-encoding
//
// # File Operations
//
//	// Copy a file
//	err := ioutils.CopyFile("/scans/a.pdf", "/scans/a.bak.pdf")
//
//	// Remove a file, ignoring "not found"
//	err := ioutils.RemoveIfExists("/scans/partial.pdf")
//
//	// Folder timestamp for output naming
//	created, err := ioutils.FolderTime("/scans/March")
//
// # Size Reporting
//
//	ioutils.FormatBytes(1536)            // "1.5 KiB"
//	ioutils.SizeDelta(2048, 1024)        // "reduced by 1.0 KiB (50.0%)"
//
// # Image Processing
//
// The ImageService recompresses raster images extracted from PDFs:
//
//	svc := ioutils.NewImageService()
//	out, err := svc.Recompress(ctx, r, ioutils.RecompressOptions{
//	    Quality: 60,
//	    Scale:   0.5,
//	    MinSize: 100,
//	})
package ioutils
