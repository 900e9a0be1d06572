// Package ocr adds searchable text layers to PDFs with the external
// ocrmypdf tool, which drives tesseract.
//
// A Processor is created once and reports through Available whether the
// tool was found; callers are expected to skip OCR entirely when it was
// not. Per-file failures are returned as (false, message) rather than as
// errors so that a batch can log them and carry on.
//
//	p := ocr.NewProcessor(ocr.WithTimeout(5 * time.Minute))
//	if p.Available() {
//	    ok, msg := p.ProcessInPlace(ctx, "/scans/letter.pdf", "deu", true)
//	    ...
//	}
//
// CheckInstallation and InstalledLanguages back the CLI's -check-ocr mode
// and the language selection in the TUI.
package ocr
