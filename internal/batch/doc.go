// Package batch provides the orchestration logic for merging the PDFs of
// many folders in one run.
//
// # Manager
//
// The Manager coordinates the entire batch:
//
//  1. Validate the base path, falling back to its parent directories
//  2. Count eligible PDFs in every selected folder
//  3. Per folder: re-scan, sort by filename date, optionally OCR
//  4. Merge into <label>_YYYY-MM-DD_HH-MM-SS.pdf and verify the output
//  5. Optionally delete the merged sources
//  6. Report size savings for each folder and the whole run
//
// Files named like a previous output are never picked up again, so
// running a batch twice does not merge a merge.
//
// # Basic Usage
//
//	manager := batch.NewManager(settings)
//	events, err := manager.Start(ctx, batch.Request{
//	    Folders:  []string{"Invoices", "Letters"},
//	    BasePath: "/home/me/Scans",
//	    Quality:  model.QualityMedium,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for ev := range events {
//	    fmt.Println(ev.Message)
//	}
//
// # Control
//
// Pause, Resume and Stop only set a flag. The run observes it between
// folders, so a merge in flight is always finished and verified first.
// Cancelling the context passed to Start acts like Stop.
//
// # Events
//
// Log events are delivered reliably and the run blocks until they are
// received. Progress events are throttled to the configured interval and
// dropped when the channel is full; Progress returns the latest counters
// for presenters that poll instead.
package batch
