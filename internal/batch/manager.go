package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/pdf-batch-joiner/internal/config"
	"github.com/handiism/pdf-batch-joiner/internal/dates"
	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/handiism/pdf-batch-joiner/internal/merge"
	"github.com/handiism/pdf-batch-joiner/internal/model"
	"github.com/handiism/pdf-batch-joiner/internal/ocr"
)

var (
	ErrAlreadyRunning = errors.New("a batch is already running")
	ErrNoFolders      = errors.New("no folders selected")
)

// Merger concatenates sources into dest. *merge.Engine implements it.
type Merger interface {
	Merge(ctx context.Context, sources []string, dest string) merge.Result
}

// OCR adds text layers to files in place. *ocr.Processor implements it.
type OCR interface {
	Available() bool
	ProcessInPlace(ctx context.Context, path, language string, skipText bool) (bool, string)
}

// Request describes one batch run.
type Request struct {
	// Folders are processed in order. Relative entries are resolved
	// against BasePath.
	Folders  []string
	BasePath string

	DeleteSource bool
	Quality      model.Quality
	EnableOCR    bool
	OCRLanguage  string
}

// run flag values, written by the controller and read at checkpoints
const (
	flagRunning int32 = iota
	flagPaused
	flagStopped
)

// Option configures a Manager.
type Option func(*Manager)

// WithMergerFactory replaces the pdfcpu merge engine.
func WithMergerFactory(fn func(model.Quality) Merger) Option {
	return func(m *Manager) { m.newMerger = fn }
}

// WithOCR replaces the ocrmypdf processor.
func WithOCR(o OCR) Option {
	return func(m *Manager) { m.ocr = o }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager runs batches of folder merges on a background goroutine.
type Manager struct {
	settings  *config.Settings
	newMerger func(model.Quality) Merger
	ocr       OCR
	now       func() time.Time

	state       atomic.Int32
	flag        atomic.Int32
	current     atomic.Int64
	total       atomic.Int64
	inputBytes  atomic.Int64
	outputBytes atomic.Int64

	mu     sync.RWMutex
	folder string

	// owned by the run goroutine
	events   chan Event
	started  time.Time
	lastEmit time.Time
}

// NewManager creates a new batch Manager.
func NewManager(settings *config.Settings, opts ...Option) *Manager {
	m := &Manager{
		settings: settings,
		now:      time.Now,
	}
	images := ioutils.NewImageService()
	m.newMerger = func(q model.Quality) Merger {
		return merge.NewEngine(q,
			merge.WithMinFileSize(settings.MinFileSize),
			merge.WithMinImageSize(settings.MinImageSize),
			merge.WithImageService(images),
		)
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ocr == nil {
		m.ocr = ocr.NewProcessor(
			ocr.WithTimeout(settings.OCRTimeoutDuration()),
			ocr.WithBackup(settings.OCRBackup),
			ocr.WithWarnFunc(m.warn),
		)
	}
	return m
}

// Start begins a run in the background and returns its event channel,
// which is closed when the run completes. The caller must drain it.
//
// Cancelling ctx has the same effect as Stop.
func (m *Manager) Start(ctx context.Context, req Request) (<-chan Event, error) {
	if len(req.Folders) == 0 {
		return nil, ErrNoFolders
	}
	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateCounting)) &&
		!m.state.CompareAndSwap(int32(StateCompleted), int32(StateCounting)) {
		return nil, ErrAlreadyRunning
	}

	m.flag.Store(flagRunning)
	m.current.Store(0)
	m.total.Store(0)
	m.inputBytes.Store(0)
	m.outputBytes.Store(0)

	m.events = make(chan Event, m.settings.EventBufferSize)
	m.started = m.now()
	m.lastEmit = time.Time{}

	go m.run(ctx, req)
	return m.events, nil
}

// Pause asks the run to halt at the next folder boundary.
func (m *Manager) Pause() {
	m.flag.CompareAndSwap(flagRunning, flagPaused)
}

// Resume continues a paused run.
func (m *Manager) Resume() {
	m.flag.CompareAndSwap(flagPaused, flagRunning)
}

// Stop ends the run after the folder in progress. It also clears a pause.
func (m *Manager) Stop() {
	m.flag.Store(flagStopped)
}

// IsRunning reports whether a run is in progress, paused or not.
func (m *Manager) IsRunning() bool {
	s := State(m.state.Load())
	return s != StateIdle && s != StateCompleted
}

// IsPaused reports whether the run is paused.
func (m *Manager) IsPaused() bool {
	return m.IsRunning() && m.flag.Load() == flagPaused
}

// State returns the current lifecycle phase.
func (m *Manager) State() State {
	s := State(m.state.Load())
	if s != StateCounting && s != StateRunning {
		return s
	}
	switch m.flag.Load() {
	case flagPaused:
		return StatePaused
	case flagStopped:
		return StateStopping
	}
	return s
}

// Progress returns a snapshot of the current run.
func (m *Manager) Progress() Snapshot {
	m.mu.RLock()
	folder := m.folder
	m.mu.RUnlock()

	return Snapshot{
		State:       m.State(),
		Current:     int(m.current.Load()),
		Total:       int(m.total.Load()),
		Folder:      folder,
		InputBytes:  m.inputBytes.Load(),
		OutputBytes: m.outputBytes.Load(),
	}
}

func (m *Manager) run(ctx context.Context, req Request) {
	events := m.events
	defer func() {
		m.setFolder("")
		m.state.Store(int32(StateCompleted))
		close(events)
	}()

	stop := context.AfterFunc(ctx, m.Stop)
	defer stop()

	// In-flight work always finishes; only checkpoints observe a stop.
	workCtx := context.WithoutCancel(ctx)

	m.log(LevelInfo, "Starting batch processing of %d folder(s)...", len(req.Folders))
	m.log(LevelInfo, "Source file deletion: %s", enabled(req.DeleteSource))
	m.log(LevelInfo, "Image quality: %s", req.Quality)

	base, err := ValidatePath(req.BasePath)
	if err != nil {
		m.log(LevelError, "Error: %v", err)
		return
	}
	if base != filepath.Clean(req.BasePath) {
		m.log(LevelWarning, "Base path not found, using %s", base)
	}

	folders := make([]string, len(req.Folders))
	for i, f := range req.Folders {
		folders[i] = resolveFolder(base, f)
	}

	total, ok := m.count(folders)
	if !ok {
		m.log(LevelWarning, "Processing stopped by user.")
		return
	}
	m.total.Store(int64(total))
	m.log(LevelInfo, "Found %d total PDF files across %d folders", total, len(folders))

	if total == 0 {
		m.log(LevelWarning, "No PDF files to process!")
		return
	}

	m.state.Store(int32(StateRunning))

	useOCR := req.EnableOCR
	if useOCR && !m.ocr.Available() {
		m.log(LevelWarning, "OCR requested but OCRmyPDF is not installed, continuing without OCR")
		useOCR = false
	}

	processed := 0
	for i, folder := range folders {
		if !m.checkpoint() {
			m.log(LevelWarning, "Processing stopped by user.")
			break
		}

		job := &folderJob{
			index:  i,
			count:  len(folders),
			path:   folder,
			base:   base,
			req:    req,
			useOCR: useOCR,
		}
		processed += m.processFolder(workCtx, job, processed, total)
	}

	m.progress(processed, total, "Processing complete", true)
	m.summary()
	m.log(LevelSuccess, "Batch processing completed!")
}

// count tallies eligible files per folder. It returns false if the run
// was stopped while counting.
func (m *Manager) count(folders []string) (int, bool) {
	m.log(LevelInfo, "Counting PDF files in %d folders...", len(folders))

	total := 0
	for _, folder := range folders {
		if m.flag.Load() == flagStopped {
			return total, false
		}
		files, _ := Discover(folder, m.listingError)
		total += len(files)
		m.log(LevelVerbose, "  %s: %d PDF(s)", filepath.Base(folder), len(files))
		m.progress(0, 0, fmt.Sprintf("Counting files: %d PDFs found...", total), false)
	}
	return total, true
}

// checkpoint blocks while paused and reports whether the run may continue.
func (m *Manager) checkpoint() bool {
	for m.flag.Load() == flagPaused {
		time.Sleep(m.settings.PausePollDuration())
	}
	return m.flag.Load() != flagStopped
}

type folderJob struct {
	index  int
	count  int
	path   string
	base   string
	req    Request
	useOCR bool
}

// processFolder merges one folder and returns the number of files it
// consumed from the total.
func (m *Manager) processFolder(ctx context.Context, job *folderJob, processed, total int) int {
	name := filepath.Base(job.path)
	m.setFolder(name)
	m.log(LevelInfo, "[%d/%d] Processing folder: %s", job.index+1, job.count, name)

	files, artifacts := Discover(job.path, m.listingError)
	if artifacts > 0 {
		m.log(LevelVerbose, "  Skipped %d previously joined PDF(s)", artifacts)
	}
	if len(files) == 0 {
		m.log(LevelInfo, "  No PDF files found in %s", name)
		return 0
	}
	m.log(LevelInfo, "  Found %d PDF files", len(files))
	m.progress(processed, total, fmt.Sprintf("Processing file %d/%d in %s", min(processed+1, total), total, name), false)

	sorted := dates.Sort(paths(files), m.settings.NewestFirst)

	if job.useOCR {
		m.runOCR(ctx, sorted, job.req)
	}

	created, err := ioutils.FolderTime(job.path)
	if err != nil {
		created = m.now()
	}
	folder := model.NewFolder(job.base, job.path, created)
	if folder.Reserve(ioutils.Exists) {
		m.log(LevelVerbose, "  Output name taken, using %s", folder.OutputName())
	}
	mj := model.NewMergeJob(folder, sorted, job.req.Quality, job.req.DeleteSource)

	var inputSize int64
	for _, src := range mj.Sources {
		if size, err := ioutils.FileSize(src); err == nil {
			inputSize += size
		}
	}

	m.log(LevelInfo, "  Output: %s", folder.OutputName())
	m.log(LevelInfo, "  Merging PDFs (sorted by date, %s first)...", order(m.settings.NewestFirst))
	for i, src := range mj.Sources {
		m.log(LevelVerbose, "    %d. %s", i+1, filepath.Base(src))
	}

	res := m.newMerger(mj.Quality).Merge(ctx, mj.Sources, mj.Destination)

	processed += len(files)
	m.progress(processed, total, fmt.Sprintf("Processed %d/%d files", min(processed, total), total), false)

	if !res.OK || !VerifyOutput(mj.Destination, m.settings.MinFileSize) {
		m.log(LevelError, "  ✗ Failed to merge PDFs in %s", name)
		if !res.OK {
			if res.Diagnostic != "" {
				m.log(LevelError, "%s", indent(res.Diagnostic, "    "))
			}
			return len(files)
		}

		// Written by this attempt but unusable.
		m.log(LevelError, "    Output missing or smaller than %d bytes", m.settings.MinFileSize)
		if err := ioutils.RemoveIfExists(mj.Destination); err != nil {
			m.log(LevelWarning, "  Could not remove partial output: %v", err)
		}
		return len(files)
	}

	for _, s := range res.Skipped {
		m.log(LevelWarning, "%s", indent(s.Detail, "  "))
	}
	if res.Diagnostic != "" {
		m.log(LevelWarning, "  %s", res.Diagnostic)
	}
	m.log(LevelSuccess, "  ✓ Successfully merged %d PDFs (%d pages)", len(res.Merged), res.Pages)

	outputSize, _ := ioutils.FileSize(mj.Destination)
	m.inputBytes.Add(inputSize)
	m.outputBytes.Add(outputSize)
	m.log(LevelInfo, "  Size: %s -> %s, %s", ioutils.FormatBytes(inputSize), ioutils.FormatBytes(outputSize),
		ioutils.SizeDelta(inputSize, outputSize))

	if mj.DeleteSource {
		m.deleteSources(res.Merged)
	} else {
		m.log(LevelInfo, "  ℹ Source files retained (%d PDFs preserved)", len(mj.Sources))
	}

	return len(files)
}

func (m *Manager) runOCR(ctx context.Context, files []string, req Request) {
	m.log(LevelInfo, "  Running OCR (%s) on %d file(s)...", req.OCRLanguage, len(files))
	for _, f := range files {
		m.log(LevelVerbose, "  OCR: %s", filepath.Base(f))
		ok, msg := m.ocr.ProcessInPlace(ctx, f, req.OCRLanguage, m.settings.OCRSkipText)
		switch {
		case !ok:
			m.log(LevelWarning, "    ⚠ OCR failed for %s: %s", filepath.Base(f), msg)
		case msg != "":
			m.log(LevelVerbose, "    %s: %s", filepath.Base(f), msg)
		}
	}
}

// deleteSources removes merged sources one by one. Failures are logged.
func (m *Manager) deleteSources(files []string) {
	deleted := 0
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			m.log(LevelWarning, "  Warning: Could not delete %s: %v", filepath.Base(f), err)
			continue
		}
		deleted++
	}
	m.log(LevelSuccess, "  ✓ Removed %d source PDF files", deleted)
}

func (m *Manager) summary() {
	in, out := m.inputBytes.Load(), m.outputBytes.Load()
	if in == 0 {
		return
	}
	m.log(LevelInfo, "Total: %s -> %s, %s", ioutils.FormatBytes(in), ioutils.FormatBytes(out), ioutils.SizeDelta(in, out))
}

func (m *Manager) listingError(path string, err error) {
	m.log(LevelError, "Error reading folder %s: %v", path, err)
}

// log emits a log event. Unlike progress, log events are never dropped.
func (m *Manager) log(level Level, format string, args ...any) {
	m.events <- Event{Kind: EventLog, Level: level, Message: fmt.Sprintf(format, args...)}
}

// warn forwards a collaborator's warning as a log event.
func (m *Manager) warn(msg string) {
	m.log(LevelWarning, "  %s", msg)
}

func (m *Manager) setFolder(name string) {
	m.mu.Lock()
	m.folder = name
	m.mu.Unlock()
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func order(newestFirst bool) string {
	if newestFirst {
		return "newest"
	}
	return "oldest"
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
