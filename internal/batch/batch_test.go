package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/handiism/pdf-batch-joiner/internal/config"
	"github.com/handiism/pdf-batch-joiner/internal/merge"
	"github.com/handiism/pdf-batch-joiner/internal/model"
	"github.com/handiism/pdf-batch-joiner/internal/pdftest"
)

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.PausePollInterval = 0.005
	s.ProgressInterval = 0.001
	s.EventBufferSize = 1024
	return s
}

type fakeOCR struct {
	available bool
	fail      map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeOCR) Available() bool { return f.available }

func (f *fakeOCR) ProcessInPlace(_ context.Context, path, _ string, _ bool) (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, filepath.Base(path))
	if f.fail[filepath.Base(path)] {
		return false, "OCR failed: boom"
	}
	return true, ""
}

// fakeMerger writes a placeholder output. With gate set, every merge waits
// for a token, which lets tests act while a merge is in flight.
type fakeMerger struct {
	started chan string
	gate    chan struct{}

	mu    sync.Mutex
	calls [][]string
}

func newFakeMerger(gated bool) *fakeMerger {
	f := &fakeMerger{started: make(chan string, 16)}
	if gated {
		f.gate = make(chan struct{})
	}
	return f
}

func (f *fakeMerger) Merge(_ context.Context, sources []string, dest string) merge.Result {
	f.mu.Lock()
	f.calls = append(f.calls, sources)
	f.mu.Unlock()

	f.started <- dest
	if f.gate != nil {
		<-f.gate
	}

	os.WriteFile(dest, bytes.Repeat([]byte("x"), 200), 0644)
	return merge.Result{OK: true, Pages: len(sources), Merged: sources}
}

func (f *fakeMerger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeMerger) factory() Option {
	return WithMergerFactory(func(model.Quality) Merger { return f })
}

type collector struct {
	mu     sync.Mutex
	events []Event
	done   chan struct{}
}

func collect(ch <-chan Event) *collector {
	c := &collector{done: make(chan struct{})}
	go func() {
		for ev := range ch {
			c.mu.Lock()
			c.events = append(c.events, ev)
			c.mu.Unlock()
		}
		close(c.done)
	}()
	return c
}

func (c *collector) wait(t *testing.T) []Event {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish")
	}
	return c.events
}

func hasLog(events []Event, substr string) bool {
	for _, ev := range events {
		if ev.Kind == EventLog && strings.Contains(ev.Message, substr) {
			return true
		}
	}
	return false
}

func waitStarted(t *testing.T, f *fakeMerger) string {
	t.Helper()
	select {
	case dest := <-f.started:
		return dest
	case <-time.After(5 * time.Second):
		t.Fatal("merge did not start")
	}
	return ""
}

func artifacts(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, m := range matches {
		if model.IsMergeArtifact(m) {
			out = append(out, m)
		}
	}
	return out
}

// makeFolders creates root/<name>/a.pdf for every name.
func makeFolders(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		dir := filepath.Join(root, n)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("placeholder"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestManager_MergesFolderNewestFirst(t *testing.T) {
	root := t.TempDir()
	f1 := filepath.Join(root, "F1")
	if err := os.Mkdir(f1, 0755); err != nil {
		t.Fatal(err)
	}
	pdftest.Write(t, filepath.Join(f1, "x_01-01-2025.pdf"), 300)
	pdftest.Write(t, filepath.Join(f1, "y_02-01-2025.pdf"), 400)

	req := Request{
		Folders:  []string{"F1"},
		BasePath: root,
		Quality:  model.QualityOriginal,
	}

	for run := 1; run <= 2; run++ {
		m := NewManager(testSettings(), WithOCR(&fakeOCR{}))
		events, err := m.Start(context.Background(), req)
		if err != nil {
			t.Fatalf("run %d: Start() error: %v", run, err)
		}
		evs := collect(events).wait(t)

		if m.State() != StateCompleted {
			t.Errorf("run %d: State() = %v, want completed", run, m.State())
		}
		if !hasLog(evs, "Successfully merged 2 PDFs") {
			t.Errorf("run %d: no success log", run)
		}

		out := artifacts(t, f1)
		if len(out) != run {
			t.Fatalf("run %d: %d merged outputs, want %d", run, len(out), run)
		}
		all, _ := filepath.Glob(filepath.Join(f1, "*.pdf"))
		if sources := len(all) - len(out); sources != 2 {
			t.Errorf("run %d: %d source PDFs, want 2", run, sources)
		}
		for _, o := range out {
			if got := pdftest.PageWidths(t, o); fmt.Sprint(got) != fmt.Sprint([]float64{400, 300}) {
				t.Errorf("run %d: %s page widths = %v, want [400 300]", run, filepath.Base(o), got)
			}
		}
	}
}

func TestManager_DeleteSource(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Letters")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	pdftest.Write(t, filepath.Join(dir, "a.pdf"), 300)
	pdftest.Write(t, filepath.Join(dir, "b.pdf"), 310)

	m := NewManager(testSettings(), WithOCR(&fakeOCR{}))
	events, err := m.Start(context.Background(), Request{
		Folders:      []string{"Letters"},
		BasePath:     root,
		Quality:      model.QualityMedium,
		DeleteSource: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	evs := collect(events).wait(t)

	all, _ := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if len(all) != 1 || !model.IsMergeArtifact(all[0]) {
		t.Errorf("folder holds %v, want only the merged output", all)
	}
	if !hasLog(evs, "Removed 2 source PDF files") {
		t.Error("no deletion log")
	}
	snap := m.Progress()
	if snap.InputBytes == 0 || snap.OutputBytes == 0 {
		t.Errorf("byte totals not tracked: %+v", snap)
	}
}

// runToCompletion starts a batch over folder F below root and drains it.
func runToCompletion(t *testing.T, root string, deleteSource bool) []Event {
	t.Helper()
	m := NewManager(testSettings(), WithOCR(&fakeOCR{}))
	events, err := m.Start(context.Background(), Request{
		Folders:      []string{"F"},
		BasePath:     root,
		Quality:      model.QualityOriginal,
		DeleteSource: deleteSource,
	})
	if err != nil {
		t.Fatal(err)
	}
	return collect(events).wait(t)
}

func TestManager_RerunKeepsEarlierOutput(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "F")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	pdftest.Write(t, filepath.Join(dir, "a_01-01-2025.pdf"), 300)
	pdftest.Write(t, filepath.Join(dir, "b_02-01-2025.pdf"), 310)

	runToCompletion(t, root, true)
	out := artifacts(t, dir)
	if len(out) != 1 {
		t.Fatalf("run 1: outputs = %v, want one", out)
	}
	first := out[0]
	wantFirst := fmt.Sprint([]float64{310, 300})
	if got := pdftest.PageWidths(t, first); fmt.Sprint(got) != wantFirst {
		t.Fatalf("run 1: page widths = %v, want %s", got, wantFirst)
	}

	// Only an empty file: the folder fails and must not touch run 1's output.
	empty := filepath.Join(dir, "c_03-01-2025.pdf")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	evs := runToCompletion(t, root, true)
	if !hasLog(evs, "Failed to merge PDFs in F") {
		t.Error("run 2: failure not logged")
	}
	if out := artifacts(t, dir); len(out) != 1 || out[0] != first {
		t.Fatalf("run 2: outputs = %v, want only %s", out, first)
	}
	if got := pdftest.PageWidths(t, first); fmt.Sprint(got) != wantFirst {
		t.Errorf("run 2: earlier output changed, page widths = %v", got)
	}
	if _, err := os.Stat(empty); err != nil {
		t.Errorf("run 2: source of failed folder removed: %v", err)
	}

	// A valid new file: a second output appears next to the first.
	pdftest.Write(t, filepath.Join(dir, "d_04-01-2025.pdf"), 500)
	runToCompletion(t, root, true)
	out = artifacts(t, dir)
	if len(out) != 2 {
		t.Fatalf("run 3: outputs = %v, want two", out)
	}
	for _, o := range out {
		want := fmt.Sprint([]float64{500})
		if o == first {
			want = wantFirst
		}
		if got := pdftest.PageWidths(t, o); fmt.Sprint(got) != want {
			t.Errorf("run 3: %s page widths = %v, want %s", filepath.Base(o), got, want)
		}
	}
	if _, err := os.Stat(empty); err != nil {
		t.Errorf("run 3: skipped empty source removed: %v", err)
	}
}

func TestManager_FailedFolderContinues(t *testing.T) {
	root := t.TempDir()
	bad := filepath.Join(root, "Bad")
	good := filepath.Join(root, "Good")
	for _, d := range []string{bad, good} {
		if err := os.Mkdir(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(bad, "junk.pdf"), []byte(strings.Repeat("junk ", 100)), 0644); err != nil {
		t.Fatal(err)
	}
	pdftest.Write(t, filepath.Join(good, "a.pdf"), 300)

	m := NewManager(testSettings(), WithOCR(&fakeOCR{}))
	events, err := m.Start(context.Background(), Request{
		Folders:      []string{"Bad", "Good"},
		BasePath:     root,
		Quality:      model.QualityOriginal,
		DeleteSource: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	evs := collect(events).wait(t)

	if len(artifacts(t, bad)) != 0 {
		t.Error("failed folder has an output")
	}
	if _, err := os.Stat(filepath.Join(bad, "junk.pdf")); err != nil {
		t.Errorf("source of failed folder removed: %v", err)
	}
	if len(artifacts(t, good)) != 1 {
		t.Error("good folder has no output")
	}
	if !hasLog(evs, "Failed to merge PDFs in Bad") || !hasLog(evs, "junk.pdf") {
		t.Error("failure not logged with diagnostic")
	}
}

func TestManager_NoFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "Empty"), 0755); err != nil {
		t.Fatal(err)
	}

	fm := newFakeMerger(false)
	m := NewManager(testSettings(), WithOCR(&fakeOCR{}), fm.factory())
	events, err := m.Start(context.Background(), Request{Folders: []string{"Empty"}, BasePath: root})
	if err != nil {
		t.Fatal(err)
	}
	evs := collect(events).wait(t)

	if m.State() != StateCompleted {
		t.Errorf("State() = %v, want completed", m.State())
	}
	if fm.callCount() != 0 {
		t.Errorf("merger called %d times", fm.callCount())
	}
	if !hasLog(evs, "No PDF files to process!") {
		t.Error("missing no-files log")
	}
}

func TestManager_StartErrors(t *testing.T) {
	root := makeFolders(t, "A")
	fm := newFakeMerger(true)
	m := NewManager(testSettings(), WithOCR(&fakeOCR{}), fm.factory())

	if _, err := m.Start(context.Background(), Request{BasePath: root}); !errors.Is(err, ErrNoFolders) {
		t.Errorf("Start() without folders = %v, want ErrNoFolders", err)
	}

	events, err := m.Start(context.Background(), Request{Folders: []string{"A"}, BasePath: root})
	if err != nil {
		t.Fatal(err)
	}
	c := collect(events)
	waitStarted(t, fm)

	if _, err := m.Start(context.Background(), Request{Folders: []string{"A"}, BasePath: root}); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}
	if !m.IsRunning() {
		t.Error("IsRunning() = false during merge")
	}

	fm.gate <- struct{}{}
	c.wait(t)

	if m.IsRunning() {
		t.Error("IsRunning() = true after completion")
	}
}

func TestManager_PauseResume(t *testing.T) {
	root := makeFolders(t, "A", "B", "C")
	fm := newFakeMerger(true)
	m := NewManager(testSettings(), WithOCR(&fakeOCR{}), fm.factory())

	events, err := m.Start(context.Background(), Request{Folders: []string{"A", "B", "C"}, BasePath: root})
	if err != nil {
		t.Fatal(err)
	}
	c := collect(events)

	waitStarted(t, fm)
	m.Pause()
	if !m.IsPaused() {
		t.Error("IsPaused() = false after Pause")
	}
	fm.gate <- struct{}{}

	time.Sleep(100 * time.Millisecond)
	if n := fm.callCount(); n != 1 {
		t.Errorf("%d merges started while paused, want 1", n)
	}
	if m.State() != StatePaused {
		t.Errorf("State() = %v, want paused", m.State())
	}
	if len(artifacts(t, filepath.Join(root, "A"))) != 1 {
		t.Error("in-flight merge was not completed before pausing")
	}

	m.Resume()
	if m.IsPaused() {
		t.Error("IsPaused() = true after Resume")
	}
	for range 2 {
		waitStarted(t, fm)
		fm.gate <- struct{}{}
	}
	c.wait(t)

	if n := fm.callCount(); n != 3 {
		t.Errorf("merged %d folders, want 3", n)
	}
}

func TestManager_Stop(t *testing.T) {
	tests := []struct {
		name string
		stop func(m *Manager, cancel context.CancelFunc)
	}{
		{"stop", func(m *Manager, _ context.CancelFunc) { m.Stop() }},
		{"stop while paused", func(m *Manager, _ context.CancelFunc) { m.Pause(); m.Stop() }},
		{"context cancel", func(_ *Manager, cancel context.CancelFunc) { cancel() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := makeFolders(t, "A", "B", "C")
			fm := newFakeMerger(true)
			m := NewManager(testSettings(), WithOCR(&fakeOCR{}), fm.factory())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			events, err := m.Start(ctx, Request{Folders: []string{"A", "B", "C"}, BasePath: root})
			if err != nil {
				t.Fatal(err)
			}
			c := collect(events)

			waitStarted(t, fm)
			tt.stop(m, cancel)
			deadline := time.Now().Add(5 * time.Second)
			for m.State() != StateStopping {
				if time.Now().After(deadline) {
					t.Fatalf("State() = %v, want stopping", m.State())
				}
				time.Sleep(time.Millisecond)
			}
			fm.gate <- struct{}{}
			evs := c.wait(t)

			if n := fm.callCount(); n != 1 {
				t.Errorf("merged %d folders after stop, want 1", n)
			}
			out := artifacts(t, filepath.Join(root, "A"))
			if len(out) != 1 || !VerifyOutput(out[0], 100) {
				t.Errorf("in-flight folder output = %v, want one verified file", out)
			}
			for _, f := range []string{"B", "C"} {
				if len(artifacts(t, filepath.Join(root, f))) != 0 {
					t.Errorf("folder %s has output after stop", f)
				}
			}
			if !hasLog(evs, "Processing stopped by user.") {
				t.Error("missing stop log")
			}
			if m.State() != StateCompleted {
				t.Errorf("State() = %v, want completed", m.State())
			}
		})
	}
}

func TestManager_OCR(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		root := makeFolders(t, "A", "B")
		fm := newFakeMerger(false)
		o := &fakeOCR{available: false}
		m := NewManager(testSettings(), WithOCR(o), fm.factory())

		events, err := m.Start(context.Background(), Request{
			Folders: []string{"A", "B"}, BasePath: root, EnableOCR: true, OCRLanguage: "deu",
		})
		if err != nil {
			t.Fatal(err)
		}
		evs := collect(events).wait(t)

		warnings := 0
		for _, ev := range evs {
			if ev.Kind == EventLog && strings.Contains(ev.Message, "OCRmyPDF is not installed") {
				warnings++
			}
		}
		if warnings != 1 {
			t.Errorf("%d OCR warnings, want 1", warnings)
		}
		if fm.callCount() != 2 {
			t.Errorf("merged %d folders, want 2", fm.callCount())
		}
	})

	t.Run("failure does not block merge", func(t *testing.T) {
		root := makeFolders(t, "A")
		if err := os.WriteFile(filepath.Join(root, "A", "b.pdf"), []byte("placeholder"), 0644); err != nil {
			t.Fatal(err)
		}
		fm := newFakeMerger(false)
		o := &fakeOCR{available: true, fail: map[string]bool{"a.pdf": true}}
		m := NewManager(testSettings(), WithOCR(o), fm.factory())

		events, err := m.Start(context.Background(), Request{
			Folders: []string{"A"}, BasePath: root, EnableOCR: true, OCRLanguage: "deu",
		})
		if err != nil {
			t.Fatal(err)
		}
		evs := collect(events).wait(t)

		if len(o.calls) != 2 {
			t.Errorf("OCR ran on %v, want both files", o.calls)
		}
		if !hasLog(evs, "OCR failed for a.pdf") {
			t.Error("OCR failure not logged")
		}
		if fm.callCount() != 1 {
			t.Errorf("merged %d folders, want 1", fm.callCount())
		}
	})
}

func TestManager_NestedFolderLabel(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2024", "March")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("placeholder"), 0644); err != nil {
		t.Fatal(err)
	}

	fm := newFakeMerger(false)
	m := NewManager(testSettings(), WithOCR(&fakeOCR{}), fm.factory())
	events, err := m.Start(context.Background(), Request{Folders: []string{dir}, BasePath: root})
	if err != nil {
		t.Fatal(err)
	}
	collect(events).wait(t)

	out := artifacts(t, dir)
	if len(out) != 1 || !strings.HasPrefix(filepath.Base(out[0]), "2024_March_") {
		t.Errorf("outputs = %v, want 2024_March_<timestamp>.pdf", out)
	}
}

func TestManager_ProgressThrottle(t *testing.T) {
	root := makeFolders(t, "A", "B", "C")
	fm := newFakeMerger(false)

	s := testSettings()
	s.ProgressInterval = 2
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(s, WithOCR(&fakeOCR{}), fm.factory(), WithClock(func() time.Time { return fixed }))

	events, err := m.Start(context.Background(), Request{Folders: []string{"A", "B", "C"}, BasePath: root})
	if err != nil {
		t.Fatal(err)
	}
	evs := collect(events).wait(t)

	var progress []Event
	for _, ev := range evs {
		if ev.Kind == EventProgress {
			progress = append(progress, ev)
		}
	}
	if len(progress) != 2 {
		t.Fatalf("%d progress events, want the first and the final one", len(progress))
	}
	last := progress[len(progress)-1]
	if last.Current != 3 || last.Total != 3 || last.Message != "Processing complete" {
		t.Errorf("final progress = %+v", last)
	}
	if last.ETA != UnknownETA {
		t.Errorf("ETA = %v with zero elapsed time, want unknown", last.ETA)
	}
}

func TestManager_WarnKeepsPercent(t *testing.T) {
	m := NewManager(testSettings())
	m.events = make(chan Event, 1)

	m.warn("large file (120.0 MiB), 100% of pages will be processed")

	ev := <-m.events
	if ev.Level != LevelWarning {
		t.Errorf("Level = %v, want warning", ev.Level)
	}
	if want := "  large file (120.0 MiB), 100% of pages will be processed"; ev.Message != want {
		t.Errorf("Message = %q, want %q", ev.Message, want)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		current, total int
		elapsed        time.Duration
		want           time.Duration
	}{
		{0, 10, time.Minute, UnknownETA},
		{5, 10, 0, UnknownETA},
		{5, 0, time.Minute, UnknownETA},
		{5, 10, time.Minute, time.Minute},
		{1, 4, 10 * time.Second, 30 * time.Second},
		{10, 10, time.Minute, 0},
	}

	for _, tt := range tests {
		if got := estimate(tt.current, tt.total, tt.elapsed); got != tt.want {
			t.Errorf("estimate(%d, %d, %v) = %v, want %v", tt.current, tt.total, tt.elapsed, got, tt.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{UnknownETA, "--:--:--"},
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "03:04:05"},
		{1500 * time.Millisecond, "00:00:02"},
	}

	for _, tt := range tests {
		if got := FormatETA(tt.d); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"a.pdf",
		"B.PDF",
		"notes.txt",
		"Folder_2024-03-01_09-05-07.pdf",
		"Folder_2024-03-01_09-05-07.pdf.part",
		"a.bak.pdf",
		"scan.OCR.pdf",
		filepath.Join("sub", "c.pdf"),
		filepath.Join("sub", "deeper", "d_05-06-2024.pdf"),
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, skipped := Discover(root, nil)
	if skipped != 1 {
		t.Errorf("artifacts = %d, want 1", skipped)
	}

	var names []string
	for _, f := range got {
		names = append(names, f.Name())
		if f.Size != 4 {
			t.Errorf("%s: Size = %d, want 4", f.Name(), f.Size)
		}
	}
	if strings.Join(names, ",") != "B.PDF,a.pdf,c.pdf,d_05-06-2024.pdf" {
		t.Errorf("Discover() = %v", names)
	}
	if last := got[len(got)-1]; !last.HasDate || last.Date.Month() != time.June {
		t.Errorf("date not extracted: %+v", last)
	}
}

func TestDiscover_MissingFolder(t *testing.T) {
	var errs int
	got, _ := Discover(filepath.Join(t.TempDir(), "missing"), func(string, error) { errs++ })
	if len(got) != 0 || errs != 1 {
		t.Errorf("Discover() = %v with %d errors, want none and 1", got, errs)
	}
}

func TestValidatePath(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"exists", root, root, false},
		{"parent", filepath.Join(root, "gone"), root, false},
		{"grandparent", filepath.Join(root, "gone", "deeper"), root, false},
		{"too deep", filepath.Join(root, "a", "b", "c"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrPathNotFound) {
					t.Errorf("ValidatePath() error = %v, want ErrPathNotFound", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ValidatePath() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestListFolders(t *testing.T) {
	root := makeFolders(t, "b", "a", "c")
	if err := os.WriteFile(filepath.Join(root, "file.pdf"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	base, folders, err := ListFolders(root)
	if err != nil {
		t.Fatal(err)
	}
	if base != root {
		t.Errorf("base = %q, want %q", base, root)
	}
	want := []string{filepath.Join(root, "a"), filepath.Join(root, "b"), filepath.Join(root, "c")}
	if fmt.Sprint(folders) != fmt.Sprint(want) {
		t.Errorf("ListFolders() = %v, want %v", folders, want)
	}
}

func TestVerifyOutput(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.pdf")
	big := filepath.Join(dir, "big.pdf")
	os.WriteFile(small, make([]byte, 50), 0644)
	os.WriteFile(big, make([]byte, 150), 0644)

	if VerifyOutput(small, 100) {
		t.Error("VerifyOutput(small) = true")
	}
	if !VerifyOutput(big, 100) {
		t.Error("VerifyOutput(big) = false")
	}
	if VerifyOutput(filepath.Join(dir, "missing.pdf"), 100) {
		t.Error("VerifyOutput(missing) = true")
	}
	if VerifyOutput(dir, 0) {
		t.Error("VerifyOutput(dir) = true")
	}
}
