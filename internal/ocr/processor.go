package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
)

// DefaultTimeout bounds a single ocrmypdf invocation.
const DefaultTimeout = 300 * time.Second

// Files above this size get a warning before OCR starts.
const largeFileSize = 100 << 20

// Fallback locations for Homebrew installs that are not on PATH.
var searchDirs = []string{"/opt/homebrew/bin", "/usr/local/bin"}

// Option configures a Processor.
type Option func(*Processor)

// WithBinary uses the given ocrmypdf executable instead of looking it up.
func WithBinary(path string) Option {
	return func(p *Processor) { p.binary = path }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Processor) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithOptimizeLevel sets ocrmypdf's --optimize level (0 to 3).
func WithOptimizeLevel(level int) Option {
	return func(p *Processor) { p.optimize = level }
}

// WithBackup keeps a .bak.pdf copy of every file processed in place.
func WithBackup(backup bool) Option {
	return func(p *Processor) { p.backup = backup }
}

// WithWarnFunc receives warnings such as large input files.
func WithWarnFunc(fn func(string)) Option {
	return func(p *Processor) { p.warn = fn }
}

// Processor adds a text layer to PDFs by running ocrmypdf.
type Processor struct {
	binary   string
	timeout  time.Duration
	optimize int
	backup   bool
	warn     func(string)
}

// NewProcessor creates a Processor. Unless WithBinary is given, ocrmypdf is
// looked up on PATH and then in the Homebrew directories.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	if p.binary == "" {
		p.binary = findBinary("ocrmypdf")
	}
	return p
}

// Available reports whether an ocrmypdf executable was found.
func (p *Processor) Available() bool {
	return p.binary != ""
}

// Binary returns the resolved ocrmypdf path, or "" when unavailable.
func (p *Processor) Binary() string {
	return p.binary
}

// Process writes an OCR'd copy of in to out. It returns whether the step
// succeeded and a human readable message; the message is set on failure
// and when ocrmypdf had nothing to do.
func (p *Processor) Process(ctx context.Context, in, out, language string, skipText bool) (bool, string) {
	if !p.Available() {
		return false, "OCRmyPDF is not installed (install with: brew install ocrmypdf)"
	}

	info, err := os.Stat(in)
	if err != nil {
		return false, "input file not found: " + in
	}
	if info.Size() > largeFileSize && p.warn != nil {
		p.warn(fmt.Sprintf("Large file (%s), OCR may take a while", ioutils.FormatBytes(info.Size())))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary, p.args(in, out, language, skipText)...)
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return false, fmt.Sprintf("OCR timed out after %s", p.timeout)
	case err == nil:
		return true, ""
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false, "OCR error: " + truncate(err.Error(), 100)
	}
	return classifyFailure(stderr.String(), exitErr.ExitCode(), skipText)
}

// ProcessInPlace replaces path with its OCR'd version. The result is
// written to a temporary .ocr.pdf next to the file and renamed over it, so
// a failed run leaves the original untouched.
func (p *Processor) ProcessInPlace(ctx context.Context, path, language string, skipText bool) (bool, string) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	temp := stem + tempSuffix
	backup := stem + backupSuffix

	if p.backup {
		if err := ioutils.CopyFile(path, backup); err != nil {
			return false, "backup failed: " + truncate(err.Error(), 100)
		}
	}

	ok, msg := p.Process(ctx, path, temp, language, skipText)
	if !ok || !ioutils.Exists(temp) {
		ioutils.RemoveIfExists(temp)
		return ok, msg
	}

	if err := os.Rename(temp, path); err != nil {
		ioutils.RemoveIfExists(temp)
		if p.backup {
			os.Rename(backup, path)
		}
		return false, "replacing original failed: " + truncate(err.Error(), 100)
	}
	return true, msg
}

// Suffixes of the files ProcessInPlace writes next to its input.
const (
	tempSuffix   = ".ocr.pdf"
	backupSuffix = ".bak.pdf"
)

// IsWorkFile reports whether name is an OCR temporary or backup file.
func IsWorkFile(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	return strings.HasSuffix(lower, tempSuffix) || strings.HasSuffix(lower, backupSuffix)
}

func (p *Processor) args(in, out, language string, skipText bool) []string {
	args := []string{"-l", language, "--optimize", strconv.Itoa(p.optimize)}
	if skipText {
		args = append(args, "--skip-text")
	}
	return append(args, in, out)
}

// ocrmypdf exit codes, see its ExitCode enum.
const (
	exitInputFile    = 2
	exitAlreadyDone  = 6
	exitEncryptedPDF = 8
)

func classifyFailure(stderr string, code int, skipText bool) (bool, string) {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "password"), strings.Contains(lower, "encrypted"), code == exitEncryptedPDF:
		return false, "PDF is password protected"
	case strings.Contains(lower, "not a valid pdf"), code == exitInputFile:
		return false, "invalid or damaged PDF"
	case skipText && (strings.Contains(lower, "no text found") || code == exitAlreadyDone):
		return true, "pages already contain text"
	}

	line := strings.TrimSpace(stderr)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		line = fmt.Sprintf("unknown error (exit code %d)", code)
	}
	return false, "OCR failed: " + truncate(line, 100)
}

func findBinary(name string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	for _, dir := range searchDirs {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
