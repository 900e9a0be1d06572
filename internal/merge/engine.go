package merge

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/handiism/pdf-batch-joiner/internal/model"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// DefaultMinFileSize is the size floor below which a file is treated
	// as a corrupt placeholder.
	DefaultMinFileSize = 100

	// DefaultMinImageSize is the smallest width or height that is recompressed.
	DefaultMinImageSize = 100

	partSuffix = ".part"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// Result is the outcome of a Merge call.
type Result struct {
	// OK is true when at least one page was written to the destination.
	OK bool

	// Diagnostic is empty on a clean run. On success with skipped files it
	// names them; on failure it lists every skipped file with its reason.
	Diagnostic string

	// Pages is the number of pages written.
	Pages int

	// Merged lists the sources whose pages ended up in the output, in order.
	Merged []string

	// Skipped lists the sources that were left out.
	Skipped []Skipped

	// ImagesReplaced counts recompressed images substituted in the output.
	ImagesReplaced int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinFileSize overrides DefaultMinFileSize.
func WithMinFileSize(n int64) Option {
	return func(e *Engine) { e.minFileSize = n }
}

// WithMinImageSize overrides DefaultMinImageSize.
func WithMinImageSize(n int) Option {
	return func(e *Engine) { e.minImageSize = n }
}

// WithImageService sets the image codec used by the compression pass.
func WithImageService(s *ioutils.ImageService) Option {
	return func(e *Engine) { e.images = s }
}

// Engine merges PDF files with an optional image recompression pass.
// An Engine holds no per-merge state and may be reused.
type Engine struct {
	quality      model.Quality
	minFileSize  int64
	minImageSize int
	images       *ioutils.ImageService
}

// NewEngine creates an Engine for the given preset.
func NewEngine(quality model.Quality, opts ...Option) *Engine {
	e := &Engine{
		quality:      quality,
		minFileSize:  DefaultMinFileSize,
		minImageSize: DefaultMinImageSize,
		images:       ioutils.NewImageService(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge concatenates sources, in order, into dest.
//
// Missing, empty and undersized files are skipped, as are files that fail
// to parse. A bad source never aborts the merge: the result is successful
// as long as at least one page was written.
//
// The output is written to dest+".part" and renamed into place only once
// it is complete. An existing dest is never replaced: the merge fails
// instead and leaves it untouched.
//
// ctx only bounds the image recompression pass; once writing starts it
// runs to completion.
func (e *Engine) Merge(ctx context.Context, sources []string, dest string) Result {
	var res Result

	valid := e.prevalidate(sources, &res)
	if len(valid) == 0 {
		res.Diagnostic = skipReport("No valid PDFs found.\nSkipped files:", res.Skipped)
		return res
	}

	conf := e.configuration()

	var (
		ctxDest *pdfmodel.Context
		closers []io.Closer
	)
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, path := range valid {
		f, err := os.Open(path)
		if err != nil {
			res.Skipped = append(res.Skipped, classify(path, err))
			continue
		}
		closers = append(closers, f)

		ctxSrc, err := api.ReadAndValidate(f, conf)
		if err != nil {
			res.Skipped = append(res.Skipped, classify(path, err))
			continue
		}

		if e.quality.Recompresses() {
			res.ImagesReplaced += e.compress(ctx, ctxSrc)
		}

		if ctxDest == nil {
			if ctxSrc.XRefTable.Version() < pdfmodel.V20 {
				ctxSrc.EnsureVersionForWriting()
			}
			dropEncryption(ctxSrc)
			ctxDest = ctxSrc
		} else if err := appendContext(filepath.Base(path), ctxSrc, ctxDest); err != nil {
			res.Skipped = append(res.Skipped, classify(path, err))
			continue
		}

		res.Pages += ctxSrc.PageCount
		res.Merged = append(res.Merged, path)
	}

	if ctxDest == nil || res.Pages == 0 {
		res.Pages = 0
		res.Merged = nil
		res.Diagnostic = skipReport("No PDFs could be processed.\nProblems:", res.Skipped)
		return res
	}

	if err := e.write(ctxDest, dest); err != nil {
		res.Pages = 0
		res.Merged = nil
		res.Diagnostic = fmt.Sprintf("Writing %s failed: %s", filepath.Base(dest), truncate(err.Error(), 100))
		return res
	}

	res.OK = true
	if len(res.Skipped) > 0 {
		names := make([]string, len(res.Skipped))
		for i, s := range res.Skipped {
			names[i] = s.Name
		}
		res.Diagnostic = fmt.Sprintf("Successful, but %d file(s) skipped: %s", len(res.Skipped), strings.Join(names, ", "))
	}

	return res
}

func (e *Engine) prevalidate(sources []string, res *Result) []string {
	valid := make([]string, 0, len(sources))
	for _, path := range sources {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			res.Skipped = append(res.Skipped, newSkipped(path, 0, KindMissing, "file does not exist"))
		case info.Size() == 0:
			res.Skipped = append(res.Skipped, newSkipped(path, 0, KindEmpty, "empty file (0 bytes)"))
		case info.Size() < e.minFileSize:
			res.Skipped = append(res.Skipped, newSkipped(path, info.Size(), KindTooSmall,
				fmt.Sprintf("file too small (%d bytes)", info.Size())))
		default:
			valid = append(valid, path)
		}
	}
	return valid
}

// configuration mirrors what pdfcpu's own merge commands use, with the
// write mode chosen by the preset.
func (e *Engine) configuration() *pdfmodel.Configuration {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.Cmd = pdfmodel.MERGECREATE
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	conf.CreateBookmarks = false

	compress := e.quality.Recompresses()
	conf.WriteObjectStream = compress
	conf.WriteXRefStream = compress
	conf.OptimizeBeforeWriting = compress

	return conf
}

func appendContext(name string, ctxSrc, ctxDest *pdfmodel.Context) error {
	if ctxDest.XRefTable.Version() < pdfmodel.V20 && ctxSrc.XRefTable.Version() == pdfmodel.V20 {
		return pdfcpu.ErrUnsupportedVersion
	}
	return pdfcpu.MergeXRefTables(name, ctxSrc, ctxDest, false, false)
}

// write stores ctx at dest via a temporary file that does not carry the
// .pdf extension, so an interrupted write is never picked up as a source.
func (e *Engine) write(ctx *pdfmodel.Context, dest string) error {
	if ioutils.Exists(dest) {
		return fmt.Errorf("%s: %w", filepath.Base(dest), fs.ErrExist)
	}

	if ctx.OptimizeBeforeWriting {
		if err := api.OptimizeContext(ctx); err != nil {
			return err
		}
	}

	temp := dest + partSuffix
	f, err := os.Create(temp)
	if err != nil {
		return err
	}

	if err := api.WriteContext(ctx, f); err != nil {
		f.Close()
		os.Remove(temp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(temp)
		return err
	}

	if size, err := ioutils.FileSize(temp); err != nil || size < e.minFileSize {
		os.Remove(temp)
		return fmt.Errorf("output smaller than %d bytes", e.minFileSize)
	}

	if ioutils.Exists(dest) {
		os.Remove(temp)
		return fmt.Errorf("%s: %w", filepath.Base(dest), fs.ErrExist)
	}
	if err := os.Rename(temp, dest); err != nil {
		os.Remove(temp)
		return err
	}
	return nil
}

// dropEncryption turns ctx into a plain document. Objects are already
// decrypted on read; without a key the writer emits no Encrypt entry.
func dropEncryption(ctx *pdfmodel.Context) {
	ctx.Encrypt = nil
	ctx.EncKey = nil
	ctx.E = nil
}

func skipReport(header string, skipped []Skipped) string {
	var b strings.Builder
	b.WriteString(header)
	for _, s := range skipped {
		fmt.Fprintf(&b, "\n  - %s: %s", s.Name, s.Reason)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
