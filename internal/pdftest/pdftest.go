// Package pdftest builds small PDF fixtures for tests.
//
// Plain pages are written by a minimal writer so that each page can be
// told apart by its width. Image pages go through pdfcpu's image import.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	api.DisableConfigDir()
}

// Bytes returns a valid PDF with one page per width. Every page is 792pt
// high and shows its page number in Helvetica.
func Bytes(widths ...float64) []byte {
	var objects []string

	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range widths {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(widths)))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, w := range widths {
		content := fmt.Sprintf("BT /F1 12 Tf 20 20 Td (page %d) Tj ET", i+1)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", w, 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// Write stores Bytes(widths...) at path.
func Write(tb testing.TB, path string, widths ...float64) {
	tb.Helper()
	if err := os.WriteFile(path, Bytes(widths...), 0644); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
}

// PNG returns a w x h photo-like PNG: smooth gradients with grain.
func PNG(tb testing.TB, w, h int, seed int64) []byte {
	tb.Helper()

	rnd := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			grain := rnd.Intn(24) - 12
			r := 128 + 100*math.Sin(float64(x)/37) + float64(grain)
			g := 128 + 100*math.Cos(float64(y)/23) + float64(grain)
			b := 128 + 100*math.Sin(float64(x+y)/51) + float64(grain)
			img.Set(x, y, color.RGBA{clamp(r), clamp(g), clamp(b), 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// WriteImagePDF stores a PDF with one page per image at path.
func WriteImagePDF(tb testing.TB, path string, images ...[]byte) {
	tb.Helper()

	readers := make([]io.Reader, len(images))
	for i, img := range images {
		readers[i] = bytes.NewReader(img)
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, readers, nil, nil); err != nil {
		tb.Fatalf("importing images: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
}

// Encrypt encrypts the PDF at path in place with AES-256. The user password
// is empty, so the file opens without a prompt but carries ownerPW.
func Encrypt(tb testing.TB, path, ownerPW string) {
	tb.Helper()
	if err := api.EncryptFile(path, "", model.NewAESConfiguration("", ownerPW, 256)); err != nil {
		tb.Fatalf("encrypting %s: %v", path, err)
	}
}

// IsEncrypted reports whether the PDF at path has an Encrypt dictionary.
func IsEncrypted(tb testing.TB, path string) bool {
	tb.Helper()

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		tb.Fatalf("reading %s: %v", path, err)
	}
	return ctx.Encrypt != nil
}

// PageWidths returns the MediaBox width of every page in the PDF at path.
func PageWidths(tb testing.TB, path string) []float64 {
	tb.Helper()

	dims, err := api.PageDimsFile(path)
	if err != nil {
		tb.Fatalf("reading page dims of %s: %v", path, err)
	}
	widths := make([]float64, len(dims))
	for i, d := range dims {
		widths[i] = d.Width
	}
	return widths
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
