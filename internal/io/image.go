package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration (CMYK renders)
)

// ErrImageTooSmall is returned when an image is below the minimum
// dimensions and should be left untouched.
var ErrImageTooSmall = errors.New("image below minimum dimensions")

// RecompressOptions controls a single image recompression.
type RecompressOptions struct {
	// Quality is the JPEG quality factor (1-100).
	Quality int

	// Scale is the downscale factor. Values >= 1 keep the original size.
	Scale float64

	// MinSize is the smallest width or height that is processed, and the
	// floor each side is clamped to when scaling.
	MinSize int
}

// Recompressed holds a re-encoded image.
type Recompressed struct {
	Data   []byte
	Width  int
	Height int
}

// ImageService provides image processing operations for embedded PDF images.
//
// ImageService is used to:
//   - Flatten transparency onto a white background
//   - Downscale images to a target resolution
//   - Re-encode images as baseline JPEG
//
// Example usage:
//
//	svc := NewImageService()
//	out, err := svc.Recompress(ctx, r, RecompressOptions{Quality: 75, Scale: 0.66, MinSize: 100})
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Recompress decodes an image (JPEG, PNG or TIFF), flattens it onto white,
// optionally scales it down and encodes it as JPEG.
//
// Images whose width or height is below opts.MinSize return
// ErrImageTooSmall. When scaling, each side is clamped to at least
// opts.MinSize pixels. The Catmull-Rom kernel is used for resampling.
func (s *ImageService) Recompress(ctx context.Context, r io.Reader, opts RecompressOptions) (*Recompressed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < opts.MinSize || height < opts.MinSize {
		return nil, ErrImageTooSmall
	}

	if opts.Scale > 0 && opts.Scale < 1 {
		width = max(int(float64(width)*opts.Scale), opts.MinSize)
		height = max(int(float64(height)*opts.Scale), opts.MinSize)
	}

	flat := s.Flatten(img, width, height)

	data, err := s.EncodeJPEG(flat, opts.Quality)
	if err != nil {
		return nil, err
	}

	return &Recompressed{Data: data, Width: width, Height: height}, nil
}

// Flatten draws img onto an opaque white canvas of the given size.
// Transparent regions become white; the result has no alpha.
func (s *ImageService) Flatten(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// EncodeJPEG encodes img as a baseline JPEG.
func (s *ImageService) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
