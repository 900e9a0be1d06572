package merge

import (
	"context"

	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// assumedSourceDPI is the resolution embedded scans are assumed to have.
const assumedSourceDPI = 300.0

// compress recompresses the raster images referenced by every page of pdf
// and Flate-encodes unfiltered streams. It returns the number of images
// replaced. Errors never propagate: a failing image keeps its original.
func (e *Engine) compress(ctx context.Context, pdf *pdfmodel.Context) int {
	seen := make(map[int]bool)
	replaced := 0

	for pageNr := 1; pageNr <= pdf.PageCount; pageNr++ {
		if ctx.Err() != nil {
			break
		}
		_, _, inh, err := pdf.PageDict(pageNr, false)
		if err != nil || inh == nil || inh.Resources == nil {
			continue
		}
		replaced += e.compressResources(ctx, pdf, inh.Resources, seen)
	}

	compressStreams(pdf)
	return replaced
}

// compressResources walks the XObject entries of a resource dictionary,
// descending into form XObjects.
func (e *Engine) compressResources(ctx context.Context, pdf *pdfmodel.Context, res types.Dict, seen map[int]bool) int {
	obj, found := res.Find("XObject")
	if !found {
		return 0
	}
	xobjects, err := pdf.DereferenceDict(obj)
	if err != nil || xobjects == nil {
		return 0
	}

	replaced := 0
	for name, o := range xobjects {
		ref, ok := o.(types.IndirectRef)
		if !ok {
			continue
		}
		objNr := ref.ObjectNumber.Value()
		if seen[objNr] {
			continue
		}
		seen[objNr] = true

		sd, _, err := pdf.DereferenceStreamDict(ref)
		if err != nil || sd == nil {
			continue
		}

		subtype := sd.Subtype()
		if subtype == nil {
			continue
		}

		switch *subtype {
		case "Image":
			if e.recompressImage(ctx, pdf, sd, name, objNr) {
				replaced++
			}
		case "Form":
			o, found := sd.Find("Resources")
			if !found {
				continue
			}
			if formRes, err := pdf.DereferenceDict(o); err == nil && formRes != nil {
				replaced += e.compressResources(ctx, pdf, formRes, seen)
			}
		}
	}
	return replaced
}

// recompressImage replaces image object objNr with a JPEG re-encoding when
// the result is not larger than the original stream.
func (e *Engine) recompressImage(ctx context.Context, pdf *pdfmodel.Context, sd *types.StreamDict, name string, objNr int) bool {
	if mask := sd.BooleanEntry("ImageMask"); mask != nil && *mask {
		return false
	}
	original := len(sd.Raw)
	if original == 0 {
		return false
	}

	img, err := pdfcpu.ExtractImage(pdf, sd, false, name, objNr, false)
	if err != nil || img == nil || img.Reader == nil || img.FileType == "jpx" {
		return false
	}

	out, err := e.images.Recompress(ctx, img.Reader, ioutils.RecompressOptions{
		Quality: e.quality.JPEGQuality(),
		Scale:   float64(e.quality.MaxDPI()) / assumedSourceDPI,
		MinSize: e.minImageSize,
	})
	if err != nil {
		return false
	}

	newSD, err := pdfmodel.CreateDCTImageStreamDict(pdf.XRefTable, out.Data, out.Width, out.Height, 8, pdfmodel.DeviceRGBCS)
	if err != nil || len(newSD.Raw) > original {
		return false
	}

	entry, found := pdf.FindTableEntryLight(objNr)
	if !found {
		return false
	}
	entry.Object = *newSD
	return true
}

// compressStreams Flate-encodes streams that carry no filter at all.
// Metadata streams stay readable as plain XML.
func compressStreams(pdf *pdfmodel.Context) {
	for _, entry := range pdf.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok || len(sd.Raw) == 0 || sd.FilterPipeline != nil {
			continue
		}
		if _, found := sd.Find("Filter"); found {
			continue
		}
		if t := sd.Type(); t != nil && (*t == "Metadata" || *t == "XRef" || *t == "ObjStm") {
			continue
		}

		sd.Dict = sd.Dict.Clone().(types.Dict)
		sd.Content = sd.Raw
		sd.FilterPipeline = []types.PDFFilter{{Name: filter.Flate}}
		if err := sd.Encode(); err != nil {
			continue
		}
		sd.InsertName("Filter", filter.Flate)
		sd.Content = nil
		entry.Object = sd
	}
}
