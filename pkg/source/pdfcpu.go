// Package source reads PDF documents and turns each page's content stream
// into the flat drawing operation stream the pipeline consumes.
package source

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/vectorcad/pdf2cad/pkg/ops"
)

// Document is a PDF-backed drawing operation source. Geometry comes from
// interpreting each page's raw content stream; positioned text comes from
// a separate text reader over the same file.
type Document struct {
	ctx  *model.Context
	path string

	textFile   *os.File
	textReader *lpdf.Reader
}

var _ ops.StreamSource = (*Document)(nil)

// Open reads and validates the PDF at path.
func Open(path string) (*Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	d := &Document{ctx: ctx, path: path}

	// The text reader is best effort; a PDF whose text layer cannot be
	// parsed still yields its geometry.
	if f, r, err := lpdf.Open(path); err == nil {
		d.textFile = f
		d.textReader = r
	}
	return d, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Page extracts the drawing operation stream for the 0-based page index.
func (d *Document) Page(index int) (ops.PageStream, error) {
	pageNo := index + 1
	if pageNo < 1 || pageNo > d.ctx.PageCount {
		return ops.PageStream{}, fmt.Errorf("page %d out of range [0, %d)", index, d.ctx.PageCount)
	}

	pageDict, _, attrs, err := d.ctx.PageDict(pageNo, false)
	if err != nil {
		return ops.PageStream{}, fmt.Errorf("page %d: %w", index, err)
	}

	width, height := 612.0, 792.0
	if attrs != nil && attrs.MediaBox != nil {
		width = attrs.MediaBox.Width()
		height = attrs.MediaBox.Height()
	}

	content, err := d.pageContent(pageDict)
	if err != nil {
		return ops.PageStream{}, fmt.Errorf("page %d: %w", index, err)
	}

	in := newInterpreter(index, height)
	stream := ops.PageStream{
		Index:  index,
		Width:  width,
		Height: height,
		Ops:    in.run(content),
	}
	stream.Ops = append(stream.Ops, d.textOps(index, height)...)
	return stream, nil
}

// Close releases the underlying file handles.
func (d *Document) Close() error {
	if d.textFile != nil {
		return d.textFile.Close()
	}
	return nil
}

// pageContent decodes and concatenates the page's content streams.
func (d *Document) pageContent(pageDict types.Dict) ([]byte, error) {
	contents := pageDict["Contents"]
	if contents == nil {
		return nil, nil
	}

	var combined []byte
	appendStream := func(ref types.IndirectRef) error {
		sd, _, err := d.ctx.DereferenceStreamDict(ref)
		if err != nil || sd == nil {
			return err
		}
		if len(sd.Content) == 0 {
			if err := sd.Decode(); err != nil {
				return err
			}
		}
		combined = append(combined, sd.Content...)
		combined = append(combined, '\n')
		return nil
	}

	switch v := contents.(type) {
	case types.IndirectRef:
		if err := appendStream(v); err != nil {
			return nil, err
		}
	case *types.IndirectRef:
		if err := appendStream(*v); err != nil {
			return nil, err
		}
	case types.Array:
		for _, item := range v {
			switch ref := item.(type) {
			case types.IndirectRef:
				if err := appendStream(ref); err != nil {
					return nil, err
				}
			case *types.IndirectRef:
				if err := appendStream(*ref); err != nil {
					return nil, err
				}
			}
		}
	}
	return combined, nil
}
