// Package pdf2cad converts vector graphics in PDF documents into CAD
// exchange formats (DXF, and DWG via the external ODA File Converter).
package pdf2cad

import (
	"context"

	"github.com/vectorcad/pdf2cad/pkg/aggregate"
	"github.com/vectorcad/pdf2cad/pkg/convert"
	"github.com/vectorcad/pdf2cad/pkg/source"
)

// Re-export the public conversion surface.
type (
	Options         = convert.Options
	Result          = convert.Result
	DocumentOutcome = convert.DocumentOutcome
	Format          = convert.Format
	PageMode        = aggregate.Mode
)

const (
	FormatDXF  = convert.FormatDXF
	FormatDWG  = convert.FormatDWG
	FormatBoth = convert.FormatBoth

	ModeSingle   = aggregate.ModeSingle
	ModeSeparate = aggregate.ModeSeparate
	ModeMerge    = aggregate.ModeMerge
)

var (
	ParseFormat   = convert.ParseFormat
	ParsePageMode = aggregate.ParseMode
)

// Convert runs the full pipeline on the PDF at inputPath.
func Convert(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	return convert.Convert(ctx, inputPath, opts)
}

// Open opens a PDF as a drawing operation source for callers that want to
// drive the pipeline themselves.
func Open(path string) (*source.Document, error) {
	return source.Open(path)
}
