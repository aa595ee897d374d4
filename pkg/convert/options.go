// Package convert orchestrates the conversion pipeline: page extraction,
// path reconstruction, classification, aggregation, serialization and the
// optional external DWG conversion.
package convert

import (
	"fmt"
	"time"

	"github.com/vectorcad/pdf2cad/pkg/aggregate"
)

// Format selects the output file format(s).
type Format uint8

const (
	// FormatDXF writes the exchange format only.
	FormatDXF Format = iota + 1
	// FormatDWG writes the binary format via the external converter; the
	// intermediate exchange file is removed unless KeepDXF is set.
	FormatDWG
	// FormatBoth keeps both outputs.
	FormatBoth
)

// String returns the format's configuration name.
func (f Format) String() string {
	switch f {
	case FormatDXF:
		return "dxf"
	case FormatDWG:
		return "dwg"
	case FormatBoth:
		return "both"
	}
	return "unknown"
}

// ParseFormat maps a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "dxf":
		return FormatDXF, nil
	case "dwg":
		return FormatDWG, nil
	case "both":
		return FormatBoth, nil
	}
	return 0, fmt.Errorf("unknown output format %q (want dxf, dwg or both)", s)
}

// needsDWG reports whether the external converter is required.
func (f Format) needsDWG() bool { return f == FormatDWG || f == FormatBoth }

// keepsDXF reports whether the exchange file is part of the output.
func (f Format) keepsDXF() bool { return f == FormatDXF || f == FormatBoth }

// Options configures one conversion run.
type Options struct {
	// Format selects the output format; zero means FormatDXF.
	Format Format
	// Scale multiplies all output geometry; zero or negative means 1.0.
	Scale float64
	// Mode is the page-handling mode; zero means aggregate.ModeSingle.
	Mode aggregate.Mode
	// Pages is an explicit 0-based page subset. Nil selects all pages.
	Pages []int
	// Version is the DWG version tag passed through to the external
	// converter uninterpreted.
	Version string
	// CurveTolerance is the relative circle-fit threshold; zero means the
	// classifier default.
	CurveTolerance float64
	// OutputPath overrides the output base path derived from the input.
	OutputPath string
	// KeepDXF retains intermediate exchange files in DWG-only mode.
	KeepDXF bool
	// ODAPath is an explicit external converter binary path.
	ODAPath string
	// Timeout bounds each external converter call.
	Timeout time.Duration
	// GapFraction is the merge-mode inter-page gap fraction.
	GapFraction float64
	// Dedup removes exact duplicate entities in merge mode.
	Dedup bool
	// Workers caps document-level parallelism; zero picks a default.
	Workers int
	// Diag receives diagnostics; nil discards them.
	Diag func(format string, args ...any)
}

// DocumentOutcome records the result for one output document.
type DocumentOutcome struct {
	// Name distinguishes the document within the run; empty for
	// single-document modes.
	Name string
	// Files lists the files written for this document.
	Files []string
	// Pages lists the source page indices included.
	Pages []int
	// Entities is the number of primitives written.
	Entities int
	// Err is the per-document failure, if any.
	Err error
}

// Result is the final aggregate outcome of a conversion run.
type Result struct {
	// Success is true iff every requested document succeeded.
	Success bool
	// OutputFiles lists all files written, in document order.
	OutputFiles []string
	// Documents holds the per-document outcomes.
	Documents []DocumentOutcome
	// PagesProcessed is the number of source pages consumed.
	PagesProcessed int
	// EntityCount is the total number of primitives written.
	EntityCount int
	// Message summarizes the run for human consumption.
	Message string
}
