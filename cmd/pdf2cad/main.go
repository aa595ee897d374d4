// Command pdf2cad converts vector drawings in PDF files to DXF or DWG.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vectorcad/pdf2cad"
	"github.com/vectorcad/pdf2cad/pkg/oda"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	format    string
	mode      string
	pages     string
	scale     float64
	tolerance float64
	version   string
	output    string
	odaPath   string
	timeout   time.Duration
	keepDXF   bool
	dedup     bool
	quiet     bool
}

func newRootCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "pdf2cad INPUT.pdf [OUTPUT]",
		Short: "Convert PDF vector drawings to CAD exchange formats",
		Long: `pdf2cad extracts lines, polylines, arcs, circles and text from the
vector content of a PDF and writes them as DXF, or as DWG through the
ODA File Converter.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "dxf", "output format: dxf, dwg or both")
	flags.StringVarP(&opts.mode, "mode", "m", "merge", "page mode: single, separate or merge")
	flags.StringVarP(&opts.pages, "pages", "p", "", "comma-separated 1-based page list, e.g. 1,3,5")
	flags.Float64VarP(&opts.scale, "scale", "s", 1.0, "global scale factor")
	flags.Float64VarP(&opts.tolerance, "tolerance", "t", 0.01, "relative circle-fit tolerance")
	flags.StringVar(&opts.version, "dwg-version", oda.DefaultVersion, "DWG version tag for the external converter")
	flags.StringVarP(&opts.output, "output", "o", "", "output base path (default: input path without extension)")
	flags.StringVar(&opts.odaPath, "oda-path", "", "explicit ODA File Converter binary")
	flags.DurationVar(&opts.timeout, "timeout", oda.DefaultTimeout, "per-document external converter timeout")
	flags.BoolVar(&opts.keepDXF, "keep-dxf", false, "keep intermediate DXF files when producing DWG")
	flags.BoolVar(&opts.dedup, "dedup", true, "drop exact duplicate entities in merge mode")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress diagnostics")

	cmd.AddCommand(newCheckODACmd())
	return cmd
}

func runConvert(ctx context.Context, args []string, opts cliOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	input := args[0]
	output := opts.output
	if len(args) == 2 {
		output = args[1]
	}

	format, err := pdf2cad.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	mode, err := pdf2cad.ParsePageMode(opts.mode)
	if err != nil {
		return err
	}
	pages, err := parsePages(opts.pages)
	if err != nil {
		return err
	}
	if opts.scale <= 0 {
		return errors.New("scale must be positive")
	}

	// Degrade gracefully when DWG output is requested without the external
	// converter installed.
	if format != pdf2cad.FormatDXF && !oda.Find(opts.odaPath).Available() {
		fmt.Fprintln(os.Stderr, "warning:", oda.InstallHint)
		fmt.Fprintln(os.Stderr, "warning: falling back to DXF output")
		format = pdf2cad.FormatDXF
	}

	conv := pdf2cad.Options{
		Format:         format,
		Mode:           mode,
		Pages:          pages,
		Scale:          opts.scale,
		CurveTolerance: opts.tolerance,
		Version:        opts.version,
		OutputPath:     output,
		ODAPath:        opts.odaPath,
		Timeout:        opts.timeout,
		KeepDXF:        opts.keepDXF,
		Dedup:          opts.dedup,
	}
	if !opts.quiet {
		conv.Diag = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	result, err := pdf2cad.Convert(ctx, input, conv)
	if err != nil {
		return err
	}

	if !opts.quiet {
		for _, f := range result.OutputFiles {
			fmt.Println(f)
		}
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	if !opts.quiet {
		fmt.Println(result.Message)
	}
	return nil
}

// parsePages turns a 1-based comma list into 0-based indices.
func parsePages(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	pages := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page %q: want a positive page number", part)
		}
		pages = append(pages, n-1)
	}
	return pages, nil
}

func newCheckODACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-oda",
		Short: "Check whether the ODA File Converter is installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := oda.Find("")
			if !conv.Available() {
				return errors.New(oda.InstallHint)
			}
			fmt.Println("ODA File Converter:", conv.Path)
			return nil
		},
	}
}
