package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/vectorcad/pdf2cad/pkg/aggregate"
	"github.com/vectorcad/pdf2cad/pkg/classify"
	"github.com/vectorcad/pdf2cad/pkg/dxf"
	"github.com/vectorcad/pdf2cad/pkg/entity"
	"github.com/vectorcad/pdf2cad/pkg/oda"
	"github.com/vectorcad/pdf2cad/pkg/ops"
	"github.com/vectorcad/pdf2cad/pkg/path"
	"github.com/vectorcad/pdf2cad/pkg/source"
	"github.com/vectorcad/pdf2cad/pkg/style"
)

// Convert opens the PDF at inputPath and runs the full pipeline.
func Convert(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	doc, err := source.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	base := opts.OutputPath
	if base == "" {
		base = inputPath
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return ConvertSource(ctx, doc, base, opts)
}

// ConvertSource runs the pipeline against any drawing operation source,
// writing outputs under the given base path (extension-free). Documents
// fail independently: a malformed page or failed external conversion is
// recorded in its outcome while the rest of the batch completes.
func ConvertSource(ctx context.Context, src ops.StreamSource, base string, opts Options) (*Result, error) {
	mode := opts.Mode
	if mode == 0 {
		mode = aggregate.ModeSingle
	}
	format := opts.Format
	if format == 0 {
		format = FormatDXF
	}

	var conv *oda.Converter
	if format.needsDWG() {
		conv = oda.Find(opts.ODAPath)
		conv.Timeout = opts.Timeout
		if !conv.Available() {
			return nil, errors.New(oda.InstallHint)
		}
	}

	selected, err := aggregate.SelectPages(opts.Pages, src.PageCount())
	if err != nil {
		return nil, err
	}
	if mode == aggregate.ModeSingle && len(selected) > 1 {
		selected = selected[:1]
	}

	// Extraction is serial: the underlying reader is not safe for
	// concurrent page access. Everything after it is per-document work.
	streams := make(map[int]ops.PageStream, len(selected))
	for _, idx := range selected {
		stream, err := src.Page(idx)
		if err != nil {
			return nil, err
		}
		streams[idx] = stream
	}

	groups := pageGroups(mode, selected)
	outcomes := make([]DocumentOutcome, len(groups))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(groups) {
		workers = len(groups)
	}
	if mode != aggregate.ModeSeparate {
		workers = 1
	}

	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for gi := range work {
				outcomes[gi] = buildDocument(ctx, groups[gi], streams, base, mode, format, conv, opts)
			}
		}()
	}
	for gi := range groups {
		// Cooperative cancellation between documents.
		if ctx.Err() != nil {
			outcomes[gi] = DocumentOutcome{Pages: groups[gi], Err: ctx.Err()}
			continue
		}
		work <- gi
	}
	close(work)
	wg.Wait()

	return summarize(outcomes), nil
}

// pageGroups maps the selection to per-document page groups.
func pageGroups(mode aggregate.Mode, selected []int) [][]int {
	if mode != aggregate.ModeSeparate {
		return [][]int{selected}
	}
	groups := make([][]int, len(selected))
	for i, idx := range selected {
		groups[i] = []int{idx}
	}
	return groups
}

// buildDocument classifies, aggregates, serializes and optionally
// externally converts one output document.
func buildDocument(ctx context.Context, group []int, streams map[int]ops.PageStream, base string, mode aggregate.Mode, format Format, conv *oda.Converter, opts Options) DocumentOutcome {
	outcome := DocumentOutcome{Pages: group}

	// Style interning is scoped to the document so duplicate detection
	// can compare style pointers.
	mapper := style.NewMapper()
	classifier := classify.New(mapper, opts.CurveTolerance)
	classifier.Diag = opts.Diag

	pages := make(map[int]entity.PageResult, len(group))
	for _, idx := range group {
		stream := streams[idx]
		pr, err := classifyPage(classifier, stream)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		pages[idx] = pr
	}

	docs, err := aggregate.Aggregate(pages, group, aggregate.Options{
		Mode:        mode,
		Scale:       opts.Scale,
		GapFraction: opts.GapFraction,
		Dedup:       opts.Dedup,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}

	for _, doc := range docs {
		outcome.Name = doc.Name
		outcome.Entities += len(doc.Primitives)

		dxfPath := outputPath(base, doc.Name, ".dxf")
		if err := dxf.Write(dxfPath, doc.Primitives); err != nil {
			outcome.Err = err
			return outcome
		}

		if format.needsDWG() {
			dwgPath := outputPath(base, doc.Name, ".dwg")
			if err := conv.Convert(ctx, dxfPath, opts.Version, dwgPath); err != nil {
				outcome.Err = err
				return outcome
			}
			outcome.Files = append(outcome.Files, dwgPath)
		}
		if format.keepsDXF() || opts.KeepDXF {
			outcome.Files = append(outcome.Files, dxfPath)
		} else {
			os.Remove(dxfPath)
		}
	}
	return outcome
}

// classifyPage turns one page stream into a classified page result.
func classifyPage(classifier *classify.Classifier, stream ops.PageStream) (entity.PageResult, error) {
	subs, err := path.Reconstruct(stream)
	if err != nil {
		return entity.PageResult{}, err
	}

	var prims []entity.Primitive
	for _, sub := range subs {
		prims = append(prims, classifier.Classify(sub)...)
	}
	for _, op := range stream.Ops {
		if op.Tag == ops.ShowText {
			prims = append(prims, classifier.TextPrimitive(op))
		}
	}

	return entity.PageResult{
		Index:      stream.Index,
		Width:      stream.Width,
		Height:     stream.Height,
		Primitives: prims,
	}, nil
}

func outputPath(base, name, ext string) string {
	if name == "" {
		return base + ext
	}
	return base + "_" + name + ext
}

// summarize folds per-document outcomes into the final result.
func summarize(outcomes []DocumentOutcome) *Result {
	res := &Result{Success: true, Documents: outcomes}

	seenPages := make(map[int]bool)
	var failures []string
	for _, out := range outcomes {
		res.OutputFiles = append(res.OutputFiles, out.Files...)
		res.EntityCount += out.Entities
		for _, p := range out.Pages {
			seenPages[p] = true
		}
		if out.Err != nil {
			res.Success = false
			label := out.Name
			if label == "" {
				label = "document"
			}
			failures = append(failures, fmt.Sprintf("%s: %v", label, out.Err))
		}
	}
	res.PagesProcessed = len(seenPages)

	if res.Success {
		res.Message = fmt.Sprintf("converted %d page(s) into %d file(s), %d entities",
			res.PagesProcessed, len(res.OutputFiles), res.EntityCount)
	} else {
		res.Message = strings.Join(failures, "; ")
	}
	return res
}
