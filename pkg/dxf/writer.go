// Package dxf serializes drawing primitives to the ASCII DXF exchange
// format (R12 dialect), the intermediate every conversion produces.
package dxf

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/vectorcad/pdf2cad/pkg/entity"
)

// SerializationError reports a failure to produce the output file. The
// target path is never left behind in a partially written state.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Write serializes the primitive list to path. The file is built in a
// temporary sibling and renamed into place on success, so a crash or write
// error never leaves a truncated document at the target path.
func Write(path string, prims []entity.Primitive) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dxf-*")
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	w := &tagWriter{w: bufio.NewWriter(tmp)}
	writeDocument(w, prims)
	if w.err == nil {
		w.err = w.w.Flush()
	}
	if closeErr := tmp.Close(); w.err == nil {
		w.err = closeErr
	}
	if w.err != nil {
		return &SerializationError{Path: path, Err: w.err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}

// tagWriter emits DXF group code / value pairs with a sticky error.
type tagWriter struct {
	w   *bufio.Writer
	err error
}

func (t *tagWriter) tag(code int, value string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%d\n%s\n", code, value)
}

func (t *tagWriter) num(code int, v float64) {
	t.tag(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (t *tagWriter) int(code, v int) {
	t.tag(code, strconv.Itoa(v))
}

func writeDocument(w *tagWriter, prims []entity.Primitive) {
	w.tag(0, "SECTION")
	w.tag(2, "HEADER")
	w.tag(9, "$ACADVER")
	w.tag(1, "AC1009")
	w.tag(0, "ENDSEC")

	writeTables(w, layerNames(prims))

	w.tag(0, "SECTION")
	w.tag(2, "ENTITIES")
	for _, p := range prims {
		writeEntity(w, p)
	}
	w.tag(0, "ENDSEC")
	w.tag(0, "EOF")
}

// layerNames collects the distinct layers referenced by the primitives,
// sorted, always including the default layer.
func layerNames(prims []entity.Primitive) []string {
	seen := map[string]bool{"0": true}
	for _, p := range prims {
		if ref := p.Ref(); ref != nil && ref.Layer != "" {
			seen[ref.Layer] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeTables(w *tagWriter, layers []string) {
	w.tag(0, "SECTION")
	w.tag(2, "TABLES")

	w.tag(0, "TABLE")
	w.tag(2, "LTYPE")
	w.int(70, 1)
	w.tag(0, "LTYPE")
	w.tag(2, "CONTINUOUS")
	w.int(70, 0)
	w.tag(3, "Solid line")
	w.int(72, 65)
	w.int(73, 0)
	w.num(40, 0)
	w.tag(0, "ENDTAB")

	w.tag(0, "TABLE")
	w.tag(2, "LAYER")
	w.int(70, len(layers))
	for _, name := range layers {
		w.tag(0, "LAYER")
		w.tag(2, name)
		w.int(70, 0)
		w.int(62, 7)
		w.tag(6, "CONTINUOUS")
	}
	w.tag(0, "ENDTAB")

	w.tag(0, "ENDSEC")
}

// writeCommon emits the layer, color and lineweight groups shared by every
// entity. Color is omitted for by-layer entities.
func writeCommon(w *tagWriter, ref *entity.StyleRef) {
	layer := "0"
	if ref != nil && ref.Layer != "" {
		layer = ref.Layer
	}
	w.tag(8, layer)
	if ref == nil {
		return
	}
	if ref.ColorIndex != entity.ColorByLayer {
		w.int(62, ref.ColorIndex)
	}
	w.int(370, ref.Lineweight)
}

func writeEntity(w *tagWriter, p entity.Primitive) {
	switch v := p.(type) {
	case entity.Line:
		w.tag(0, "LINE")
		writeCommon(w, v.Style)
		w.num(10, v.P1.X)
		w.num(20, v.P1.Y)
		w.num(11, v.P2.X)
		w.num(21, v.P2.Y)

	case entity.Polyline:
		w.tag(0, "POLYLINE")
		writeCommon(w, v.Style)
		w.int(66, 1)
		flags := 0
		if v.Closed {
			flags = 1
		}
		w.int(70, flags)
		for _, pt := range v.Points {
			w.tag(0, "VERTEX")
			w.tag(8, layerOf(v.Style))
			w.num(10, pt.X)
			w.num(20, pt.Y)
		}
		w.tag(0, "SEQEND")

	case entity.Arc:
		w.tag(0, "ARC")
		writeCommon(w, v.Style)
		w.num(10, v.Center.X)
		w.num(20, v.Center.Y)
		w.num(40, v.Radius)
		w.num(50, v.StartAngle)
		w.num(51, v.EndAngle)

	case entity.Circle:
		w.tag(0, "CIRCLE")
		writeCommon(w, v.Style)
		w.num(10, v.Center.X)
		w.num(20, v.Center.Y)
		w.num(40, v.Radius)

	case entity.Text:
		w.tag(0, "TEXT")
		writeCommon(w, v.Style)
		w.num(10, v.Position.X)
		w.num(20, v.Position.Y)
		w.num(40, v.Height)
		w.tag(1, v.Content)
		if v.Rotation != 0 {
			w.num(50, v.Rotation)
		}
	}
}

func layerOf(ref *entity.StyleRef) string {
	if ref != nil && ref.Layer != "" {
		return ref.Layer
	}
	return "0"
}
