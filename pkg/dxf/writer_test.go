package dxf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vectorcad/pdf2cad/pkg/entity"
	"github.com/vectorcad/pdf2cad/pkg/geom"
)

func TestWriteDocument(t *testing.T) {
	ref := &entity.StyleRef{ColorIndex: 1, Lineweight: 25, Layer: "0"}
	textRef := &entity.StyleRef{ColorIndex: entity.ColorByLayer, Layer: "TEXT"}
	prims := []entity.Primitive{
		entity.Line{P1: geom.Point{}, P2: geom.Point{X: 10}, Style: ref},
		entity.Polyline{Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, Closed: true, Style: ref},
		entity.Arc{Center: geom.Point{X: 5, Y: 5}, Radius: 2, StartAngle: 0, EndAngle: 90, Style: ref},
		entity.Circle{Center: geom.Point{X: 5, Y: 5}, Radius: 3, Style: ref},
		entity.Text{Position: geom.Point{X: 1, Y: 1}, Content: "SCALE 1:50", Height: 2.5, Style: textRef},
	}

	path := filepath.Join(t.TempDir(), "out.dxf")
	if err := Write(path, prims); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, want := range []string{
		"AC1009", "ENTITIES",
		"LINE", "POLYLINE", "VERTEX", "SEQEND", "ARC", "CIRCLE", "TEXT",
		"SCALE 1:50", "EOF",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// The text layer appears in the layer table.
	if !strings.Contains(content, "TEXT\n") {
		t.Error("output missing TEXT layer")
	}
	if !strings.HasSuffix(strings.TrimSpace(content), "EOF") {
		t.Error("document does not end with EOF")
	}
}

func TestWriteByLayerOmitsColor(t *testing.T) {
	ref := &entity.StyleRef{ColorIndex: entity.ColorByLayer, Lineweight: 0, Layer: "0"}
	path := filepath.Join(t.TempDir(), "byLayer.dxf")
	err := Write(path, []entity.Primitive{
		entity.Line{P1: geom.Point{}, P2: geom.Point{X: 1}, Style: ref},
	})
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	// Group 62 only appears for explicit colors; the layer table's own
	// color entry uses the LAYER record, not entity records.
	entities := string(data[strings.Index(string(data), "ENTITIES"):])
	if strings.Contains(entities, "\n62\n") {
		t.Error("by-layer entity carries an explicit color group")
	}
}

func TestWriteAtomicOnFailure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing-dir", "out.dxf")
	err := Write(target, nil)

	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want SerializationError", err)
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Error("failed write left a file at the target path")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	ref := &entity.StyleRef{Layer: "0"}
	if err := Write(filepath.Join(dir, "a.dxf"), []entity.Primitive{
		entity.Line{P1: geom.Point{}, P2: geom.Point{X: 1}, Style: ref},
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.dxf" {
		t.Errorf("directory contents = %v, want only a.dxf", entries)
	}
}
