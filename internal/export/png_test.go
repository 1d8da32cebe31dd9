package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LaminateCut/internal/model"
)

func TestRenderSheet_ScalesLongEdge(t *testing.T) {
	sheet := buildTestPlan().Materials[0].Sheets[0]
	img := RenderSheet(sheet, 800)

	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 800 {
		t.Fatalf("expected 400x800 preview, got %dx%d", b.Dx(), b.Dy())
	}

	// Centre of the first panel carries its demand color
	c := colorFor(0)
	want := color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
	if got := img.NRGBAAt(50, 200); got != want {
		t.Errorf("panel pixel = %v, want %v", got, want)
	}

	// Bottom-right area is empty board
	if got := img.NRGBAAt(350, 780); got != boardColor {
		t.Errorf("board pixel = %v, want %v", got, boardColor)
	}

	// Sheet outline
	if got := img.NRGBAAt(0, 0); got != outlineColor {
		t.Errorf("corner pixel = %v, want outline", got)
	}
}

func TestRenderSheet_DefaultSize(t *testing.T) {
	img := RenderSheet(model.SheetInstance{Width: 1830, Height: 1830}, 0)
	if img.Bounds().Dx() != DefaultPreviewSize || img.Bounds().Dy() != DefaultPreviewSize {
		t.Errorf("expected %dpx square, got %v", DefaultPreviewSize, img.Bounds())
	}
}

func TestWriteSheetPNG(t *testing.T) {
	var buf bytes.Buffer
	sheet := buildTestPlan().Materials[1].Sheets[0]
	if err := WriteSheetPNG(&buf, sheet, 200); err != nil {
		t.Fatalf("WriteSheetPNG returned error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("expected width 200, got %d", img.Bounds().Dx())
	}
}

func TestExportPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "png")
	paths, err := ExportPNG(dir, buildTestPlan(), 300)
	if err != nil {
		t.Fatalf("ExportPNG returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %d", len(paths))
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("preview not written: %v", err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestExportPNG_EmptyPlan(t *testing.T) {
	if _, err := ExportPNG(t.TempDir(), model.Plan{}, 100); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
}
