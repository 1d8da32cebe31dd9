package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// buildTestPlan creates a realistic two-material plan for testing.
func buildTestPlan() model.Plan {
	hgs1 := model.DefaultSheetSize().Material("HGS-1")
	hgs2 := model.NewMaterial("HGS-2", 1830, 1830)

	plan := model.Plan{
		ID:   "plan-1",
		Kerf: 3,
		Materials: []model.MaterialPlan{
			{
				Material: hgs1,
				Kerf:     3,
				Items: []model.DemandItem{
					{ID: "a", Index: 0, Width: 300, Height: 1200, Quantity: 2},
					{ID: "b", Index: 1, Width: 450, Height: 600, Quantity: 1},
				},
				Sheets: []model.SheetInstance{
					{
						Material: "HGS-1", Index: 0, Width: 1220, Height: 2440,
						Panels: []model.PlacedPanel{
							{DemandIndex: 0, Unit: 0, Sheet: 0, X: 0, Y: 0, Width: 300, Height: 1200},
							{DemandIndex: 0, Unit: 1, Sheet: 0, X: 303, Y: 0, Width: 300, Height: 1200},
							{DemandIndex: 1, Unit: 0, Sheet: 0, X: 0, Y: 1203, Width: 450, Height: 600},
						},
						Offcuts: []model.Offcut{
							{Sheet: 0, X: 606, Y: 0, Width: 614, Height: 1203},
						},
					},
				},
			},
			{
				Material: hgs2,
				Kerf:     3,
				Items: []model.DemandItem{
					{ID: "c", Index: 0, Width: 800, Height: 500, Quantity: 1},
				},
				Sheets: []model.SheetInstance{
					{
						Material: "HGS-2", Index: 0, Width: 1830, Height: 1830,
						Panels: []model.PlacedPanel{
							{DemandIndex: 0, Unit: 0, Sheet: 0, X: 0, Y: 0, Width: 800, Height: 500},
						},
					},
				},
			},
		},
		Orders: []model.OrderLine{
			{Code: "HGS-1", SheetSize: "8x4 ft (1220x2440)", Sheets: 1},
			{Code: "HGS-2", SheetSize: "1830x1830", Sheets: 1},
		},
	}
	return plan
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.pdf")

	if err := ExportPDF(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if len(data) < 500 {
		t.Errorf("PDF file seems too small: %d bytes", len(data))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestExportPDF_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, model.Plan{}); err == nil {
		t.Fatal("expected error for plan without sheets, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty plan")
	}
}

func TestExportPDF_WithFailures(t *testing.T) {
	plan := buildTestPlan()
	plan.Failures = []model.Failure{
		{Kind: model.FailureParse, Material: "HGS-1", Line: 3, Text: "abc", Message: "line skipped"},
		{Kind: model.FailurePlacement, Material: "HGS-2", DemandIndex: 0, Units: 2, Message: "panel 2000x500 does not fit"},
	}

	path := filepath.Join(t.TempDir(), "failures.pdf")
	if err := ExportPDF(path, plan); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestExportPDF_ManyPanels(t *testing.T) {
	plan := buildTestPlan()
	sheet := &plan.Materials[0].Sheets[0]
	sheet.Panels = nil
	for i := 0; i < 40; i++ {
		sheet.Panels = append(sheet.Panels, model.PlacedPanel{
			DemandIndex: i % 12, Unit: i, X: (i % 4) * 303, Y: (i / 4) * 243, Width: 300, Height: 240,
		})
	}

	path := filepath.Join(t.TempDir(), "many.pdf")
	if err := ExportPDF(path, plan); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, buildTestPlan()); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestCountPanels(t *testing.T) {
	if got := countPanels(buildTestPlan()); got != 4 {
		t.Errorf("countPanels() = %d, want 4", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 100, 7},
		{10, 100, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestColorFor_StableAcrossSheets(t *testing.T) {
	if colorFor(1) != colorFor(1+len(panelColors)) {
		t.Error("expected palette to wrap around")
	}
	if colorFor(0) == colorFor(1) {
		t.Error("expected neighbouring demand items to differ")
	}
}
