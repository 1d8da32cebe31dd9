package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	layerSheet  = "SHEET"
	layerPanels = "PANELS"
	layerText   = "LABELS"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SheetFileName returns a file name for one sheet, e.g. "HGS-1_sheet2.dxf".
func SheetFileName(sheet model.SheetInstance, ext string) string {
	code := unsafeFileChars.ReplaceAllString(sheet.Material, "_")
	if code == "" {
		code = "sheet"
	}
	return fmt.Sprintf("%s_sheet%d.%s", code, sheet.Index+1, ext)
}

// ExportDXF writes one DXF layout per sheet into dir and returns the paths
// written. Coordinates are millimetres with the origin at the sheet's
// bottom-left corner, as CAD tools expect.
func ExportDXF(dir string, plan model.Plan) ([]string, error) {
	if plan.SheetCount() == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, mp := range plan.Materials {
		for _, sheet := range mp.Sheets {
			path := filepath.Join(dir, SheetFileName(sheet, "dxf"))
			if err := writeSheetDXF(path, sheet); err != nil {
				return paths, fmt.Errorf("failed to export %s: %w", SheetFileName(sheet, "dxf"), err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func writeSheetDXF(path string, sheet model.SheetInstance) error {
	d := dxf.NewDrawing()
	layers := []struct {
		name string
		c    color.ColorNumber
	}{
		{layerSheet, color.White},
		{layerPanels, color.Green},
		{layerText, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.c, dxf.DefaultLineType, false); err != nil {
			return err
		}
	}

	h := float64(sheet.Height)
	if err := d.ChangeLayer(layerSheet); err != nil {
		return err
	}
	if err := rectangle(d, 0, 0, float64(sheet.Width), h); err != nil {
		return err
	}

	for _, p := range sheet.Panels {
		// Flip y: panels are placed from the top edge
		x := float64(p.X)
		y := h - float64(p.Y) - float64(p.Height)
		w, ph := float64(p.Width), float64(p.Height)

		if err := d.ChangeLayer(layerPanels); err != nil {
			return err
		}
		if err := rectangle(d, x, y, w, ph); err != nil {
			return err
		}

		if err := d.ChangeLayer(layerText); err != nil {
			return err
		}
		textH := textHeight(w, ph)
		label := fmt.Sprintf("#%d %dx%d", p.DemandIndex+1, p.Width, p.Height)
		if _, err := d.Text(label, x+textH/2, y+ph/2, 0, textH); err != nil {
			return err
		}
	}

	return d.SaveAs(path)
}

// rectangle draws an axis-aligned box as four lines.
func rectangle(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}

// textHeight scales annotation text to the panel, clamped to 10..40 mm.
func textHeight(w, h float64) float64 {
	t := min(w, h) / 8
	return max(10, min(40, t))
}
