package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/piwi3910/LaminateCut/internal/model"
)

// DefaultPreviewSize is the long edge of a sheet preview in pixels.
const DefaultPreviewSize = 800

var (
	boardColor   = color.NRGBA{R: 230, G: 225, B: 215, A: 255}
	outlineColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	offcutColor  = color.NRGBA{R: 0, G: 120, B: 0, A: 255}
)

// RenderSheet draws a scaled preview of one sheet. The long edge of the image
// is maxPx pixels.
func RenderSheet(sheet model.SheetInstance, maxPx int) *image.NRGBA {
	if maxPx <= 0 {
		maxPx = DefaultPreviewSize
	}
	scale := float64(maxPx) / float64(max(sheet.Width, sheet.Height))
	px := func(mm int) int { return int(float64(mm)*scale + 0.5) }

	img := imaging.New(max(1, px(sheet.Width)), max(1, px(sheet.Height)), boardColor)

	for _, o := range sheet.Offcuts {
		strokeRect(img, image.Rect(px(o.X), px(o.Y), px(o.X+o.Width), px(o.Y+o.Height)), offcutColor)
	}

	for _, p := range sheet.Panels {
		r := image.Rect(px(p.X), px(p.Y), px(p.X+p.Width), px(p.Y+p.Height))
		c := colorFor(p.DemandIndex)
		draw.Draw(img, r, &image.Uniform{C: color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}}, image.Point{}, draw.Src)
		strokeRect(img, r, outlineColor)
	}

	strokeRect(img, img.Bounds(), outlineColor)
	return img
}

// strokeRect draws a one pixel outline just inside r.
func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// WriteSheetPNG encodes a sheet preview to w.
func WriteSheetPNG(w io.Writer, sheet model.SheetInstance, maxPx int) error {
	if err := imaging.Encode(w, RenderSheet(sheet, maxPx), imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// ExportPNG writes one preview image per sheet into dir and returns the
// paths written.
func ExportPNG(dir string, plan model.Plan, maxPx int) ([]string, error) {
	if plan.SheetCount() == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, mp := range plan.Materials {
		for _, sheet := range mp.Sheets {
			path := filepath.Join(dir, SheetFileName(sheet, "png"))
			if err := imaging.Save(RenderSheet(sheet, maxPx), path); err != nil {
				return paths, fmt.Errorf("failed to save %s: %w", path, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}
