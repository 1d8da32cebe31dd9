// Package export writes cutting plans to files: PDF plans and labels, Excel
// summaries, DXF layouts and PNG previews.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/LaminateCut/internal/model"
)

// panelColor represents an RGB color for a placed panel.
type panelColor struct {
	R, G, B int
}

// panelColors is indexed by demand item so every copy of a panel group shares
// a color on every sheet.
var panelColors = []panelColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(demandIndex int) panelColor {
	return panelColors[demandIndex%len(panelColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF cutting plan. Each sheet is rendered on its own
// page with a layout diagram, followed by a summary page with the order list
// and per-sheet waste.
func ExportPDF(path string, plan model.Plan) error {
	pdf, err := buildPDF(plan)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF renders the same document as ExportPDF to w.
func WritePDF(w io.Writer, plan model.Plan) error {
	pdf, err := buildPDF(plan)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func buildPDF(plan model.Plan) (*fpdf.Fpdf, error) {
	if plan.SheetCount() == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	// Core fonts are cp1252; sheet titles carry an em dash
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, mp := range plan.Materials {
		for _, sheet := range mp.Sheets {
			pdf.AddPage()
			renderSheetPage(pdf, tr, mp, sheet)
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, plan)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, nil
}

// renderSheetPage draws a single sheet on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, tr func(string) string, mp model.MaterialPlan, sheet model.SheetInstance) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%d x %d mm)", sheet.Label(), sheet.Width, sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Panels: %d | Kerf: %d mm | Waste: %s", len(sheet.Panels), mp.Kerf, model.FormatPercent(sheet.WastePercent()))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(sheet.Width), drawHeight/float64(sheet.Height))
	canvasW := float64(sheet.Width) * scale
	canvasH := float64(sheet.Height) * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Laminate board background
	pdf.SetFillColor(230, 225, 215)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawOffcuts(pdf, sheet, scale, offsetX, offsetY)

	for _, p := range sheet.Panels {
		col := colorFor(p.DemandIndex)
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only if the rectangle is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("#%d", p.DemandIndex+1)
			dims := fmt.Sprintf("%dx%d", p.Width, p.Height)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)
	drawPanelsLegend(pdf, mp, sheet, offsetY+canvasH+5)
}

// drawOffcuts outlines usable remnants with a dashed border.
func drawOffcuts(pdf *fpdf.Fpdf, sheet model.SheetInstance, scale, offsetX, offsetY float64) {
	if len(sheet.Offcuts) == 0 {
		return
	}
	pdf.SetDrawColor(0, 120, 0)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	for _, o := range sheet.Offcuts {
		pdf.Rect(offsetX+float64(o.X)*scale, offsetY+float64(o.Y)*scale,
			float64(o.Width)*scale, float64(o.Height)*scale, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.SheetInstance, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height runs up the left edge
	heightLabel := fmt.Sprintf("%d mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPanelsLegend lists the panel groups present on the sheet with their counts.
func drawPanelsLegend(pdf *fpdf.Fpdf, mp model.MaterialPlan, sheet model.SheetInstance, startY float64) {
	if len(sheet.Panels) == 0 {
		return
	}

	counts := make(map[int]int)
	var order []int
	for _, p := range sheet.Panels {
		if counts[p.DemandIndex] == 0 {
			order = append(order, p.DemandIndex)
		}
		counts[p.DemandIndex]++
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Panels placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, idx := range order {
		col := colorFor(idx)
		label := fmt.Sprintf("#%d", idx+1)
		if idx < len(mp.Items) {
			it := mp.Items[idx]
			label = fmt.Sprintf("#%d %dx%d (x%d)", idx+1, it.Width, it.Height, counts[idx])
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the order list, the per-sheet waste table and any
// panels that could not be placed.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, plan model.Plan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Order Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	// Sheets to order
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	orderWidths := []float64{60, 70, 30}
	y = tableRow(pdf, y, orderWidths, []string{"Laminate", "Sheet Size", "Sheets"}, true)
	pdf.SetFont("Helvetica", "", 9)
	for i, line := range plan.Orders {
		zebra(pdf, i)
		y = tableRow(pdf, y, orderWidths, []string{line.Code, line.SheetSize, fmt.Sprintf("%d", line.Sheets)}, true)
	}

	y += 4
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, y)
	overall := fmt.Sprintf("Total sheets: %d | Panels: %d | Kerf: %d mm | Mean waste: %s",
		plan.SheetCount(), countPanels(plan), plan.Kerf, model.FormatPercent(plan.Stats.MeanPercent))
	pdf.CellFormat(200, 6, overall, "", 0, "L", false, 0, "")
	y += 10

	// Per-sheet waste
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	sheetWidths := []float64{70, 25, 50, 35}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	y = tableRow(pdf, y, sheetWidths, []string{"Sheet", "Panels", "Used / Total Area", "Waste"}, true)

	pdf.SetFont("Helvetica", "", 9)
	row := 0
	for _, mp := range plan.Materials {
		for _, sheet := range mp.Sheets {
			if y > pageHeight-marginBottom-10 {
				pdf.AddPage()
				y = marginTop
			}
			zebra(pdf, row)
			y = tableRow(pdf, y, sheetWidths, []string{
				tr(sheet.Label()),
				fmt.Sprintf("%d", len(sheet.Panels)),
				tr(fmt.Sprintf("%d / %d mm²", sheet.UsedArea(), sheet.TotalArea())),
				model.FormatPercent(sheet.WastePercent()),
			}, true)
			row++
		}
	}

	if len(plan.Failures) > 0 {
		y += 8
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Problems found", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, f := range plan.Failures {
			if y > pageHeight-marginBottom-5 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(260, 5, tr("- "+f.Error()), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by LaminateCut - Laminate Sheet Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// tableRow draws one bordered row starting at the left margin and returns the
// y position of the next row.
func tableRow(pdf *fpdf.Fpdf, y float64, widths []float64, cells []string, fill bool) float64 {
	x := marginLeft
	for i, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", fill, 0, "")
		x += widths[i]
	}
	return y + 6
}

// zebra alternates the row background.
func zebra(pdf *fpdf.Fpdf, row int) {
	if row%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countPanels returns the total number of placed panels across all sheets.
func countPanels(plan model.Plan) int {
	total := 0
	for _, mp := range plan.Materials {
		total += mp.PlacedCount()
	}
	return total
}
