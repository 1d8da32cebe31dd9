package export

import (
	"fmt"
	"io"
	"math"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook tab names.
const (
	ordersTab = "Orders"
	sheetsTab = "Sheets"
	panelsTab = "Panels"
)

// ExportExcel writes a summary workbook with the order list, per-sheet waste
// and every panel placement.
func ExportExcel(path string, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteExcel streams the workbook to w.
func WriteExcel(w io.Writer, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(plan model.Plan) (*excelize.File, error) {
	if len(plan.Materials) == 0 {
		return nil, fmt.Errorf("no materials to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ordersTab); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name orders tab: %w", err)
	}
	for _, name := range []string{sheetsTab, panelsTab} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add %s tab: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	orders := [][]interface{}{{"Laminate", "Sheet Size", "Sheets"}}
	for _, line := range plan.Orders {
		orders = append(orders, []interface{}{line.Code, line.SheetSize, line.Sheets})
	}

	sheets := [][]interface{}{{"Laminate", "Sheet", "Width (mm)", "Height (mm)", "Panels", "Used Area (mm²)", "Waste %"}}
	panels := [][]interface{}{{"Laminate", "Sheet", "Panel", "Unit", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)"}}
	for _, mp := range plan.Materials {
		for _, s := range mp.Sheets {
			sheets = append(sheets, []interface{}{
				mp.Material.Code, s.Index + 1, s.Width, s.Height, len(s.Panels), s.UsedArea(), roundPercent(s.WastePercent()),
			})
			for _, p := range s.Panels {
				panels = append(panels, []interface{}{
					mp.Material.Code, s.Index + 1, p.DemandIndex + 1, p.Unit + 1, p.X, p.Y, p.Width, p.Height,
				})
			}
		}
	}

	for _, tab := range []struct {
		name string
		rows [][]interface{}
	}{
		{ordersTab, orders},
		{sheetsTab, sheets},
		{panelsTab, panels},
	} {
		if err := writeRows(f, tab.name, tab.rows, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// writeRows fills a tab from row 1 and styles the header row.
func writeRows(f *excelize.File, tab string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(tab, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", tab, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(tab, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", tab, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(rows[0]))
	return f.SetColWidth(tab, "A", lastCol, 16)
}

// roundPercent keeps two decimals, matching FormatPercent.
func roundPercent(pct float64) float64 {
	return math.Round(pct*100) / 100
}
