package model

import "math"

// PurchaseEstimate is an area-based lower bound on how many sheets a cut list
// needs. The packer is heuristic, so the sheets it actually opens can exceed
// SheetsNeededMin; the gap shows how much the layout loses to fragmentation.
type PurchaseEstimate struct {
	TotalPanelArea     int     `json:"total_panel_area"`     // True area of all units (sq mm)
	TotalFootprintArea int     `json:"total_footprint_area"` // Area including kerf allowance (sq mm)
	SheetArea          int     `json:"sheet_area"`           // Area of one sheet (sq mm)
	SheetsNeededExact  float64 `json:"sheets_needed_exact"`  // Exact fractional number of sheets
	SheetsNeededMin    int     `json:"sheets_needed_min"`    // Ceiling of exact
	SheetsWithBuffer   int     `json:"sheets_with_buffer"`   // Min sheets after the buffer percentage
	BufferPercent      float64 `json:"buffer_percent"`
	Kerf               int     `json:"kerf"`
}

// CalculatePurchaseEstimate computes the area bound for a demand list.
func CalculatePurchaseEstimate(items []DemandItem, sheetWidth, sheetHeight, kerf int, bufferPercent float64) PurchaseEstimate {
	// Sums run in float64 so very large quantities saturate instead of wrapping
	var panelArea, footprintArea float64
	for _, it := range items {
		q := float64(it.Quantity)
		panelArea += float64(it.Width) * float64(it.Height) * q
		footprintArea += float64(it.Width+kerf) * float64(it.Height+kerf) * q
	}

	sheetArea := sheetWidth * sheetHeight
	if sheetArea <= 0 {
		return PurchaseEstimate{
			TotalPanelArea:     saturate(panelArea),
			TotalFootprintArea: saturate(footprintArea),
			BufferPercent:      bufferPercent,
			Kerf:               kerf,
		}
	}

	exact := footprintArea / float64(sheetArea)
	minSheets := saturate(math.Ceil(exact))

	return PurchaseEstimate{
		TotalPanelArea:     saturate(panelArea),
		TotalFootprintArea: saturate(footprintArea),
		SheetArea:          sheetArea,
		SheetsNeededExact:  exact,
		SheetsNeededMin:    minSheets,
		SheetsWithBuffer:   ApplyBuffer(minSheets, bufferPercent),
		BufferPercent:      bufferPercent,
		Kerf:               kerf,
	}
}

// saturate converts f to int, clamping at math.MaxInt.
func saturate(f float64) int {
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}

// ApplyBuffer inflates a sheet count by a percentage, rounding up. A zero or
// negative buffer returns the count unchanged.
func ApplyBuffer(sheets int, bufferPercent float64) int {
	if bufferPercent <= 0 || sheets == 0 {
		return sheets
	}
	extra := float64(sheets) * bufferPercent / 100.0
	return sheets + int(math.Ceil(extra-1e-9))
}
