package engine

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// AggregateOrders tallies how many sheets to buy per laminate code and sheet
// size, in the order the materials were planned. A code requested on two
// different sheet sizes gets one line per size. Materials with no sheets
// still appear with a zero count; materials without demand are never passed
// in.
func AggregateOrders(plans []model.MaterialPlan) []model.OrderLine {
	type key struct {
		code string
		w, h int
	}
	lines := make([]model.OrderLine, 0, len(plans))
	index := make(map[key]int)
	for _, mp := range plans {
		k := key{mp.Material.Code, mp.Material.SheetWidth, mp.Material.SheetHeight}
		if i, ok := index[k]; ok {
			lines[i].Sheets += len(mp.Sheets)
			continue
		}
		index[k] = len(lines)
		lines = append(lines, model.OrderLine{
			Code:      mp.Material.Code,
			SheetSize: sheetSizeLabel(mp.Material),
			Sheets:    len(mp.Sheets),
		})
	}
	return lines
}

// SortOrdersNatural sorts order lines by code so that "HGS-2" comes before
// "HGS-10".
func SortOrdersNatural(lines []model.OrderLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return natural.Less(lines[i].Code, lines[j].Code)
	})
}

// WithBuffer returns a copy of the order lines with a purchase buffer applied
// to every count. The core never applies a buffer on its own.
func WithBuffer(lines []model.OrderLine, bufferPercent float64) []model.OrderLine {
	out := make([]model.OrderLine, len(lines))
	for i, l := range lines {
		l.Sheets = model.ApplyBuffer(l.Sheets, bufferPercent)
		out[i] = l
	}
	return out
}

// TotalSheets returns the sum of all order counts.
func TotalSheets(lines []model.OrderLine) int {
	total := 0
	for _, l := range lines {
		total += l.Sheets
	}
	return total
}

func sheetSizeLabel(m model.Material) string {
	if m.SizeLabel != "" {
		return m.SizeLabel
	}
	return formatSize(m.SheetWidth, m.SheetHeight)
}

func formatSize(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
