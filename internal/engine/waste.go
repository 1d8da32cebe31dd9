package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// Waste returns the unused fraction of a sheet, in [0, 1]. Area is taken from
// true panel sizes so kerf losses count as waste.
func Waste(sheet model.SheetInstance) float64 {
	return sheet.WasteFraction()
}

// WastePercents returns the waste percentage of every sheet in the order the
// materials and sheets appear.
func WastePercents(plans []model.MaterialPlan) []float64 {
	var out []float64
	for _, mp := range plans {
		for _, s := range mp.Sheets {
			out = append(out, s.WastePercent())
		}
	}
	return out
}

// ComputeWasteStats summarises per-sheet waste across all materials.
func ComputeWasteStats(plans []model.MaterialPlan) model.WasteStats {
	pcts := WastePercents(plans)
	if len(pcts) == 0 {
		return model.WasteStats{}
	}

	mean, std := stat.MeanStdDev(pcts, nil)
	if len(pcts) < 2 || math.IsNaN(std) {
		std = 0
	}
	return model.WasteStats{
		Sheets:        len(pcts),
		MeanPercent:   mean,
		StdDevPercent: std,
		MinPercent:    floats.Min(pcts),
		MaxPercent:    floats.Max(pcts),
	}
}
