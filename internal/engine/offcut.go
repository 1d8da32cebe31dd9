package engine

import "github.com/piwi3910/LaminateCut/internal/model"

// detectOffcuts turns a sheet's remaining free regions into reusable
// remnants, dropping those too small to keep.
func detectOffcuts(sp *sheetPacker, sheet int) []model.Offcut {
	var offcuts []model.Offcut
	for _, r := range sp.freeRegions {
		o := model.Offcut{Sheet: sheet, X: r.x, Y: r.y, Width: r.w, Height: r.h}
		if o.IsUsable() {
			offcuts = append(offcuts, o)
		}
	}
	model.SortOffcuts(offcuts)
	return offcuts
}

// AllOffcuts collects the offcuts of every sheet of a material.
func AllOffcuts(mp model.MaterialPlan) []model.Offcut {
	var all []model.Offcut
	for _, s := range mp.Sheets {
		all = append(all, s.Offcuts...)
	}
	return all
}
