package model

import "sort"

// Offcut is a usable rectangular remnant left on a sheet after cutting.
type Offcut struct {
	Sheet  int `json:"sheet"`  // Sheet instance index within the material
	X      int `json:"x"`      // mm from left edge
	Y      int `json:"y"`      // mm from top edge
	Width  int `json:"width"`  // mm
	Height int `json:"height"` // mm
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() int {
	return o.Width * o.Height
}

// MinOffcutDimension is the minimum side (mm) for a remnant to be worth keeping.
const MinOffcutDimension = 50

// MinOffcutArea is the minimum area (sq mm) for a remnant to be worth keeping.
const MinOffcutArea = 10000 // 100mm x 100mm equivalent

// IsUsable reports whether a remnant of this size is worth keeping.
func (o Offcut) IsUsable() bool {
	return o.Width >= MinOffcutDimension && o.Height >= MinOffcutDimension && o.Area() >= MinOffcutArea
}

// SortOffcuts orders offcuts largest first, then by position.
func SortOffcuts(offcuts []Offcut) {
	sort.SliceStable(offcuts, func(i, j int) bool {
		if offcuts[i].Area() != offcuts[j].Area() {
			return offcuts[i].Area() > offcuts[j].Area()
		}
		if offcuts[i].Y != offcuts[j].Y {
			return offcuts[i].Y < offcuts[j].Y
		}
		return offcuts[i].X < offcuts[j].X
	})
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) int {
	total := 0
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
