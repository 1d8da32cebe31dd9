package engine

// rect is an axis-aligned rectangle in sheet coordinates (mm, origin top-left).
type rect struct {
	x, y, w, h int
}

func (r rect) area() int {
	return r.w * r.h
}

func (r rect) fits(w, h int) bool {
	return w <= r.w && h <= r.h
}

// sheetPacker tracks the free regions of one open sheet. Regions never
// overlap each other or a placed footprint; every split replaces the consumed
// region with at most two disjoint remainders.
type sheetPacker struct {
	width, height int
	freeRegions   []rect
}

func newSheetPacker(width, height int) *sheetPacker {
	return &sheetPacker{
		width:       width,
		height:      height,
		freeRegions: []rect{{0, 0, width, height}},
	}
}

// bestRegion returns the index of the smallest free region that fits a
// w x h footprint, ties broken by lowest y then lowest x. -1 if none fits.
func (sp *sheetPacker) bestRegion(w, h int) int {
	best := -1
	for i, r := range sp.freeRegions {
		if !r.fits(w, h) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := sp.freeRegions[best]
		switch {
		case r.area() < b.area():
			best = i
		case r.area() == b.area() && r.y < b.y:
			best = i
		case r.area() == b.area() && r.y == b.y && r.x < b.x:
			best = i
		}
	}
	return best
}

// insert places a w x h footprint at the top-left corner of the best free
// region and splits the remainder. Returns false if nothing fits.
func (sp *sheetPacker) insert(w, h int) (bool, int, int) {
	idx := sp.bestRegion(w, h)
	if idx < 0 {
		return false, 0, 0
	}

	chosen := sp.freeRegions[idx]
	sp.freeRegions = append(sp.freeRegions[:idx], sp.freeRegions[idx+1:]...)

	// Right of the placed footprint, limited to its row height
	right := rect{x: chosen.x + w, y: chosen.y, w: chosen.w - w, h: h}
	if right.w > 0 && right.h > 0 {
		sp.freeRegions = append(sp.freeRegions, right)
	}
	// Below the placed footprint, spanning the full region width
	below := rect{x: chosen.x, y: chosen.y + h, w: chosen.w, h: chosen.h - h}
	if below.w > 0 && below.h > 0 {
		sp.freeRegions = append(sp.freeRegions, below)
	}

	return true, chosen.x, chosen.y
}

// freeArea returns the total area of the remaining free regions.
func (sp *sheetPacker) freeArea() int {
	total := 0
	for _, r := range sp.freeRegions {
		total += r.area()
	}
	return total
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}
