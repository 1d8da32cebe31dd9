package model

// SheetSize is a named standard laminate sheet size.
type SheetSize struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`  // mm
	Height int    `json:"height"` // mm
}

// StandardSizes are the sheet sizes offered by default, in display order.
var StandardSizes = []SheetSize{
	{Label: "8x4 ft (1220x2440)", Width: 1220, Height: 2440},
	{Label: "6x4 ft (1830x2440)", Width: 1830, Height: 2440},
	{Label: "6x3 ft (1830x1830)", Width: 1830, Height: 1830},
}

// DefaultSheetSize is the size used when none is chosen.
func DefaultSheetSize() SheetSize {
	return StandardSizes[0]
}

// LookupSheetSize returns a standard size by its label.
func LookupSheetSize(label string) (SheetSize, bool) {
	for _, s := range StandardSizes {
		if s.Label == label {
			return s, true
		}
	}
	return SheetSize{}, false
}

// SheetSizeLabels returns the labels of all standard sizes.
func SheetSizeLabels() []string {
	labels := make([]string, 0, len(StandardSizes))
	for _, s := range StandardSizes {
		labels = append(labels, s.Label)
	}
	return labels
}

// Material builds a material of this size for the given code.
func (s SheetSize) Material(code string) Material {
	return Material{Code: code, SizeLabel: s.Label, SheetWidth: s.Width, SheetHeight: s.Height}
}
