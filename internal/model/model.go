package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Input limits. Anything larger is rejected before packing so footprint and
// area arithmetic stays within int range.
const (
	MaxDimension = 100000  // mm, longest side a panel or sheet may have
	MaxQuantity  = 1000000 // copies one panel line may request
)

// Material is a laminate code together with the stock sheet it is cut from.
// All dimensions are whole millimetres.
type Material struct {
	Code        string `json:"code"`
	SizeLabel   string `json:"size_label,omitempty"` // Standard size this sheet came from, if any
	SheetWidth  int    `json:"sheet_width"`          // mm
	SheetHeight int    `json:"sheet_height"`         // mm
}

func NewMaterial(code string, w, h int) Material {
	return Material{Code: code, SheetWidth: w, SheetHeight: h}
}

// SheetArea returns the area of one stock sheet in square mm.
func (m Material) SheetArea() int {
	return m.SheetWidth * m.SheetHeight
}

// Validate reports a sheet dimension that is not positive or exceeds
// MaxDimension.
func (m Material) Validate() error {
	if m.SheetWidth <= 0 || m.SheetHeight <= 0 {
		return fmt.Errorf("material %q: sheet size %dx%d must be positive", m.Code, m.SheetWidth, m.SheetHeight)
	}
	if m.SheetWidth > MaxDimension || m.SheetHeight > MaxDimension {
		return fmt.Errorf("material %q: sheet size %dx%d exceeds %d mm", m.Code, m.SheetWidth, m.SheetHeight, MaxDimension)
	}
	return nil
}

// DemandItem is one parsed panel group: a size and how many copies are needed.
type DemandItem struct {
	ID       string `json:"id"`
	Index    int    `json:"index"` // Position in the material's demand list
	Line     int    `json:"line"`  // 1-based source line, 0 when not parsed from text
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quantity int    `json:"quantity"`
}

func NewDemandItem(index, w, h, qty int) DemandItem {
	return DemandItem{
		ID:       uuid.New().String()[:8],
		Index:    index,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Area returns the true area of a single unit.
func (d DemandItem) Area() int {
	return d.Width * d.Height
}

// String renders the item the way panels are typed in, e.g. "450x600x2".
func (d DemandItem) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Width, d.Height, d.Quantity)
}

// PlacedPanel is one physical panel on a sheet. Width and Height are the true
// panel size; the kerf allowance has already been removed.
type PlacedPanel struct {
	DemandIndex int `json:"demand_index"`
	Unit        int `json:"unit"`  // Which copy of the demand item (0-based)
	Sheet       int `json:"sheet"` // Sheet instance index within the material
	X           int `json:"x"`     // mm from left edge
	Y           int `json:"y"`     // mm from top edge
	Width       int `json:"width"`
	Height      int `json:"height"`
}

// Area returns the true panel area.
func (p PlacedPanel) Area() int {
	return p.Width * p.Height
}

// SheetInstance is one physical stock sheet with the panels cut from it.
type SheetInstance struct {
	Material string        `json:"material"`
	Index    int           `json:"index"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Panels   []PlacedPanel `json:"panels"`
	Offcuts  []Offcut      `json:"offcuts,omitempty"`
}

// UsedArea returns the total true area of the placed panels.
func (s SheetInstance) UsedArea() int {
	total := 0
	for _, p := range s.Panels {
		total += p.Area()
	}
	return total
}

// TotalArea returns the stock sheet area.
func (s SheetInstance) TotalArea() int {
	return s.Width * s.Height
}

// WasteFraction returns unused area over sheet area, in [0, 1].
// Kerf losses count as unused area, not as product.
func (s SheetInstance) WasteFraction() float64 {
	ta := s.TotalArea()
	if ta == 0 {
		return 0
	}
	return 1 - float64(s.UsedArea())/float64(ta)
}

// WastePercent returns WasteFraction scaled to 0..100.
func (s SheetInstance) WastePercent() float64 {
	return s.WasteFraction() * 100.0
}

// Efficiency returns the usage percentage.
func (s SheetInstance) Efficiency() float64 {
	return 100.0 - s.WastePercent()
}

// Label returns the human sheet title, numbering sheets from 1.
func (s SheetInstance) Label() string {
	return fmt.Sprintf("%s — Sheet %d", s.Material, s.Index+1)
}

// FormatPercent renders a percentage with two decimals, e.g. "12.34%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// MaterialRequest is the raw input for one laminate code.
type MaterialRequest struct {
	Material  Material `json:"material"`
	PanelText string   `json:"panels"`
}

// MaterialPlan is the packing outcome for one material.
type MaterialPlan struct {
	Material Material         `json:"material"`
	Kerf     int              `json:"kerf"`
	Items    []DemandItem     `json:"items"`
	Sheets   []SheetInstance  `json:"sheets"`
	Failures []Failure        `json:"failures,omitempty"`
	Estimate PurchaseEstimate `json:"estimate"`
}

// PlacedCount returns the number of panels placed across all sheets.
func (mp MaterialPlan) PlacedCount() int {
	total := 0
	for _, s := range mp.Sheets {
		total += len(s.Panels)
	}
	return total
}

// DemandCount returns the number of requested units across all items.
func (mp MaterialPlan) DemandCount() int {
	total := 0
	for _, it := range mp.Items {
		total += it.Quantity
	}
	return total
}

// Complete reports whether every requested unit was placed.
func (mp MaterialPlan) Complete() bool {
	return mp.PlacedCount() == mp.DemandCount()
}

// TotalWastePercent returns the combined waste across the material's sheets.
func (mp MaterialPlan) TotalWastePercent() float64 {
	var used, total int
	for _, s := range mp.Sheets {
		used += s.UsedArea()
		total += s.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return (1 - float64(used)/float64(total)) * 100.0
}

// OrderLine is the number of sheets to purchase for one laminate code.
type OrderLine struct {
	Code      string `json:"code"`
	SheetSize string `json:"sheet_size"`
	Sheets    int    `json:"sheets"`
}

// WasteStats summarises per-sheet waste over a whole plan.
type WasteStats struct {
	Sheets        int     `json:"sheets"`
	MeanPercent   float64 `json:"mean_percent"`
	StdDevPercent float64 `json:"stddev_percent"`
	MinPercent    float64 `json:"min_percent"`
	MaxPercent    float64 `json:"max_percent"`
}

// Plan is the result of one planning run across all materials.
type Plan struct {
	ID        string         `json:"id"`
	Kerf      int            `json:"kerf"`
	Materials []MaterialPlan `json:"materials"`
	Orders    []OrderLine    `json:"orders"`
	Failures  []Failure      `json:"failures,omitempty"`
	Stats     WasteStats     `json:"stats"`
}

// SheetCount returns the total number of sheets across all materials.
func (p Plan) SheetCount() int {
	total := 0
	for _, mp := range p.Materials {
		total += len(mp.Sheets)
	}
	return total
}

// Material returns the plan for the given code.
func (p Plan) Material(code string) (MaterialPlan, bool) {
	for _, mp := range p.Materials {
		if mp.Material.Code == code {
			return mp, true
		}
	}
	return MaterialPlan{}, false
}

// CutSettings holds the packing configuration for a run.
type CutSettings struct {
	Kerf          int     `json:"kerf"`           // Saw blade thickness in mm
	MaxSheets     int     `json:"max_sheets"`     // Sheets that may be opened per material
	BufferPercent float64 `json:"buffer_percent"` // Extra sheets to order for cutting errors, 0 = none
}

func DefaultSettings() CutSettings {
	return CutSettings{
		Kerf:          3,
		MaxSheets:     100,
		BufferPercent: 0,
	}
}

// Project ties everything together for save/load.
type Project struct {
	Name      string            `json:"name"`
	Settings  CutSettings       `json:"settings"`
	Materials []MaterialRequest `json:"materials"`
	Result    *Plan             `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:      "Untitled",
		Settings:  DefaultSettings(),
		Materials: []MaterialRequest{},
	}
}
