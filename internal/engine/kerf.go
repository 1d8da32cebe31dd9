package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/LaminateCut/internal/model"
)

var (
	// ErrInvalidKerf is returned when the kerf is negative.
	ErrInvalidKerf = errors.New("kerf must not be negative")
	// ErrInvalidSheet is returned when a material has a non-positive sheet size.
	ErrInvalidSheet = errors.New("sheet size must be positive")
)

// Inflate returns the placement footprint of one unit: its true size plus
// one kerf on each axis. The footprint is used for placement and overlap
// checks only.
func Inflate(item model.DemandItem, kerf int) (w, h int) {
	return item.Width + kerf, item.Height + kerf
}

// FitsSheet reports whether the item's footprint fits the material's sheet.
// The comparison subtracts the kerf from the sheet instead of adding it to
// the panel so oversized dimensions cannot overflow.
func FitsSheet(item model.DemandItem, material model.Material, kerf int) bool {
	return item.Width <= material.SheetWidth-kerf && item.Height <= material.SheetHeight-kerf
}

// Deflate converts a placement footprint back to the true panel size.
func Deflate(w, h, kerf int) (int, int) {
	return w - kerf, h - kerf
}

// ValidateKerf rejects a negative kerf before any packing starts.
func ValidateKerf(kerf int) error {
	if kerf < 0 {
		return fmt.Errorf("kerf %d: %w", kerf, ErrInvalidKerf)
	}
	return nil
}

// ValidateItem reports a panel that cannot be cut with the given kerf: any
// dimension that is not positive or not larger than the kerf.
func ValidateItem(item model.DemandItem, kerf int) error {
	if item.Width <= 0 || item.Height <= 0 {
		return fmt.Errorf("panel %dx%d: dimensions must be positive", item.Width, item.Height)
	}
	if item.Width <= kerf || item.Height <= kerf {
		return fmt.Errorf("panel %dx%d: dimensions must exceed kerf %d", item.Width, item.Height, kerf)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("panel %dx%d: quantity %d must be at least 1", item.Width, item.Height, item.Quantity)
	}
	return nil
}
