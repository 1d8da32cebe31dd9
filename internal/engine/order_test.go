package engine

import (
	"testing"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWithSheets(code string, n int) model.MaterialPlan {
	return model.MaterialPlan{
		Material: model.NewMaterial(code, 1220, 2440),
		Sheets:   make([]model.SheetInstance, n),
	}
}

func TestAggregateOrders_CountsSheetsPerCode(t *testing.T) {
	lines := AggregateOrders([]model.MaterialPlan{
		planWithSheets("HGS-10", 3),
		planWithSheets("HGS-2", 1),
		planWithSheets("HGS-10", 2),
	})

	require.Len(t, lines, 2)
	assert.Equal(t, "HGS-10", lines[0].Code)
	assert.Equal(t, 5, lines[0].Sheets)
	assert.Equal(t, "1220x2440", lines[0].SheetSize)
	assert.Equal(t, 1, lines[1].Sheets)
	assert.Equal(t, 6, TotalSheets(lines))
}

func TestAggregateOrders_SeparatesSheetSizesOfOneCode(t *testing.T) {
	small := model.StandardSizes[2].Material("HGS-1")
	lines := AggregateOrders([]model.MaterialPlan{
		planWithSheets("HGS-1", 2),
		{Material: small, Sheets: make([]model.SheetInstance, 3)},
		planWithSheets("HGS-1", 1),
	})

	require.Len(t, lines, 2)
	assert.Equal(t, model.OrderLine{Code: "HGS-1", SheetSize: "1220x2440", Sheets: 3}, lines[0])
	assert.Equal(t, model.OrderLine{Code: "HGS-1", SheetSize: small.SizeLabel, Sheets: 3}, lines[1])
	assert.Equal(t, "6x3 ft (1830x1830)", lines[1].SheetSize)
}

func TestSortOrdersNatural(t *testing.T) {
	lines := []model.OrderLine{{Code: "HGS-10"}, {Code: "HGS-2"}, {Code: "HGS-1"}}
	SortOrdersNatural(lines)
	assert.Equal(t, "HGS-1", lines[0].Code)
	assert.Equal(t, "HGS-2", lines[1].Code)
	assert.Equal(t, "HGS-10", lines[2].Code)
}

func TestWithBuffer_DoesNotMutateInput(t *testing.T) {
	lines := []model.OrderLine{{Code: "A", Sheets: 10}, {Code: "B", Sheets: 0}}
	buffered := WithBuffer(lines, 10)

	assert.Equal(t, 11, buffered[0].Sheets)
	assert.Equal(t, 0, buffered[1].Sheets)
	assert.Equal(t, 10, lines[0].Sheets)
}

func TestComputeWasteStats_Empty(t *testing.T) {
	stats := ComputeWasteStats(nil)
	assert.Equal(t, model.WasteStats{}, stats)
}

func TestComputeWasteStats_SingleSheet(t *testing.T) {
	mp := model.MaterialPlan{Sheets: []model.SheetInstance{
		{Width: 100, Height: 100, Panels: []model.PlacedPanel{{Width: 100, Height: 25}}},
	}}
	stats := ComputeWasteStats([]model.MaterialPlan{mp})
	assert.Equal(t, 1, stats.Sheets)
	assert.InDelta(t, 75.0, stats.MeanPercent, 1e-9)
	assert.Equal(t, 0.0, stats.StdDevPercent)
	assert.InDelta(t, 0.75, Waste(mp.Sheets[0]), 1e-12)
}
