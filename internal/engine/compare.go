package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare. When
// SheetSize is set, every material is re-planned on that size.
type ComparisonScenario struct {
	Name      string
	Settings  model.CutSettings
	SheetSize *model.SheetSize
}

// ComparisonResult holds the plan and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Plan          model.Plan
	SheetsUsed    int
	WastePercent  float64
	UnplacedUnits int
	Err           error
}

// CompareScenarios plans the same requests under each scenario and returns
// the results in scenario order. A scenario that fails validation keeps its
// error in the result and does not stop the others.
func (p *Planner) CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, requests []model.MaterialRequest) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		reqs := requests
		if scenario.SheetSize != nil {
			reqs = make([]model.MaterialRequest, len(requests))
			for i, r := range requests {
				r.Material = scenario.SheetSize.Material(r.Material.Code)
				reqs[i] = r
			}
		}

		planner := New(scenario.Settings, p.Logger.Named("compare"))
		plan, err := planner.Plan(ctx, reqs)
		res := ComparisonResult{Scenario: scenario, Plan: plan, Err: err}
		if err == nil {
			res.SheetsUsed = plan.SheetCount()
			res.WastePercent = totalWastePercent(plan.Materials)
			res.UnplacedUnits = unplacedUnits(plan.Materials)
		}
		results = append(results, res)
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the given
// settings: a thinner blade, no kerf at all, and each standard sheet size.
func BuildDefaultScenarios(base model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	if base.Kerf > 1 {
		half := base
		half.Kerf = base.Kerf / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %dmm (half)", half.Kerf),
			Settings: half,
		})
	}

	if base.Kerf > 0 {
		noKerf := base
		noKerf.Kerf = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Kerf",
			Settings: noKerf,
		})
	}

	for i := range model.StandardSizes {
		size := model.StandardSizes[i]
		scenarios = append(scenarios, ComparisonScenario{
			Name:      "All on " + size.Label,
			Settings:  base,
			SheetSize: &size,
		})
	}

	return scenarios
}

func totalWastePercent(plans []model.MaterialPlan) float64 {
	var used, total int
	for _, mp := range plans {
		for _, s := range mp.Sheets {
			used += s.UsedArea()
			total += s.TotalArea()
		}
	}
	if total == 0 {
		return 0
	}
	return (1 - float64(used)/float64(total)) * 100.0
}

func unplacedUnits(plans []model.MaterialPlan) int {
	n := 0
	for _, mp := range plans {
		n += mp.DemandCount() - mp.PlacedCount()
	}
	return n
}
