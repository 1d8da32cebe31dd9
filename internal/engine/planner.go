// Package engine packs demand items onto stock sheets.
//
// Packing is a heuristic guillotine placement: units are sorted largest
// first and each one goes into the smallest free region of the first open
// sheet that can hold it. The result is deterministic for a given input but
// is not guaranteed to use the minimum possible number of sheets.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/piwi3910/LaminateCut/internal/parser"
)

// Planner runs packing for a set of materials.
type Planner struct {
	Settings model.CutSettings
	Logger   hclog.Logger
}

func New(settings model.CutSettings, logger hclog.Logger) *Planner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Planner{Settings: settings, Logger: logger}
}

// Plan parses every material's panel text, packs the materials concurrently
// and aggregates the results. A negative kerf or an out-of-range sheet size
// is fatal and rejected before any packing begins; everything else is
// reported in the plan's failures. A material left with no item that passes
// validation is reported as empty input and left out of the plan.
func (p *Planner) Plan(ctx context.Context, requests []model.MaterialRequest) (model.Plan, error) {
	if err := ValidateKerf(p.Settings.Kerf); err != nil {
		return model.Plan{}, err
	}
	for _, req := range requests {
		if err := req.Material.Validate(); err != nil {
			return model.Plan{}, fmt.Errorf("%v: %w", err, ErrInvalidSheet)
		}
	}

	plan := model.Plan{
		ID:   uuid.New().String(),
		Kerf: p.Settings.Kerf,
	}
	log := p.Logger.With("plan", plan.ID)

	// Parse first so empty materials can be dropped before packing
	type job struct {
		material model.Material
		items    []model.DemandItem
		failures []model.Failure
	}
	var jobs []job
	for _, req := range requests {
		parsed := parser.Parse(req.PanelText)
		failures := parsed.Failures(req.Material.Code)
		if len(parsed.Skipped) > 0 {
			log.Warn("skipped malformed panel lines", "material", req.Material.Code, "count", len(parsed.Skipped))
		}
		invalid := validationFailures(req.Material.Code, parsed.Items, p.Settings.Kerf)
		if len(invalid) == len(parsed.Items) {
			log.Warn("no valid panels found", "material", req.Material.Code)
			plan.Failures = append(plan.Failures, failures...)
			plan.Failures = append(plan.Failures, invalid...)
			plan.Failures = append(plan.Failures, emptyInputFailure(req.Material.Code))
			continue
		}
		jobs = append(jobs, job{material: req.Material, items: parsed.Items, failures: failures})
	}

	results := make([]model.MaterialPlan, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, material model.Material, items []model.DemandItem) {
			defer wg.Done()
			results[i] = p.PackMaterial(ctx, material, items)
		}(i, j.material, j.items)
	}
	wg.Wait()

	for i, mp := range results {
		mp.Failures = append(jobs[i].failures, mp.Failures...)
		plan.Materials = append(plan.Materials, mp)
		plan.Failures = append(plan.Failures, mp.Failures...)
		log.Info("packed material",
			"material", mp.Material.Code,
			"panels", mp.PlacedCount(),
			"sheets", len(mp.Sheets),
			"waste", model.FormatPercent(mp.TotalWastePercent()))
	}

	plan.Orders = AggregateOrders(plan.Materials)
	plan.Stats = ComputeWasteStats(plan.Materials)
	return plan, nil
}

// validationFailures reports every item that cannot be cut with the kerf.
func validationFailures(code string, items []model.DemandItem, kerf int) []model.Failure {
	var failures []model.Failure
	for i, it := range items {
		if err := ValidateItem(it, kerf); err != nil {
			failures = append(failures, validationFailure(code, i, it, err))
		}
	}
	return failures
}

// PackMaterial packs one material using the planner's settings.
func (p *Planner) PackMaterial(ctx context.Context, material model.Material, items []model.DemandItem) model.MaterialPlan {
	mp := Pack(ctx, material, items, p.Settings)
	if n := model.CountFailures(mp.Failures, model.FailurePlacement); n > 0 {
		p.Logger.Warn("could not pack all panels", "material", material.Code, "failures", n)
	}
	return mp
}

// unit is one physical panel waiting to be placed.
type unit struct {
	demand int // index into items
	copy   int
	w, h   int // inflated footprint
}

// expandCheckEvery is how many copies are expanded between context checks.
const expandCheckEvery = 1024

// Pack places every unit of every valid item onto sheets of the material.
// It holds no state between calls: identical inputs give identical layouts.
//
// Copies beyond what the sheet cap could ever hold are reported without
// being expanded, so the work done is bounded by the cap and not by the
// requested quantity.
func Pack(ctx context.Context, material model.Material, items []model.DemandItem, settings model.CutSettings) model.MaterialPlan {
	kerf := settings.Kerf
	mp := model.MaterialPlan{
		Material: material,
		Kerf:     kerf,
		Items:    items,
		Sheets:   []model.SheetInstance{},
	}

	maxSheets := settings.MaxSheets
	if maxSheets <= 0 {
		maxSheets = model.DefaultSettings().MaxSheets
	}

	var (
		units     []unit
		packable  []model.DemandItem
		valid     int
		capped    = make(map[int]int) // demand index -> units beyond the sheet cap
		abandoned = make(map[int]int) // demand index -> units not tried after cancellation
		cancelErr error
	)

	// Expand valid items into units; oversized items fail as a whole
	for i, it := range items {
		if err := ValidateItem(it, kerf); err != nil {
			mp.Failures = append(mp.Failures, validationFailure(material.Code, i, it, err))
			continue
		}
		valid++
		if !FitsSheet(it, material, kerf) {
			mp.Failures = append(mp.Failures, model.Failure{
				Kind:        model.FailurePlacement,
				Material:    material.Code,
				Line:        it.Line,
				DemandIndex: i,
				Units:       it.Quantity,
				Message: fmt.Sprintf("panel %dx%d (plus %d mm kerf) does not fit on a %dx%d sheet",
					it.Width, it.Height, kerf, material.SheetWidth, material.SheetHeight),
			})
			continue
		}
		packable = append(packable, it)

		if cancelErr == nil {
			cancelErr = ctx.Err()
		}
		if cancelErr != nil {
			abandoned[i] += it.Quantity
			continue
		}

		w, h := Inflate(it, kerf)
		limit := copyLimit(material, w, h, it.Quantity, maxSheets)
		capped[i] += it.Quantity - limit
		for c := 0; c < limit; c++ {
			if c%expandCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					cancelErr = err
					abandoned[i] += limit - c
					break
				}
			}
			units = append(units, unit{demand: i, copy: c, w: w, h: h})
		}
	}

	mp.Estimate = model.CalculatePurchaseEstimate(packable, material.SheetWidth, material.SheetHeight, kerf, settings.BufferPercent)
	if valid == 0 {
		mp.Failures = append(mp.Failures, emptyInputFailure(material.Code))
		return mp
	}

	// Cancelled while expanding: nothing is placed, skip sorting
	if cancelErr != nil {
		for _, u := range units {
			abandoned[u.demand]++
		}
		units = nil
	}
	sortUnits(units)

	var packers []*sheetPacker
	for _, u := range units {
		if cancelErr == nil {
			cancelErr = ctx.Err()
		}
		if cancelErr != nil {
			abandoned[u.demand]++
			continue
		}

		placed := false
		for si, sp := range packers {
			if ok, x, y := sp.insert(u.w, u.h); ok {
				mp.Sheets[si].Panels = append(mp.Sheets[si].Panels, placedPanel(u, si, x, y, kerf))
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		if len(packers) >= maxSheets {
			capped[u.demand]++
			continue
		}

		sp := newSheetPacker(material.SheetWidth, material.SheetHeight)
		si := len(packers)
		packers = append(packers, sp)
		mp.Sheets = append(mp.Sheets, model.SheetInstance{
			Material: material.Code,
			Index:    si,
			Width:    material.SheetWidth,
			Height:   material.SheetHeight,
		})
		// Fits by construction: oversized units were filtered out above
		_, x, y := sp.insert(u.w, u.h)
		mp.Sheets[si].Panels = append(mp.Sheets[si].Panels, placedPanel(u, si, x, y, kerf))
	}

	for si, sp := range packers {
		mp.Sheets[si].Offcuts = detectOffcuts(sp, si)
	}

	mp.Failures = append(mp.Failures, unplacedFailures(material, items, capped, abandoned, maxSheets, cancelErr)...)
	return mp
}

// copyLimit returns how many copies of a w x h footprint the sheet cap could
// hold at most. No layout fits more than floor(W/w) * floor(H/h) equal
// unrotated rectangles on one sheet.
func copyLimit(material model.Material, w, h, qty, maxSheets int) int {
	perSheet := (material.SheetWidth / w) * (material.SheetHeight / h)
	if perSheet == 0 {
		return 0
	}
	if qty/perSheet < maxSheets {
		return qty
	}
	return maxSheets * perSheet
}

// sortUnits orders units by inflated area, then inflated height, both
// descending, then by input order.
func sortUnits(units []unit) {
	sort.SliceStable(units, func(i, j int) bool {
		ai, aj := units[i].w*units[i].h, units[j].w*units[j].h
		if ai != aj {
			return ai > aj
		}
		if units[i].h != units[j].h {
			return units[i].h > units[j].h
		}
		if units[i].demand != units[j].demand {
			return units[i].demand < units[j].demand
		}
		return units[i].copy < units[j].copy
	})
}

func placedPanel(u unit, sheet, x, y, kerf int) model.PlacedPanel {
	w, h := Deflate(u.w, u.h, kerf)
	return model.PlacedPanel{
		DemandIndex: u.demand,
		Unit:        u.copy,
		Sheet:       sheet,
		X:           x,
		Y:           y,
		Width:       w,
		Height:      h,
	}
}

// unplacedFailures reports, per demand item, the units left over because the
// sheet cap ran out and, separately, the units never tried because the
// context was cancelled.
func unplacedFailures(material model.Material, items []model.DemandItem, capped, abandoned map[int]int, maxSheets int, cancelErr error) []model.Failure {
	var indices []int
	for idx := range items {
		if capped[idx] > 0 || abandoned[idx] > 0 {
			indices = append(indices, idx)
		}
	}

	var failures []model.Failure
	for _, idx := range indices {
		it := items[idx]
		if n := capped[idx]; n > 0 {
			failures = append(failures, model.Failure{
				Kind:        model.FailurePlacement,
				Material:    material.Code,
				Line:        it.Line,
				DemandIndex: idx,
				Units:       n,
				Message: fmt.Sprintf("could not pack all panels: %d of %d units of %dx%d left over after %d sheets",
					n, it.Quantity, it.Width, it.Height, maxSheets),
			})
		}
		if n := abandoned[idx]; n > 0 {
			failures = append(failures, model.Failure{
				Kind:        model.FailurePlacement,
				Material:    material.Code,
				Line:        it.Line,
				DemandIndex: idx,
				Units:       n,
				Message:     fmt.Sprintf("planning abandoned: %d units of %dx%d not packed: %v", n, it.Width, it.Height, cancelErr),
			})
		}
	}
	return failures
}

func validationFailure(code string, index int, it model.DemandItem, err error) model.Failure {
	return model.Failure{
		Kind:        model.FailureValidation,
		Material:    code,
		Line:        it.Line,
		DemandIndex: index,
		Units:       it.Quantity,
		Message:     err.Error(),
	}
}

func emptyInputFailure(code string) model.Failure {
	return model.Failure{
		Kind:     model.FailureEmptyInput,
		Material: code,
		Message:  fmt.Sprintf("no valid panels found for %s", code),
	}
}
