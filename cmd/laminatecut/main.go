// LaminateCut: laminate sheet cutting planner
//
// Packs rectangular panels onto stock laminate sheets per laminate code and
// reports placements, waste per sheet and how many sheets to order.
//
// Build:
//   go build -o laminatecut ./cmd/laminatecut
//
// Examples:
//   laminatecut -panels panels.txt -code HGS-1 -size "8x4 ft (1220x2440)" -kerf 3
//   laminatecut -import order.xlsx -pdf plan.pdf -xlsx plan.xlsx
//   laminatecut -project kitchen.lamcut -dxf out/dxf -png out/png -labels labels.pdf
//   laminatecut -backup laminatecut-archive.json

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"

	"github.com/piwi3910/LaminateCut/internal/engine"
	"github.com/piwi3910/LaminateCut/internal/export"
	"github.com/piwi3910/LaminateCut/internal/importer"
	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/piwi3910/LaminateCut/internal/project"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run loads the inputs, plans and writes every requested output.
func run(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := project.LoadAppConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "laminatecut",
		Level:  hclog.LevelFromString(level),
		Output: stderr,
	})

	switch {
	case opts.BackupPath != "":
		return backup(opts, cfg, stdout, logger)
	case opts.RestorePath != "":
		return restore(opts, stdout, logger)
	}

	proj, err := loadInputs(opts, cfg, stdin, logger)
	if err != nil {
		return err
	}
	proj.Settings = opts.settings(cfg, settingsOf(opts, proj))

	planner := engine.New(proj.Settings, logger)
	plan, err := planner.Plan(ctx, proj.Materials)
	if err != nil {
		return err
	}
	proj.Result = &plan

	printPlan(stdout, plan, proj.Settings.BufferPercent)

	if opts.Compare {
		results := planner.CompareScenarios(ctx, engine.BuildDefaultScenarios(proj.Settings), proj.Materials)
		printComparison(stdout, results)
	}

	if err := writeOutputs(opts, plan, logger); err != nil {
		return err
	}

	if opts.SaveAs != "" {
		path := project.WithExtension(opts.SaveAs)
		if err := project.Save(path, proj); err != nil {
			return err
		}
		project.AddRecentProject(&cfg, path)
		if err := project.SaveAppConfig(opts.ConfigPath, cfg); err != nil {
			logger.Warn("could not update recent projects", "error", err)
		}
		logger.Info("saved project", "path", path)
	}
	return nil
}

// backup archives the config and the recent projects it can still read.
func backup(opts *options, cfg model.AppConfig, stdout io.Writer, logger hclog.Logger) error {
	a := project.BuildArchive(cfg)
	for _, path := range a.Missing {
		logger.Warn("recent project not readable, left out of archive", "path", path)
	}
	if err := project.WriteArchive(opts.BackupPath, a); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Archived %d projects (%s) to %s\n",
		len(a.Projects), strings.Join(a.Codes(), ", "), opts.BackupPath)
	return nil
}

// restore writes an archive's projects back to disk and adopts its config.
func restore(opts *options, stdout io.Writer, logger hclog.Logger) error {
	a, err := project.ReadArchive(opts.RestorePath)
	if err != nil {
		return err
	}
	cfg, paths, err := project.RestoreArchive(a, opts.RestoreDir)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(opts.ConfigPath, cfg); err != nil {
		return fmt.Errorf("failed to save restored config: %w", err)
	}
	logger.Info("restored archive", "archive", opts.RestorePath, "projects", len(paths))
	for _, p := range paths {
		fmt.Fprintf(stdout, "Restored %s\n", p)
	}
	return nil
}

// settingsOf returns the project's own settings when the input was a project file.
func settingsOf(opts *options, proj model.Project) *model.CutSettings {
	if opts.ProjectPath == "" {
		return nil
	}
	return &proj.Settings
}

// loadInputs builds the project to plan from whichever input flag was given.
func loadInputs(opts *options, cfg model.AppConfig, stdin io.Reader, logger hclog.Logger) (model.Project, error) {
	size := cfg.SheetSize()
	if opts.Size != "" {
		s, ok := importer.ParseSheetSize(opts.Size)
		if !ok {
			return model.Project{}, fmt.Errorf("unknown sheet size %q, use one of %s or WxH",
				opts.Size, strings.Join(model.SheetSizeLabels(), ", "))
		}
		size = s
	}

	switch {
	case opts.ProjectPath != "":
		return project.Load(opts.ProjectPath)

	case opts.ImportPath != "":
		result := importer.ImportFile(opts.ImportPath, size)
		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		for _, e := range result.Errors {
			logger.Error(e)
		}
		if len(result.Requests) == 0 {
			return model.Project{}, fmt.Errorf("no panels imported from %s", opts.ImportPath)
		}
		proj := model.NewProject()
		proj.Name = opts.ImportPath
		proj.Materials = result.Requests
		logger.Info("imported panel list", "materials", len(result.Requests), "rows", result.Panels())
		return proj, nil

	default:
		var text string
		if opts.PanelsPath == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return model.Project{}, fmt.Errorf("failed to read panels from stdin: %w", err)
			}
			text = string(data)
		} else {
			t, err := importer.ReadPanelText(opts.PanelsPath)
			if err != nil {
				return model.Project{}, err
			}
			text = t
		}
		proj := model.NewProject()
		proj.Name = opts.Code
		proj.Materials = []model.MaterialRequest{{Material: size.Material(opts.Code), PanelText: text}}
		return proj, nil
	}
}

// printPlan writes the per-sheet waste and the order summary.
func printPlan(w io.Writer, plan model.Plan, bufferPercent float64) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, mp := range plan.Materials {
		for _, s := range mp.Sheets {
			fmt.Fprintf(tw, "%s\tpanels: %d\tWaste: %s\n", s.Label(), len(s.Panels), model.FormatPercent(s.WastePercent()))
		}
		if offcuts := engine.AllOffcuts(mp); len(offcuts) > 0 {
			fmt.Fprintf(tw, "%s offcuts\tusable: %d\tarea: %.2f m²\n",
				mp.Material.Code, len(offcuts), float64(model.TotalOffcutArea(offcuts))/1e6)
		}
	}
	tw.Flush()

	orders := append([]model.OrderLine(nil), plan.Orders...)
	engine.SortOrdersNatural(orders)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Order summary:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range orders {
		fmt.Fprintf(tw, "  %s\t%s\t%d sheets\n", o.Code, o.SheetSize, o.Sheets)
	}
	tw.Flush()
	fmt.Fprintf(w, "  Total: %d sheets\n", engine.TotalSheets(orders))

	if bufferPercent > 0 {
		buffered := engine.WithBuffer(orders, bufferPercent)
		fmt.Fprintf(w, "  With %.0f%% buffer: %d sheets\n", bufferPercent, engine.TotalSheets(buffered))
	}

	if len(plan.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Problems:")
		for _, f := range plan.Failures {
			fmt.Fprintf(w, "  %s\n", f.Error())
		}
	}
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scenario comparison:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Scenario\tSheets\tWaste\tUnplaced")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "  %s\t-\t-\t%v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%d\n", r.Scenario.Name, r.SheetsUsed, model.FormatPercent(r.WastePercent), r.UnplacedUnits)
	}
	tw.Flush()
}

// writeOutputs runs each exporter that was asked for. Exports need at least
// one sheet; an empty plan only warns.
func writeOutputs(opts *options, plan model.Plan, logger hclog.Logger) error {
	if opts.JSONPath != "" {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plan: %w", err)
		}
		if err := os.WriteFile(opts.JSONPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write plan JSON: %w", err)
		}
		logger.Info("wrote plan JSON", "path", opts.JSONPath)
	}

	wantsExport := opts.PDFPath != "" || opts.XLSXPath != "" || opts.LabelsPath != "" || opts.DXFDir != "" || opts.PNGDir != ""
	if wantsExport && plan.SheetCount() == 0 {
		logger.Warn("no sheets were used, skipping exports")
		return nil
	}

	if opts.PDFPath != "" {
		if err := export.ExportPDF(opts.PDFPath, plan); err != nil {
			return err
		}
		logger.Info("wrote cutting plan", "path", opts.PDFPath)
	}
	if opts.XLSXPath != "" {
		if err := export.ExportExcel(opts.XLSXPath, plan); err != nil {
			return err
		}
		logger.Info("wrote workbook", "path", opts.XLSXPath)
	}
	if opts.LabelsPath != "" {
		if err := export.ExportLabels(opts.LabelsPath, plan); err != nil {
			return err
		}
		logger.Info("wrote labels", "path", opts.LabelsPath)
	}
	if opts.DXFDir != "" {
		paths, err := export.ExportDXF(opts.DXFDir, plan)
		if err != nil {
			return err
		}
		logger.Info("wrote DXF layouts", "dir", opts.DXFDir, "files", len(paths))
	}
	if opts.PNGDir != "" {
		paths, err := export.ExportPNG(opts.PNGDir, plan, export.DefaultPreviewSize)
		if err != nil {
			return err
		}
		logger.Info("wrote previews", "dir", opts.PNGDir, "files", len(paths))
	}
	return nil
}
