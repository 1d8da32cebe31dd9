package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/piwi3910/LaminateCut/internal/project"
)

// options holds everything the command line can set.
type options struct {
	ConfigPath string

	// Input: a project file, an import file, or a single material
	ProjectPath string
	ImportPath  string
	Code        string
	Size        string
	PanelsPath  string // "-" reads standard input

	// Overrides; negative means "use the config value"
	Kerf      int
	MaxSheets int
	Buffer    float64

	// Outputs
	PDFPath    string
	XLSXPath   string
	LabelsPath string
	JSONPath   string
	DXFDir     string
	PNGDir     string
	SaveAs     string

	// Archive maintenance; these replace planning
	BackupPath  string
	RestorePath string
	RestoreDir  string

	Compare  bool
	LogLevel string
}

var errNoInput = errors.New("one of -project, -import or -panels is required")

// parseFlags parses args (without the program name).
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("laminatecut", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", project.DefaultConfigPath(), "Path to the application config file")
	fs.StringVar(&opts.ProjectPath, "project", "", "Project file with materials and settings")
	fs.StringVar(&opts.ImportPath, "import", "", "CSV or XLSX panel list with Code, Width, Height, Quantity[, Sheet] columns")
	fs.StringVar(&opts.Code, "code", "LAM-1", "Laminate code for -panels")
	fs.StringVar(&opts.Size, "size", "", "Sheet size for -panels and -import: a standard label or WxH in mm")
	fs.StringVar(&opts.PanelsPath, "panels", "", "Panel list file, one WxH[xQty] per line (- for stdin)")
	fs.IntVar(&opts.Kerf, "kerf", -1, "Saw kerf in mm (default from config)")
	fs.IntVar(&opts.MaxSheets, "max-sheets", -1, "Sheets that may be opened per material (default from config)")
	fs.Float64Var(&opts.Buffer, "buffer", -1, "Extra sheets to order, in percent (default from config)")
	fs.StringVar(&opts.PDFPath, "pdf", "", "Write the cutting plan PDF here")
	fs.StringVar(&opts.XLSXPath, "xlsx", "", "Write the summary workbook here")
	fs.StringVar(&opts.LabelsPath, "labels", "", "Write QR panel labels PDF here")
	fs.StringVar(&opts.JSONPath, "json", "", "Write the plan as JSON here")
	fs.StringVar(&opts.DXFDir, "dxf", "", "Write one DXF layout per sheet into this directory")
	fs.StringVar(&opts.PNGDir, "png", "", "Write one PNG preview per sheet into this directory")
	fs.StringVar(&opts.SaveAs, "save", "", "Save the inputs and result as a project file")
	fs.StringVar(&opts.BackupPath, "backup", "", "Archive the config and recent projects into this file, then exit")
	fs.StringVar(&opts.RestorePath, "restore", "", "Restore projects and config from an archive, then exit")
	fs.StringVar(&opts.RestoreDir, "restore-dir", filepath.Join(project.DefaultConfigDir(), "projects"), "Directory restored projects are written to")
	fs.BoolVar(&opts.Compare, "compare", false, "Also compare kerf and sheet size alternatives")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default from config)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.BackupPath != "" && opts.RestorePath != "" {
		return nil, fmt.Errorf("-backup and -restore are mutually exclusive")
	}
	if opts.BackupPath != "" || opts.RestorePath != "" {
		return opts, nil
	}

	inputs := 0
	for _, s := range []string{opts.ProjectPath, opts.ImportPath, opts.PanelsPath} {
		if s != "" {
			inputs++
		}
	}
	if inputs == 0 {
		fs.Usage()
		return nil, errNoInput
	}
	if inputs > 1 {
		return nil, fmt.Errorf("-project, -import and -panels are mutually exclusive")
	}
	return opts, nil
}

// settings merges config defaults, project settings and flag overrides, in
// that order.
func (o *options) settings(cfg model.AppConfig, base *model.CutSettings) model.CutSettings {
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)
	if base != nil {
		s = *base
	}
	if o.Kerf >= 0 {
		s.Kerf = o.Kerf
	}
	if o.MaxSheets > 0 {
		s.MaxSheets = o.MaxSheets
	}
	if o.Buffer >= 0 {
		s.BufferPercent = o.Buffer
	}
	return s
}
