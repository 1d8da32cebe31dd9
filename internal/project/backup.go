package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// ArchiveVersion is written into every archive. Archives without it are
// rejected on read.
const ArchiveVersion = "2.0.0"

// ArchivedProject is one saved project together with the sheet order it last
// produced, so an archive can be skimmed without re-planning.
type ArchivedProject struct {
	Path    string            `json:"path"` // where the project was saved when archived
	Project model.Project     `json:"project"`
	Orders  []model.OrderLine `json:"orders,omitempty"`
	Sheets  int               `json:"sheets"`
}

// Archive bundles the app config with the recent laminate projects.
type Archive struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Config    model.AppConfig   `json:"config"`
	Projects  []ArchivedProject `json:"projects"`
	Missing   []string          `json:"missing,omitempty"` // recent paths that could not be read
}

// Codes returns every laminate code across the archived projects, in first
// appearance order.
func (a Archive) Codes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, ap := range a.Projects {
		for _, req := range ap.Project.Materials {
			if !seen[req.Material.Code] {
				seen[req.Material.Code] = true
				codes = append(codes, req.Material.Code)
			}
		}
	}
	return codes
}

// BuildArchive collects the config and every recent project it can read.
// Unreadable paths are listed in Missing instead of failing the archive.
func BuildArchive(cfg model.AppConfig) Archive {
	a := Archive{
		Version:   ArchiveVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    cfg,
		Projects:  []ArchivedProject{},
	}
	for _, path := range cfg.RecentProjects {
		proj, err := Load(path)
		if err != nil {
			a.Missing = append(a.Missing, path)
			continue
		}
		ap := ArchivedProject{Path: path, Project: proj}
		if proj.Result != nil {
			ap.Orders = proj.Result.Orders
			ap.Sheets = proj.Result.SheetCount()
		}
		a.Projects = append(a.Projects, ap)
	}
	return a
}

// WriteArchive saves an archive as indented JSON.
func WriteArchive(path string, a Archive) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// ReadArchive loads an archive written by WriteArchive.
func ReadArchive(path string) (Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Archive{}, fmt.Errorf("failed to read archive: %w", err)
	}
	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return Archive{}, fmt.Errorf("failed to parse archive: %w", err)
	}
	if a.Version == "" {
		return Archive{}, fmt.Errorf("invalid archive: missing version field")
	}
	if a.Config.RecentProjects == nil {
		a.Config.RecentProjects = []string{}
	}
	return a, nil
}

// RestoreArchive writes every archived project into dir as a project file
// named after its original path, numbering clashes ("kitchen-2.lamcut").
// It returns the archived config with its recent list pointing at the
// restored files, most recent first.
func RestoreArchive(a Archive, dir string) (model.AppConfig, []string, error) {
	cfg := a.Config
	used := make(map[string]bool)
	var restored []string
	for _, ap := range a.Projects {
		path := uniquePath(dir, archivedName(ap), used)
		if err := Save(path, ap.Project); err != nil {
			return model.AppConfig{}, nil, fmt.Errorf("failed to restore %s: %w", ap.Project.Name, err)
		}
		restored = append(restored, path)
	}

	cfg.RecentProjects = []string{}
	for i := len(restored) - 1; i >= 0; i-- {
		AddRecentProject(&cfg, restored[i])
	}
	return cfg, restored, nil
}

func archivedName(ap ArchivedProject) string {
	name := strings.TrimSuffix(filepath.Base(ap.Path), filepath.Ext(ap.Path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = ap.Project.Name
	}
	if name == "" {
		name = "project"
	}
	return name
}

func uniquePath(dir, name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	used[candidate] = true
	return filepath.Join(dir, candidate+FileExtension)
}
