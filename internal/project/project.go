package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// FileExtension is appended to project files saved without one.
const FileExtension = ".lamcut"

// Save writes a project as indented JSON, creating parent directories.
func Save(path string, proj model.Project) error {
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project file. Settings absent from the file keep their
// defaults so a hand-written project only needs its materials.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	proj := model.NewProject()
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	return proj, nil
}

// WithExtension adds FileExtension when path has no extension.
func WithExtension(path string) string {
	if filepath.Ext(path) == "" {
		return path + FileExtension
	}
	return path
}
