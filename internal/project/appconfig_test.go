package project

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LaminateCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultKerf = 4
	cfg.DefaultSheetSize = "6x3 ft (1830x1830)"
	cfg.LogLevel = "debug"
	cfg.RecentProjects = []string{"/tmp/kitchen.lamcut", "/tmp/bath.lamcut"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultKerf != 4 {
		t.Errorf("expected DefaultKerf=4, got %d", loaded.DefaultKerf)
	}
	if loaded.SheetSize().Height != 1830 {
		t.Errorf("expected 1830 high sheet, got %+v", loaded.SheetSize())
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", loaded.LogLevel)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultKerf != defaults.DefaultKerf {
		t.Errorf("expected default kerf %d, got %d", defaults.DefaultKerf, cfg.DefaultKerf)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected listen addr :8080, got %s", cfg.ListenAddr)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_kerf":5}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultKerf != 5 {
		t.Errorf("expected DefaultKerf=5, got %d", cfg.DefaultKerf)
	}
	if cfg.DefaultMaxSheets != 100 {
		t.Errorf("expected default max sheets to survive, got %d", cfg.DefaultMaxSheets)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_kerf":3,"recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("unexpected config file name %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".laminatecut" {
		t.Errorf("unexpected config dir %s", filepath.Dir(path))
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := model.DefaultAppConfig()
	AddRecentProject(&cfg, "a")
	AddRecentProject(&cfg, "b")
	AddRecentProject(&cfg, "a")

	if len(cfg.RecentProjects) != 2 || cfg.RecentProjects[0] != "a" || cfg.RecentProjects[1] != "b" {
		t.Errorf("unexpected recent list %v", cfg.RecentProjects)
	}

	for i := 0; i < MaxRecentProjects+5; i++ {
		AddRecentProject(&cfg, fmt.Sprintf("p%d", i))
	}
	if len(cfg.RecentProjects) != MaxRecentProjects {
		t.Errorf("expected %d recent projects, got %d", MaxRecentProjects, len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != fmt.Sprintf("p%d", MaxRecentProjects+4) {
		t.Errorf("expected newest first, got %s", cfg.RecentProjects[0])
	}
}
