package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultKerf          int     `json:"default_kerf"`
	DefaultSheetSize     string  `json:"default_sheet_size"`
	DefaultMaxSheets     int     `json:"default_max_sheets"`
	DefaultBufferPercent float64 `json:"default_buffer_percent"`

	// Application preferences
	OutputDir      string   `json:"output_dir"` // Where exports go when no path is given
	ListenAddr     string   `json:"listen_addr"`
	LogLevel       string   `json:"log_level"` // "trace", "debug", "info", "warn", "error"
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultKerf:          defaults.Kerf,
		DefaultSheetSize:     DefaultSheetSize().Label,
		DefaultMaxSheets:     defaults.MaxSheets,
		DefaultBufferPercent: defaults.BufferPercent,
		OutputDir:            ".",
		ListenAddr:           ":8080",
		LogLevel:             "info",
		RecentProjects:       []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.Kerf = c.DefaultKerf
	if c.DefaultMaxSheets > 0 {
		s.MaxSheets = c.DefaultMaxSheets
	}
	s.BufferPercent = c.DefaultBufferPercent
}

// SheetSize returns the configured default size, falling back to the first
// standard size when the label is unknown.
func (c AppConfig) SheetSize() SheetSize {
	if s, ok := LookupSheetSize(c.DefaultSheetSize); ok {
		return s
	}
	return DefaultSheetSize()
}
