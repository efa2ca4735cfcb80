package domain

import (
	"os"
	"strings"
)

// AppConfig configures the TUI host and shared directories.
type AppConfig struct {
	// AppName is shown in the header and window title.
	AppName string `toml:"app_name"`

	// AppDescription is shown under the header.
	AppDescription string `toml:"app_description"`

	// AppIcon prefixes the app name.
	AppIcon string `toml:"app_icon"`

	// Version is shown in the sidebar footer.
	Version string `toml:"version"`

	// Theme is "light" or "dark".
	Theme string `toml:"theme"`

	// PrimaryColor and SecondaryColor override the accent colours.
	PrimaryColor   string `toml:"primary_color"`
	SecondaryColor string `toml:"secondary_color"`

	// SidebarEnabled shows the navigation sidebar.
	SidebarEnabled bool `toml:"sidebar_enabled"`

	// DarkModeEnabled allows toggling the theme from the sidebar.
	DarkModeEnabled bool `toml:"dark_mode_enabled"`

	// EnvFile is a dotenv file loaded at startup, if set.
	EnvFile string `toml:"env_file"`

	// LogLevel is the app logger level (DEBUG, INFO, WARNING, ERROR).
	LogLevel string `toml:"log_level"`

	// LogFile receives app log output when set; stderr otherwise.
	LogFile string `toml:"log_file"`

	// LogDir holds the timestamped process and error logs.
	LogDir string `toml:"log_dir"`

	// DocsDir holds PDF inputs.
	DocsDir string `toml:"docs_dir"`

	// ImagesDir holds image inputs.
	ImagesDir string `toml:"images_dir"`

	// DataDir holds the chat history database.
	DataDir string `toml:"data_dir"`

	envVars map[string]string
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		AppName:         "Document Chat System",
		AppDescription:  "Process documents and ask questions with AI",
		AppIcon:         "📚",
		Version:         "0.1.0",
		Theme:           "light",
		PrimaryColor:    "#1f77b4",
		SecondaryColor:  "#ff7f0e",
		SidebarEnabled:  true,
		DarkModeEnabled: true,
		LogLevel:        "INFO",
		LogDir:          "logs",
		DocsDir:         "data/docs",
		ImagesDir:       "data/imgs",
		DataDir:         "data",
	}
}

// CaptureEnv records a snapshot of environment entries ("KEY=value") used
// as a fallback by GetEnv.
func (c *AppConfig) CaptureEnv(environ []string) {
	c.envVars = make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			c.envVars[k] = v
		}
	}
}

// GetEnv returns the process environment value for key, then the captured
// value, then def.
func (c *AppConfig) GetEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v, ok := c.envVars[key]; ok {
		return v
	}
	return def
}

// ToMap returns the user-facing configuration values.
func (c *AppConfig) ToMap() map[string]any {
	return map[string]any{
		"app_name":          c.AppName,
		"app_description":   c.AppDescription,
		"app_icon":          c.AppIcon,
		"theme":             c.Theme,
		"primary_color":     c.PrimaryColor,
		"secondary_color":   c.SecondaryColor,
		"sidebar_enabled":   c.SidebarEnabled,
		"dark_mode_enabled": c.DarkModeEnabled,
		"log_level":         c.LogLevel,
	}
}
