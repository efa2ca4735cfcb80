package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AppConfigFileName is the application config inside the config directory.
const AppConfigFileName = "app.toml"

// LoadAppConfig reads configDir/app.toml over the defaults. When the
// config names an env file, it is loaded into the process environment
// without overriding variables that are already set. The resulting
// environment is captured for AppConfig.GetEnv.
func LoadAppConfig(configDir string) (domain.AppConfig, error) {
	cfg := domain.DefaultAppConfig()

	dir, err := resolveDir(configDir)
	if err != nil {
		return cfg, err
	}

	path := filepath.Join(dir, AppConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return cfg, err
	}
	cfg.CaptureEnv(os.Environ())
	return cfg, nil
}

// LoadEnvFile loads a dotenv file. An empty path or a missing file is
// not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// WriteAppConfig writes cfg to configDir/app.toml.
func WriteAppConfig(configDir string, cfg domain.AppConfig) error {
	dir, err := resolveDir(configDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode app config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, AppConfigFileName), data, 0o600)
}
