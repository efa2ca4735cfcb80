// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the docchat config directory
// (~/.docchat by default).
//
// Adapters:
//   - ConfigStore: TOML-based user settings (config.toml)
//   - PromptStore: editable prompt templates (prompts/*.txt)
//   - LoadAppConfig: application config (app.toml) plus an optional .env file
package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the config directory created under the user's home.
const DirName = ".docchat"

// DefaultDir returns ~/.docchat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// resolveDir returns dir, or the default directory when dir is empty.
func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DefaultDir()
}
