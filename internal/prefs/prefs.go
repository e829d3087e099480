// Package prefs handles kkconf's own preferences.
// Preferences are stored in ~/.config/kkshell/kkconf.toml.
package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/samber/oops"

	"github.com/kkshell/kkconf/internal/paths"
)

// Prefs holds kkconf preferences. They never touch the kkshell settings file.
type Prefs struct {
	Theme       string `toml:"theme"`
	LastSection string `toml:"last_section,omitempty"`
}

const defaultTheme = "Dracula"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return paths.DefaultPrefsPath
}

// Load reads preferences from path, or the default path when blank. A
// missing or unreadable file yields defaults.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Theme: defaultTheme}

	resolved, err := paths.Resolve(path, paths.DefaultPrefsPath)
	if err != nil {
		return prefs, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}, nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}

	return prefs, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	errb := oops.In("prefs").With("path", path)

	resolved, err := paths.Resolve(path, paths.DefaultPrefsPath)
	if err != nil {
		return errb.Wrapf(err, "resolve path")
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return errb.Wrapf(err, "create prefs dir")
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return errb.Wrapf(err, "marshal prefs")
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return errb.Wrapf(err, "write prefs")
	}

	return nil
}
