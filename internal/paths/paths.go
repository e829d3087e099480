// Package paths resolves the user-relative file locations used by kkconf.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
)

const (
	// DefaultSettingsPath is where kkshell keeps its INI settings.
	DefaultSettingsPath = "~/.config/kkshell/ini/settings.ini"
	// DefaultPrefsPath holds kkconf's own preferences (theme).
	DefaultPrefsPath = "~/.config/kkshell/kkconf.toml"
	// LogFileName is written next to the settings file while the TUI runs.
	LogFileName = "kkconf.log"
)

// Home returns the home directory, preferring $HOME and falling back to
// os.UserHomeDir. The bool is false when neither yields a directory.
func Home() (string, bool) {
	if home, ok := os.LookupEnv("HOME"); ok && strings.TrimSpace(home) != "" {
		return home, true
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, true
	}
	return "", false
}

// Expand replaces a leading "~" with the home directory and returns an
// absolute path. Without a home directory the tilde is left in place.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", oops.In("paths").Errorf("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		if home, ok := Home(); ok {
			trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", oops.In("paths").With("path", path).Wrapf(err, "make path absolute")
	}
	return abs, nil
}

// Resolve expands path, or fallback when path is blank.
func Resolve(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return Expand(fallback)
	}
	return Expand(path)
}

// MustExpand is Expand that returns the input unchanged on failure.
func MustExpand(path string) string {
	expanded, err := Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
