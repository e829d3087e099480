// Package defaults carries the settings document shipped with kkshell. It is
// compiled in so a fresh install always has something to seed from.
package defaults

import (
	_ "embed"
)

//go:embed settings.ini
var settingsINI []byte

// Settings returns a copy of the embedded default settings document.
func Settings() []byte {
	out := make([]byte, len(settingsINI))
	copy(out, settingsINI)
	return out
}
