//go:build !linux && !darwin

package settings

// syncFilesystem is a no-op where the platform has no global sync call; the
// settings file itself is still fsynced before rename.
func syncFilesystem() {}
