package settings

import "golang.org/x/sys/unix"

// syncFilesystem flushes filesystem buffers after a directory is created.
func syncFilesystem() {
	unix.Sync()
}
