package settings

import "golang.org/x/sys/unix"

func syncFilesystem() {
	_ = unix.Sync()
}
