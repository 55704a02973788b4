//go:build unix

package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

// openTTY opens the terminal for writing without making it our controlling terminal.
func openTTY(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|unix.O_NOCTTY, 0)
}
