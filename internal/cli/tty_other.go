//go:build !unix

package cli

import "os"

func openTTY(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY, 0)
}
