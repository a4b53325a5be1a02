//go:build !linux

package sysclock

import (
	"os"

	"golang.org/x/sys/unix"
)

// OpenDevice — динамические часы поддерживаются только на Linux.
func OpenDevice(path string) (int32, *os.File, error) {
	return 0, nil, unix.ENOTSUP
}
