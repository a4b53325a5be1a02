//go:build freebsd || dragonfly

package sysclock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// clockCall — сырой clock_getres/clock_settime: в x/sys/unix обёрток нет.
func clockCall(trap uintptr, clk int32, ts *Timespec) error {
	_, _, errno := unix.Syscall(trap, uintptr(clk), uintptr(unsafe.Pointer(ts)), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
