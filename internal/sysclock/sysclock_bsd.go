//go:build netbsd || openbsd || solaris

package sysclock

import "golang.org/x/sys/unix"

// Gettime — clock_gettime(2).
func Gettime(clk int32, ts *Timespec) error {
	return unix.ClockGettime(clk, ts)
}

// Nanosleep — nanosleep(2).
func Nanosleep(req, rem *Timespec) error {
	return unix.Nanosleep(req, rem)
}
