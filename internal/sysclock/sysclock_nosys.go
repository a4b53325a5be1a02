//go:build darwin || netbsd || openbsd || solaris

package sysclock

import "golang.org/x/sys/unix"

// x/sys/unix не даёт здесь clock_getres, clock_settime и clock_nanosleep,
// а сырые системные вызовы на этих ОС идут только через libc.

// Getres — не поддерживается.
func Getres(clk int32, ts *Timespec) error {
	return unix.ENOSYS
}

// Settime — не поддерживается.
func Settime(clk int32, ts *Timespec) error {
	return unix.ENOSYS
}

// ClockNanosleep — не поддерживается.
func ClockNanosleep(clk int32, abs bool, req, rem *Timespec) error {
	return unix.ENOSYS
}
