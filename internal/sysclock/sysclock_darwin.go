//go:build darwin

package sysclock

import "golang.org/x/sys/unix"

// На Darwin x/sys/unix даёт только clock_gettime (через libc); остальные вызовы — ENOSYS.
var clockIDs = map[string]int32{
	"CLOCK_REALTIME":           unix.CLOCK_REALTIME,
	"CLOCK_MONOTONIC":          unix.CLOCK_MONOTONIC,
	"CLOCK_PROCESS_CPUTIME_ID": unix.CLOCK_PROCESS_CPUTIME_ID,
	"CLOCK_THREAD_CPUTIME_ID":  unix.CLOCK_THREAD_CPUTIME_ID,
	"CLOCK_MONOTONIC_RAW":      unix.CLOCK_MONOTONIC_RAW,
}

// Gettime — clock_gettime(3).
func Gettime(clk int32, ts *Timespec) error {
	return unix.ClockGettime(clk, ts)
}

// Nanosleep — не поддерживается.
func Nanosleep(req, rem *Timespec) error {
	return unix.ENOSYS
}
