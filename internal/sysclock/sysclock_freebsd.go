//go:build freebsd

package sysclock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

var clockIDs = map[string]int32{
	"CLOCK_REALTIME":           unix.CLOCK_REALTIME,
	"CLOCK_MONOTONIC":          unix.CLOCK_MONOTONIC,
	"CLOCK_PROCESS_CPUTIME_ID": unix.CLOCK_PROCESS_CPUTIME_ID,
	"CLOCK_THREAD_CPUTIME_ID":  unix.CLOCK_THREAD_CPUTIME_ID,
	"CLOCK_MONOTONIC_FAST":     unix.CLOCK_MONOTONIC_FAST,
	"CLOCK_MONOTONIC_PRECISE":  unix.CLOCK_MONOTONIC_PRECISE,
	"CLOCK_PROF":               unix.CLOCK_PROF,
	"CLOCK_REALTIME_FAST":      unix.CLOCK_REALTIME_FAST,
	"CLOCK_REALTIME_PRECISE":   unix.CLOCK_REALTIME_PRECISE,
	"CLOCK_SECOND":             unix.CLOCK_SECOND,
	"CLOCK_UPTIME":             unix.CLOCK_UPTIME,
	"CLOCK_UPTIME_FAST":        unix.CLOCK_UPTIME_FAST,
	"CLOCK_UPTIME_PRECISE":     unix.CLOCK_UPTIME_PRECISE,
	"CLOCK_VIRTUAL":            unix.CLOCK_VIRTUAL,
}

// Gettime — clock_gettime(2).
func Gettime(clk int32, ts *Timespec) error {
	return unix.ClockGettime(clk, ts)
}

// Getres — clock_getres(2).
func Getres(clk int32, ts *Timespec) error {
	return clockCall(unix.SYS_CLOCK_GETRES, clk, ts)
}

// Settime — clock_settime(2). Требует root.
func Settime(clk int32, ts *Timespec) error {
	return clockCall(unix.SYS_CLOCK_SETTIME, clk, ts)
}

// Nanosleep — nanosleep(2).
func Nanosleep(req, rem *Timespec) error {
	return unix.Nanosleep(req, rem)
}

// ClockNanosleep — clock_nanosleep(2).
func ClockNanosleep(clk int32, abs bool, req, rem *Timespec) error {
	flags := 0
	if abs {
		flags = unix.TIMER_ABSTIME
	}
	_, _, errno := unix.Syscall6(unix.SYS_CLOCK_NANOSLEEP, uintptr(clk), uintptr(flags),
		uintptr(unsafe.Pointer(req)), uintptr(unsafe.Pointer(rem)), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
