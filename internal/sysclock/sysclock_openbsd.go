//go:build openbsd

package sysclock

import "golang.org/x/sys/unix"

var clockIDs = map[string]int32{
	"CLOCK_REALTIME":           unix.CLOCK_REALTIME,
	"CLOCK_MONOTONIC":          unix.CLOCK_MONOTONIC,
	"CLOCK_PROCESS_CPUTIME_ID": unix.CLOCK_PROCESS_CPUTIME_ID,
	"CLOCK_THREAD_CPUTIME_ID":  unix.CLOCK_THREAD_CPUTIME_ID,
	"CLOCK_BOOTTIME":           unix.CLOCK_BOOTTIME,
	"CLOCK_UPTIME":             unix.CLOCK_UPTIME,
}
