//go:build solaris

package sysclock

import "golang.org/x/sys/unix"

// На Solaris CLOCK_REALTIME равен 3, а не 0.
var clockIDs = map[string]int32{
	"CLOCK_REALTIME":           unix.CLOCK_REALTIME,
	"CLOCK_MONOTONIC":          unix.CLOCK_MONOTONIC,
	"CLOCK_PROCESS_CPUTIME_ID": unix.CLOCK_PROCESS_CPUTIME_ID,
	"CLOCK_THREAD_CPUTIME_ID":  unix.CLOCK_THREAD_CPUTIME_ID,
	"CLOCK_PROF":               unix.CLOCK_PROF,
	"CLOCK_VIRTUAL":            unix.CLOCK_VIRTUAL,
}
