//go:build solaris

package sysclock

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestLookup(t *testing.T) {
	checkLookup(t, map[string]int32{
		"CLOCK_REALTIME":           unix.CLOCK_REALTIME,
		"CLOCK_MONOTONIC":          unix.CLOCK_MONOTONIC,
		"CLOCK_PROCESS_CPUTIME_ID": unix.CLOCK_PROCESS_CPUTIME_ID,
		"CLOCK_THREAD_CPUTIME_ID":  unix.CLOCK_THREAD_CPUTIME_ID,
		"CLOCK_PROF":               unix.CLOCK_PROF,
		"CLOCK_VIRTUAL":            unix.CLOCK_VIRTUAL,
	}, []string{"CLOCK_BOOTTIME", "CLOCK_UPTIME"})
}

func TestRealtimeIsNotZero(t *testing.T) {
	if id, _ := Lookup("CLOCK_REALTIME"); id != 3 {
		t.Errorf("CLOCK_REALTIME = %d, want 3", id)
	}
}
