//go:build linux

package wasmhost

import (
	"os"
	"testing"
	"time"

	"github.com/tetratelabs/wazero/api"
	"golang.org/x/sys/unix"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

func TestGetres(t *testing.T) {
	mod, eng := newModule(t)
	for _, s := range eng.Clocks().Slots() {
		if !s.Present {
			continue
		}
		res := call(t, mod, "clock_getres", api.EncodeI32(int32(s.ID)))
		if e := api.DecodeI32(res[0]); e != 0 {
			t.Errorf("%v: getres errno = %d", s.Kind, e)
		}
		if res[1] == 0 && res[2] == 0 {
			t.Errorf("%v: zero resolution", s.Kind)
		}
	}
}

func TestNanosleep(t *testing.T) {
	mod, _ := newModule(t)
	start := time.Now()
	res := call(t, mod, "nanosleep", api.EncodeI64(0), api.EncodeI64(int64(10*time.Millisecond)))
	if e := api.DecodeI32(res[0]); e != 0 {
		t.Fatalf("errno = %d", e)
	}
	if res[1] != 0 || res[2] != 0 || res[3] != 0 {
		t.Errorf("uninterrupted sleep returned %v", res[1:])
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("slept %v", elapsed)
	}

	res = call(t, mod, "nanosleep", api.EncodeI64(0), api.EncodeI64(1_000_000_000))
	if e := api.DecodeI32(res[0]); e != int32(unix.EINVAL) {
		t.Errorf("errno = %d, want EINVAL", e)
	}
}

func TestClockNanosleep(t *testing.T) {
	mod, eng := newModule(t)
	mono, _ := eng.Clocks().Lookup(posixtime.Monotonic)
	clk := api.EncodeI32(int32(mono))

	res := call(t, mod, "clock_nanosleep", clk, api.EncodeI32(0), api.EncodeI64(0), api.EncodeI64(int64(5*time.Millisecond)))
	if api.DecodeI32(res[0]) != 0 || res[1] != 0 {
		t.Errorf("relative sleep: %v", res)
	}

	res = call(t, mod, "clock_nanosleep", clk, api.EncodeI32(1), api.EncodeI64(0), api.EncodeI64(1))
	if api.DecodeI32(res[0]) != 0 || res[1] != 0 {
		t.Errorf("absolute sleep in the past: %v", res)
	}
}

func TestSettime(t *testing.T) {
	mod, eng := newModule(t)
	mono, _ := eng.Clocks().Lookup(posixtime.Monotonic)
	res := call(t, mod, "clock_settime", api.EncodeI32(int32(mono)), api.EncodeI64(1), api.EncodeI64(0))
	if e := api.DecodeI32(res[0]); e != int32(unix.EINVAL) {
		t.Errorf("monotonic settime errno = %d, want EINVAL", e)
	}

	if os.Geteuid() == 0 {
		return
	}
	now, err := eng.GetTime(eng.Clocks().Realtime())
	if err != nil {
		t.Fatal(err)
	}
	res = call(t, mod, "clock_settime", api.EncodeI32(int32(eng.Clocks().Realtime())), api.EncodeI64(now.Sec), api.EncodeI64(now.Nsec))
	if e := api.DecodeI32(res[0]); e != int32(unix.EPERM) {
		t.Errorf("realtime settime errno = %d, want EPERM", e)
	}
}
