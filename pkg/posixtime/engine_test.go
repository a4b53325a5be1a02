package posixtime

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// countingScheduler записывает последовательность Detach/Attach.
type countingScheduler struct {
	calls []string
}

func (s *countingScheduler) Detach() { s.calls = append(s.calls, "detach") }
func (s *countingScheduler) Attach() { s.calls = append(s.calls, "attach") }

func TestEngine_SchedulerPairing(t *testing.T) {
	env := Initialize()
	rt := env.Clocks.Realtime()

	tests := []struct {
		name string
		call func(e *Engine)
	}{
		{"gettime", func(e *Engine) { _, _ = e.GetTime(rt) }},
		{"getres", func(e *Engine) { _, _ = e.GetResolution(rt) }},
		{"gettime invalid clock", func(e *Engine) { _, _ = e.GetTime(ClockID(1 << 20)) }},
		{"settime invalid clock", func(e *Engine) { _ = e.SetTime(ClockID(1<<20), TimeValue{}) }},
		{"sleep zero", func(e *Engine) { _, _ = e.Sleep(TimeValue{}) }},
		{"sleep invalid", func(e *Engine) { _, _ = e.Sleep(TimeValue{Nsec: -1}) }},
		{"sleep_on relative zero", func(e *Engine) { _, _ = e.SleepOn(rt, TimeValue{}, false) }},
		{"sleep_on past deadline", func(e *Engine) { _, _ = e.SleepOn(rt, TimeValue{Nsec: 1}, true) }},
		{"sleep_on invalid clock", func(e *Engine) { _, _ = e.SleepOn(ClockID(1<<20), TimeValue{}, false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &countingScheduler{}
			e := New(env, WithScheduler(s), WithLogger(zap.NewNop()))
			tt.call(e)
			want := []string{"detach", "attach"}
			if diff := cmp.Diff(want, s.calls); diff != "" {
				t.Errorf("scheduler calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Defaults(t *testing.T) {
	e := New(nil, WithScheduler(nil), WithLogger(nil))
	if e.Env() == nil {
		t.Fatal("New(nil) must build an environment")
	}
	if _, ok := e.sched.(NopScheduler); !ok {
		t.Errorf("default scheduler = %T", e.sched)
	}
	if e.log == nil {
		t.Error("logger must not be nil")
	}
	if e.Clocks() != &e.Env().Clocks {
		t.Error("Clocks must point into Env")
	}
}

func TestEngine_GetTimeRealtime(t *testing.T) {
	e := New(nil)
	tv, err := e.GetTime(e.Clocks().Realtime())
	if err != nil {
		t.Fatal(err)
	}
	if !tv.Valid() || tv.Sec <= 0 {
		t.Errorf("realtime = %v", tv)
	}
}

func TestEngine_ProbeCoversTable(t *testing.T) {
	e := New(nil)
	reports := e.Probe()
	if len(reports) != NumKinds {
		t.Fatalf("Probe returned %d reports", len(reports))
	}
	for i, r := range reports {
		if r.Kind != Kind(i) || r.Name != Kind(i).String() {
			t.Errorf("report %d: %+v", i, r)
		}
	}
	if !reports[Realtime].Present {
		t.Error("realtime must be reported present")
	}
}

func TestEngine_RuntimeLockMustBeHeld(t *testing.T) {
	l := NewRuntimeLock()
	e := New(nil, WithScheduler(l), WithLogger(zap.NewNop()))
	rt := e.Clocks().Realtime()

	err := l.Run(context.Background(), func() error {
		_, err := e.GetTime(rt)
		return err
	})
	if err != nil {
		t.Fatalf("GetTime under lock: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("GetTime without holding the lock must panic")
		}
	}()
	_, _ = e.GetTime(rt)
}
