package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/shiwa/timecard-mini/tc-clock/internal/config"
	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

func TestParseTimeValue(t *testing.T) {
	tests := []struct {
		in      string
		want    posixtime.TimeValue
		wantErr bool
	}{
		{"1700000000", posixtime.TimeValue{Sec: 1700000000}, false},
		{"1.5", posixtime.TimeValue{Sec: 1, Nsec: 500_000_000}, false},
		{"0.000000001", posixtime.TimeValue{Nsec: 1}, false},
		{"12.", posixtime.TimeValue{}, true},
		{"1.0000000001", posixtime.TimeValue{}, true},
		{"1.-5", posixtime.TimeValue{}, true},
		{"abc", posixtime.TimeValue{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeValue(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSleep(t *testing.T) {
	tests := []struct {
		in   string
		want posixtime.TimeValue
	}{
		{"250ms", posixtime.TimeValue{Nsec: 250_000_000}},
		{"1.5s", posixtime.TimeValue{Sec: 1, Nsec: 500_000_000}},
		{"2", posixtime.TimeValue{Sec: 2}},
		{"0.25", posixtime.TimeValue{Nsec: 250_000_000}},
	}
	for _, tt := range tests {
		got, err := parseSleep(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseSleep(%q) = %+v, %v; want %+v", tt.in, got, err, tt.want)
		}
	}
	if _, err := parseSleep("-1s"); err == nil {
		t.Error("negative duration must fail")
	}
}

func TestAddTime(t *testing.T) {
	got := addTime(posixtime.TimeValue{Sec: 10, Nsec: 900_000_000}, posixtime.TimeValue{Sec: 1, Nsec: 200_000_000})
	if want := (posixtime.TimeValue{Sec: 12, Nsec: 100_000_000}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveClock(t *testing.T) {
	cfg := config.Default()
	cfg.Clock.Default = "realtime"
	cfg.Clock.Fallback = nil
	a := newApp(cfg)
	rt := a.eng.Clocks().Realtime()

	tests := []struct {
		ref  string
		want posixtime.ClockID
	}{
		{"", rt},
		{"realtime", rt},
		{"CLOCK_REALTIME", rt},
		{"42", 42},
		{"-5", -5},
	}
	for _, tt := range tests {
		clk, err := a.resolveClock(tt.ref)
		if err != nil {
			t.Errorf("resolveClock(%q): %v", tt.ref, err)
			continue
		}
		if clk.id != tt.want {
			t.Errorf("resolveClock(%q) = %d, want %d", tt.ref, clk.id, tt.want)
		}
		if err := clk.close(); err != nil {
			t.Error(err)
		}
	}

	if _, err := a.resolveClock("sundial"); err == nil {
		t.Error("unknown clock name must fail")
	}
	if _, err := a.resolveClock("/dev/ptp-does-not-exist"); err == nil {
		t.Error("missing device must fail")
	}
}

func TestResolveClock_Fallback(t *testing.T) {
	cfg := config.Default()
	a := newApp(cfg)
	kinds, err := cfg.ClockKinds()
	if err != nil {
		t.Fatal(err)
	}
	want, ok := a.eng.Clocks().First(kinds...)
	if !ok {
		t.Skip("no configured clock on this platform")
	}
	clk, err := a.resolveClock("")
	if err != nil {
		t.Fatal(err)
	}
	if clk.id != want.ID || clk.name != want.Kind.String() {
		t.Errorf("got %+v, want %+v", clk, want)
	}
}

func TestAppRun_Cooperative(t *testing.T) {
	cfg := config.Default()
	a := newApp(cfg)
	if a.lock == nil {
		t.Fatal("cooperative scheduler must create a runtime lock")
	}
	// Движок отпускает и возвращает блокировку внутри run.
	err := a.run(context.Background(), func() error {
		_, err := a.eng.GetTime(a.eng.Clocks().Realtime())
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg.Runtime.Scheduler = config.SchedulerNone
	if newApp(cfg).lock != nil {
		t.Error("scheduler none must not create a runtime lock")
	}
}

func TestWriteReports(t *testing.T) {
	reports := []posixtime.ClockReport{
		{Kind: posixtime.Realtime, Name: "realtime", ID: 0, Present: true,
			Resolution: posixtime.TimeValue{Nsec: 1}, Now: posixtime.TimeValue{Sec: 5}},
		{Kind: posixtime.Prof, Name: "prof"},
	}

	var text bytes.Buffer
	if err := writeReportsText(&text, reports); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "CLOCK") {
		t.Fatalf("text output:\n%s", text.String())
	}
	if !strings.Contains(lines[1], "0.000000001s") || !strings.Contains(lines[2], "-") {
		t.Errorf("text output:\n%s", text.String())
	}

	var out bytes.Buffer
	if err := writeReportsYAML(&out, reports); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Clocks []posixtime.ClockReport `yaml:"clocks"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Clocks) != 2 || decoded.Clocks[0].Now.Sec != 5 || decoded.Clocks[1].Present {
		t.Errorf("yaml output:\n%s", out.String())
	}
}
