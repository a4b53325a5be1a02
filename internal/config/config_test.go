package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tc-clock.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Full(t *testing.T) {
	body := `
log:
  level: warn
  format: json
  quiet: true
runtime:
  scheduler: none
clock:
  default: CLOCK_MONOTONIC_RAW
  fallback: []
sleep:
  restart: true
wasm:
  module: env_time
`
	c, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Log:     LogConfig{Level: "warn", Format: "json", Quiet: true},
		Runtime: RuntimeConfig{Scheduler: SchedulerNone},
		Clock:   ClockConfig{Default: "CLOCK_MONOTONIC_RAW", Fallback: []string{}},
		Sleep:   SleepConfig{Restart: true},
		Wasm:    WasmConfig{Module: "env_time"},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	kinds, err := c.ClockKinds()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]posixtime.Kind{posixtime.MonotonicRaw}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "log: [", "parse config"},
		{"bad scheduler", "runtime:\n  scheduler: greedy\n", "runtime.scheduler"},
		{"bad clock", "clock:\n  default: tai\n", "unknown clock kind"},
		{"bad fallback", "clock:\n  fallback: [monotonic, sundial]\n", "sundial"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want not-exist", err)
	}
}
