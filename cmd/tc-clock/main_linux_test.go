//go:build linux

package main

import (
	"context"
	"testing"

	"github.com/shiwa/timecard-mini/tc-clock/internal/config"
)

func TestWasmSelfCheck(t *testing.T) {
	a := newApp(config.Default())
	lines, err := wasmSelfCheck(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, s := range a.eng.Clocks().Slots() {
		if s.Present {
			n++
		}
	}
	if len(lines) != n {
		t.Errorf("got %d lines for %d clocks", len(lines), n)
	}
}
