package main

import (
	"context"
	"flag"
	"fmt"
	"sync"

	"github.com/google/subcommands"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/sync/errgroup"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
	"github.com/shiwa/timecard-mini/tc-clock/pkg/wasmhost"
)

// wasmCmd реализует subcommands.Command для команды "wasm": поднимает host-модуль
// в wazero и опрашивает все доступные часы из гостевого модуля параллельно.
type wasmCmd struct{}

func (*wasmCmd) Name() string     { return "wasm" }
func (*wasmCmd) Synopsis() string { return "самопроверка host-модуля WebAssembly" }
func (*wasmCmd) Usage() string {
	return "wasm — вызвать clock_getres и clock_gettime для всех часов через гостевой модуль\n"
}

func (*wasmCmd) SetFlags(*flag.FlagSet) {}

func (*wasmCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	a := appFrom(args)
	lines, err := wasmSelfCheck(ctx, a)
	for _, l := range lines {
		fmt.Println(l)
	}
	if err != nil {
		return fail("wasm: %v", err)
	}
	return subcommands.ExitSuccess
}

// wasmSelfCheck возвращает по строке на каждые доступные часы. Каждый опрос —
// отдельная логическая нить рантайма со своим api.Function.
func wasmSelfCheck(ctx context.Context, a *app) ([]string, error) {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	module := a.cfg.Wasm.Module
	if _, err := wasmhost.Instantiate(ctx, r, a.eng, module); err != nil {
		return nil, fmt.Errorf("instantiate host module %s: %w", module, err)
	}
	guest, err := wasmhost.InstantiateShim(ctx, r, module, module+"_shim")
	if err != nil {
		return nil, fmt.Errorf("instantiate shim: %w", err)
	}

	var present []posixtime.Slot
	for _, s := range a.eng.Clocks().Slots() {
		if s.Present {
			present = append(present, s)
		}
	}
	lines := make([]string, len(present))

	var mu sync.Mutex
	var failed []string
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range present {
		i, s := i, s
		g.Go(func() error {
			return a.run(gctx, func() error {
				line, ok, err := probeGuest(gctx, guest, s)
				if err != nil {
					return err
				}
				lines[i] = line
				if !ok {
					mu.Lock()
					failed = append(failed, s.Kind.String())
					mu.Unlock()
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return lines, fmt.Errorf("clocks failed through the host module: %v", failed)
	}
	return lines, nil
}

func probeGuest(ctx context.Context, guest api.Module, s posixtime.Slot) (string, bool, error) {
	clk := api.EncodeI32(int32(s.ID))
	res, err := guest.ExportedFunction("clock_getres").Call(ctx, clk)
	if err != nil {
		return "", false, fmt.Errorf("clock_getres %s: %w", s.Kind, err)
	}
	now, err := guest.ExportedFunction("clock_gettime").Call(ctx, clk)
	if err != nil {
		return "", false, fmt.Errorf("clock_gettime %s: %w", s.Kind, err)
	}
	if e := api.DecodeI32(res[0]); e != 0 {
		return fmt.Sprintf("%-18s getres errno %d", s.Kind, e), false, nil
	}
	if e := api.DecodeI32(now[0]); e != 0 {
		return fmt.Sprintf("%-18s gettime errno %d", s.Kind, e), false, nil
	}
	resv := posixtime.TimeValue{Sec: int64(res[1]), Nsec: int64(res[2])}
	nowv := posixtime.TimeValue{Sec: int64(now[1]), Nsec: int64(now[2])}
	return fmt.Sprintf("%-18s res %-14s now %s", s.Kind, resv, nowv), true, nil
}
