package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/shiwa/timecard-mini/tc-clock/internal/logger"
	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

// sleepCmd реализует subcommands.Command для команды "sleep".
type sleepCmd struct {
	clock   string
	abs     bool
	restart bool
}

func (*sleepCmd) Name() string     { return "sleep" }
func (*sleepCmd) Synopsis() string { return "сон на длительность (nanosleep / clock_nanosleep)" }
func (*sleepCmd) Usage() string {
	return `sleep [-clock c] [-abs] [-restart] <duration>
  без -clock и -abs — nanosleep; с -abs дедлайн = текущее время часов + duration.
`
}

func (c *sleepCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.clock, "clock", "", "часы для clock_nanosleep (имя, clockid или /dev/ptpN)")
	f.BoolVar(&c.abs, "abs", false, "спать до абсолютного дедлайна (TIMER_ABSTIME)")
	f.BoolVar(&c.restart, "restart", false, "после прерывания сигналом досыпать остаток (или sleep.restart в конфиге)")
}

func (c *sleepCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a := appFrom(args)
	d, err := parseSleep(f.Arg(0))
	if err != nil {
		return fail("sleep: %v", err)
	}
	restart := c.restart || a.cfg.Sleep.Restart

	start := time.Now()
	var (
		out      posixtime.SleepOutcome
		restarts int
	)
	if c.clock == "" && !c.abs {
		err = a.run(ctx, func() (err error) {
			if restart {
				restarts, err = posixtime.SleepFull(ctx, a.eng, d)
				return err
			}
			out, err = a.eng.Sleep(d)
			return err
		})
	} else {
		clk, rerr := a.resolveClock(c.clock)
		if rerr != nil {
			return fail("sleep: %v", rerr)
		}
		defer clk.close()
		err = a.run(ctx, func() error {
			req := d
			if c.abs {
				now, err := a.eng.GetTime(clk.id)
				if err != nil {
					return err
				}
				req = addTime(now, d)
				logger.Debug("sleep until %s on %s", req, clk.name)
			}
			var err error
			if restart {
				restarts, err = posixtime.SleepOnFull(ctx, a.eng, clk.id, req, c.abs)
				return err
			}
			out, err = a.eng.SleepOn(clk.id, req, c.abs)
			return err
		})
	}
	if err != nil {
		return fail("sleep: %v", err)
	}

	elapsed := time.Since(start)
	switch {
	case out.Interrupted && c.abs:
		fmt.Printf("interrupted after %v\n", elapsed)
	case out.Interrupted:
		fmt.Printf("interrupted after %v, remaining %s\n", elapsed, out.Remaining)
	case restarts > 0:
		fmt.Printf("slept %v (%d restarts)\n", elapsed, restarts)
	default:
		logger.Info("slept %v", elapsed)
	}
	return subcommands.ExitSuccess
}
