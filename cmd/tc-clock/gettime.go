package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/shiwa/timecard-mini/tc-clock/internal/logger"
	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

// gettimeCmd реализует subcommands.Command для команды "gettime".
type gettimeCmd struct {
	rfc3339 bool
}

func (*gettimeCmd) Name() string     { return "gettime" }
func (*gettimeCmd) Synopsis() string { return "текущее время часов (clock_gettime)" }
func (*gettimeCmd) Usage() string {
	return "gettime [-rfc3339] [clock] — без clock берутся часы из конфига\n"
}

func (c *gettimeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.rfc3339, "rfc3339", false, "печатать как дату RFC 3339 (для realtime)")
}

func (c *gettimeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a := appFrom(args)
	clk, err := a.resolveClock(f.Arg(0))
	if err != nil {
		return fail("gettime: %v", err)
	}
	defer clk.close()

	var tv posixtime.TimeValue
	if err := a.run(ctx, func() (err error) {
		tv, err = a.eng.GetTime(clk.id)
		return err
	}); err != nil {
		return fail("gettime %s: %v", clk.name, err)
	}
	if c.rfc3339 {
		fmt.Println(tv.Time().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
	} else {
		fmt.Printf("%s %s\n", clk.name, tv)
	}
	return subcommands.ExitSuccess
}

// getresCmd реализует subcommands.Command для команды "getres".
type getresCmd struct {
	measure bool
}

func (*getresCmd) Name() string     { return "getres" }
func (*getresCmd) Synopsis() string { return "разрешение часов (clock_getres)" }
func (*getresCmd) Usage() string {
	return "getres [-measure] [clock] — без clock берутся часы из конфига\n"
}

func (c *getresCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.measure, "measure", false, "дополнительно измерить наблюдаемый шаг серией clock_gettime")
}

func (c *getresCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a := appFrom(args)
	clk, err := a.resolveClock(f.Arg(0))
	if err != nil {
		return fail("getres: %v", err)
	}
	defer clk.close()

	err = a.run(ctx, func() error {
		res, err := a.eng.GetResolution(clk.id)
		if err != nil {
			return err
		}
		fmt.Printf("%s resolution %s\n", clk.name, res)
		if !c.measure {
			return nil
		}
		g, err := a.eng.MeasureGranularity(clk.id)
		if err != nil {
			return err
		}
		fmt.Printf("%s observed step %v\n", clk.name, g)
		return nil
	})
	if err != nil {
		return fail("getres %s: %v", clk.name, err)
	}
	return subcommands.ExitSuccess
}

// settimeCmd реализует subcommands.Command для команды "settime".
type settimeCmd struct{}

func (*settimeCmd) Name() string     { return "settime" }
func (*settimeCmd) Synopsis() string { return "установить часы (clock_settime), нужны привилегии" }
func (*settimeCmd) Usage() string {
	return "settime <clock> <sec[.frac]> — например: settime realtime 1700000000.5\n"
}

func (*settimeCmd) SetFlags(*flag.FlagSet) {}

func (*settimeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a := appFrom(args)
	tv, err := parseTimeValue(f.Arg(1))
	if err != nil {
		return fail("settime: %v", err)
	}
	clk, err := a.resolveClock(f.Arg(0))
	if err != nil {
		return fail("settime: %v", err)
	}
	defer clk.close()

	if err := a.run(ctx, func() error {
		return a.eng.SetTime(clk.id, tv)
	}); err != nil {
		return fail("settime %s: %v", clk.name, err)
	}
	logger.Info("%s установлены в %s", clk.name, tv)
	return subcommands.ExitSuccess
}
