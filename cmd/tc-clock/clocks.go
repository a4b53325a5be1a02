package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

// clocksCmd реализует subcommands.Command для команды "clocks".
type clocksCmd struct {
	format string
}

func (*clocksCmd) Name() string     { return "clocks" }
func (*clocksCmd) Synopsis() string { return "таблица часов платформы: наличие, разрешение, текущее время" }
func (*clocksCmd) Usage() string {
	return "clocks [-format text|yaml] — опросить все 18 слотов таблицы часов\n"
}

func (c *clocksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "text", "формат вывода: text или yaml")
}

func (c *clocksCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a := appFrom(args)

	var reports []posixtime.ClockReport
	if err := a.run(ctx, func() error {
		reports = a.eng.Probe()
		return nil
	}); err != nil {
		return fail("clocks: %v", err)
	}

	var err error
	switch c.format {
	case "text":
		err = writeReportsText(os.Stdout, reports)
	case "yaml":
		err = writeReportsYAML(os.Stdout, reports)
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err != nil {
		return fail("clocks: %v", err)
	}
	return subcommands.ExitSuccess
}

func writeReportsText(w io.Writer, reports []posixtime.ClockReport) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CLOCK\tID\tRESOLUTION\tNOW\tERROR")
	for _, r := range reports {
		if !r.Present {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t\n", r.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", r.Name, r.ID, r.Resolution, r.Now, r.Err)
	}
	return tw.Flush()
}

func writeReportsYAML(w io.Writer, reports []posixtime.ClockReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]posixtime.ClockReport{"clocks": reports}); err != nil {
		return err
	}
	return enc.Close()
}
