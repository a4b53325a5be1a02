// tc-clock — POSIX-часы и сон из командной строки: таблица часов платформы,
// чтение и установка времени, сон с прерыванием, проверка host-модуля WebAssembly.
//
// Использование:
//
//	tc-clock clocks [-format text|yaml]     — таблица часов, разрешение и текущее время
//	tc-clock gettime [clock]                — текущее время часов
//	tc-clock getres [clock]                 — разрешение часов
//	tc-clock settime <clock> <sec[.nsec]>   — установить часы (нужны привилегии)
//	tc-clock sleep [-clock c] [-abs] [-restart] <duration>
//	tc-clock wasm                           — самопроверка через host-модуль wazero
//
// Часы задаются именем (monotonic, CLOCK_BOOTTIME), числом clockid или путём /dev/ptpN.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/shiwa/timecard-mini/tc-clock/internal/config"
	"github.com/shiwa/timecard-mini/tc-clock/internal/logger"
	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

const defaultConfigPath = "tc-clock.yml"

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигу (по умолчанию "+defaultConfigPath+", если есть)")
	quiet := flag.Bool("quiet", false, "меньше вывода")
	logLevel := flag.String("log-level", "", "уровень логов: debug, info, warn, error (переопределяет config)")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(new(clocksCmd), "")
	subcommands.Register(new(gettimeCmd), "")
	subcommands.Register(new(getresCmd), "")
	subcommands.Register(new(settimeCmd), "")
	subcommands.Register(new(sleepCmd), "")
	subcommands.Register(new(wasmCmd), "diagnostics")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	if *quiet {
		cfg.Log.Quiet = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	logger.Quiet = cfg.Log.Quiet
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	status := subcommands.Execute(ctx, newApp(cfg))
	logger.Sync()
	os.Exit(int(status))
}

// loadConfig читает конфиг; без явного пути — tc-clock.yml, если он есть, иначе Default.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config.Default(), nil
		}
		path = defaultConfigPath
	}
	return config.Load(path)
}

// app — общее состояние команд: конфиг, движок и блокировка исполнения.
type app struct {
	cfg  *config.Config
	eng  *posixtime.Engine
	lock *posixtime.RuntimeLock // nil при runtime.scheduler: none
}

func newApp(cfg *config.Config) *app {
	a := &app{cfg: cfg}
	var opts []posixtime.Option
	if cfg.Runtime.Scheduler == config.SchedulerCooperative {
		a.lock = posixtime.NewRuntimeLock()
		opts = append(opts, posixtime.WithScheduler(a.lock))
	}
	a.eng = posixtime.New(nil, append(opts, posixtime.WithLogger(logger.L()))...)
	return a
}

// run выполняет fn как логическая нить рантайма: под блокировкой исполнения,
// если она включена. Движок отпускает её на время каждого вызова ядра.
func (a *app) run(ctx context.Context, fn func() error) error {
	if a.lock == nil {
		return fn()
	}
	return a.lock.Run(ctx, fn)
}

func appFrom(args []any) *app {
	return args[0].(*app)
}

// fail печатает ошибку команды и возвращает ExitFailure.
func fail(format string, args ...any) subcommands.ExitStatus {
	logger.Error(format, args...)
	return subcommands.ExitFailure
}
