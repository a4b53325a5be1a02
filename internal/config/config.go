package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

// Режимы взаимодействия с планировщиком вызывающего рантайма.
const (
	SchedulerCooperative = "cooperative" // posixtime.RuntimeLock
	SchedulerNone        = "none"        // posixtime.NopScheduler
)

// Config — конфигурация tc-clock
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Clock   ClockConfig   `yaml:"clock"`
	Sleep   SleepConfig   `yaml:"sleep"`
	Wasm    WasmConfig    `yaml:"wasm"`
}

// LogConfig — уровень и формат логов (zap)
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console или json
	Quiet  bool   `yaml:"quiet"`
}

// RuntimeConfig — как движок отпускает блокировку исполнения
type RuntimeConfig struct {
	Scheduler string `yaml:"scheduler"` // cooperative | none
}

// ClockConfig — часы по умолчанию для команд и запасной список,
// если часов по умолчанию на платформе нет
type ClockConfig struct {
	Default  string   `yaml:"default"`
	Fallback []string `yaml:"fallback"`
}

// SleepConfig — досыпать ли остаток после прерывания сигналом
type SleepConfig struct {
	Restart bool `yaml:"restart"`
}

// WasmConfig — имя host-модуля для гостей WebAssembly
type WasmConfig struct {
	Module string `yaml:"module"`
}

// Default возвращает конфиг по умолчанию
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Runtime: RuntimeConfig{Scheduler: SchedulerCooperative},
		Clock: ClockConfig{
			Default:  "monotonic",
			Fallback: []string{"boottime", "monotonic_raw", "monotonic", "realtime"},
		},
		Wasm: WasmConfig{Module: "posix_time"},
	}
}

// Load читает конфиг из YAML и проверяет его
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}

// Validate проверяет имена планировщика и часов
func (c *Config) Validate() error {
	switch c.Runtime.Scheduler {
	case SchedulerCooperative, SchedulerNone:
	default:
		return fmt.Errorf("runtime.scheduler: unknown mode %q", c.Runtime.Scheduler)
	}
	if _, err := c.ClockKinds(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// ClockKinds возвращает часы в порядке предпочтения: default, затем fallback.
func (c *Config) ClockKinds() ([]posixtime.Kind, error) {
	names := append([]string{c.Clock.Default}, c.Clock.Fallback...)
	kinds := make([]posixtime.Kind, 0, len(names))
	for _, n := range names {
		k, err := posixtime.ParseKind(n)
		if err != nil {
			return nil, fmt.Errorf("clock: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Runtime.Scheduler == "" {
		c.Runtime.Scheduler = d.Runtime.Scheduler
	}
	if c.Clock.Default == "" {
		c.Clock.Default = d.Clock.Default
	}
	// Пустой fallback допустим только явно: fallback: []
	if c.Clock.Fallback == nil {
		c.Clock.Fallback = d.Clock.Fallback
	}
	if c.Wasm.Module == "" {
		c.Wasm.Module = d.Wasm.Module
	}
}
