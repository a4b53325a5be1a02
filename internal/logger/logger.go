// Package logger — единый вывод логов tc-clock с учётом quiet.
// По умолчанию логгер пустой (zap.NewNop); Init подключает настоящий вывод.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Quiet при true отключает информационные сообщения (Info); Error выводится всегда.
var Quiet bool

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Init создаёт zap-логгер с уровнем level ("debug", "info", ...) и форматом
// format ("console" или "json") и делает его текущим.
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	var cfg zap.Config
	switch format {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return fmt.Errorf("log format %q: want console or json", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Set(l.Named("tc-clock"))
	return nil
}

// Set подменяет текущий логгер (nil — пустой логгер).
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

// L возвращает текущий логгер.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync сбрасывает буферы логгера.
func Sync() error {
	return L().Sync()
}

// Debug выводит отладочное сообщение.
func Debug(format string, args ...interface{}) {
	L().Sugar().Debugf(format, args...)
}

// Info выводит сообщение, если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	L().Sugar().Infof(format, args...)
}

// Error выводит сообщение об ошибке всегда.
func Error(format string, args ...interface{}) {
	L().Sugar().Errorf(format, args...)
}
