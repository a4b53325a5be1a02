// Package posixtime — высокоточные POSIX-часы и сон для вызывающего рантайма.
//
// Состав:
//   - Table/Env — какие часы определены на платформе (строится один раз, Initialize);
//   - TimeValue — преобразование в struct timespec и обратно (копирование полей);
//   - Error — перевод errno в ошибку с тегом пространства;
//   - Engine — clock_gettime, clock_getres, clock_settime, nanosleep, clock_nanosleep.
//
// Каждый вызов ядра выполняется вне блокировки исполнения рантайма: Engine вызывает
// Scheduler.Detach перед ним и Scheduler.Attach после него на любом пути выхода.
// Прерывание сна сигналом (EINTR) — не ошибка, а SleepOutcome с Interrupted = true
// и остатком, который сообщило ядро. Повторов движок не делает (см. SleepFull).
package posixtime

import (
	"errors"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/shiwa/timecard-mini/tc-clock/internal/logger"
	"github.com/shiwa/timecard-mini/tc-clock/internal/sysclock"
)

// SleepOutcome — результат сна. При обычном завершении Remaining нулевой.
type SleepOutcome struct {
	Interrupted bool
	Remaining   TimeValue
}

// Engine выполняет блокирующие вызовы времени. Безопасен для одновременного
// использования: общего изменяемого состояния нет, Env только читается.
type Engine struct {
	env   *Env
	sched Scheduler
	log   *zap.Logger
}

// Option настраивает Engine.
type Option func(*Engine)

// WithScheduler задаёт планировщик вызывающего рантайма (по умолчанию NopScheduler).
// С RuntimeLock каждый вызов движка должен идти под этой блокировкой
// (RuntimeLock.Run или Enter/Leave), иначе Detach паникует.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithLogger задаёт логгер (по умолчанию logger.L()).
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New создаёт Engine над окружением env; при nil окружение строится через Initialize.
func New(env *Env, opts ...Option) *Engine {
	if env == nil {
		env = Initialize()
	}
	e := &Engine{
		env:   env,
		sched: NopScheduler{},
		log:   logger.L(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Env возвращает окружение движка.
func (e *Engine) Env() *Env {
	return e.env
}

// Clocks возвращает таблицу часов.
func (e *Engine) Clocks() *Table {
	return &e.env.Clocks
}

// GetTime читает текущее время часов clk (clock_gettime).
func (e *Engine) GetTime(clk ClockID) (TimeValue, error) {
	var ts sysclock.Timespec
	err := e.blocking(func() error {
		return sysclock.Gettime(int32(clk), &ts)
	})
	return e.timeResult("clock_gettime", clk, ts, err)
}

// GetResolution читает разрешение часов clk (clock_getres).
func (e *Engine) GetResolution(clk ClockID) (TimeValue, error) {
	var ts sysclock.Timespec
	err := e.blocking(func() error {
		return sysclock.Getres(int32(clk), &ts)
	})
	return e.timeResult("clock_getres", clk, ts, err)
}

// SetTime устанавливает часы clk (clock_settime). Обычно требует привилегий;
// без них возвращает Error с EPERM.
func (e *Engine) SetTime(clk ClockID, t TimeValue) error {
	ts := t.Timespec()
	err := e.blocking(func() error {
		return sysclock.Settime(int32(clk), &ts)
	})
	if err != nil {
		return e.fail("clock_settime", clk, err)
	}
	return nil
}

// Sleep спит d относительно текущего момента (nanosleep).
func (e *Engine) Sleep(d TimeValue) (SleepOutcome, error) {
	req := d.Timespec()
	var rem sysclock.Timespec
	err := e.blocking(func() error {
		return sysclock.Nanosleep(&req, &rem)
	})
	return e.sleepResult("nanosleep", e.env.Clocks.Realtime(), rem, err)
}

// SleepOn спит по часам clk (clock_nanosleep). При abs = true d — абсолютный
// дедлайн на этих часах (TIMER_ABSTIME), иначе — смещение от текущего момента.
// Для абсолютного сна ядро не сообщает остаток, и при прерывании Remaining нулевой.
func (e *Engine) SleepOn(clk ClockID, d TimeValue, abs bool) (SleepOutcome, error) {
	req := d.Timespec()
	var rem sysclock.Timespec
	err := e.blocking(func() error {
		return sysclock.ClockNanosleep(int32(clk), abs, &req, &rem)
	})
	return e.sleepResult("clock_nanosleep", clk, rem, err)
}

// MeasureGranularity измеряет наблюдаемый шаг часов clk серией clock_gettime.
func (e *Engine) MeasureGranularity(clk ClockID) (time.Duration, error) {
	var g int64
	err := e.blocking(func() error {
		var err error
		g, err = sysclock.Granularity(int32(clk))
		return err
	})
	if err != nil {
		return 0, e.fail("clock_gettime", clk, err)
	}
	return time.Duration(g), nil
}

// ClockReport — состояние одного слота таблицы: разрешение и текущее время.
type ClockReport struct {
	Kind       Kind      `yaml:"-"`
	Name       string    `yaml:"name"`
	ID         ClockID   `yaml:"id"`
	Present    bool      `yaml:"present"`
	Resolution TimeValue `yaml:"resolution"`
	Now        TimeValue `yaml:"now"`
	Err        string    `yaml:"error,omitempty"`
}

// Probe обходит таблицу и для каждых доступных часов делает clock_getres, затем clock_gettime.
func (e *Engine) Probe() []ClockReport {
	slots := e.env.Clocks.Slots()
	out := make([]ClockReport, 0, len(slots))
	for _, s := range slots {
		r := ClockReport{Kind: s.Kind, Name: s.Kind.String(), ID: s.ID, Present: s.Present}
		if s.Present {
			var err error
			if r.Resolution, err = e.GetResolution(s.ID); err == nil {
				r.Now, err = e.GetTime(s.ID)
			}
			if err != nil {
				r.Err = err.Error()
			}
		}
		out = append(out, r)
	}
	return out
}

// blocking выполняет вызов ядра вне блокировки исполнения рантайма.
func (e *Engine) blocking(call func() error) error {
	e.sched.Detach()
	defer e.sched.Attach()
	return call()
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeInterrupted
	outcomeFailed
)

func classify(err error, sleeping bool) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case sleeping && errors.Is(err, unix.EINTR):
		return outcomeInterrupted
	default:
		return outcomeFailed
	}
}

func (e *Engine) timeResult(op string, clk ClockID, ts sysclock.Timespec, err error) (TimeValue, error) {
	if classify(err, false) == outcomeFailed {
		return TimeValue{}, e.fail(op, clk, err)
	}
	return FromTimespec(ts), nil
}

func (e *Engine) sleepResult(op string, clk ClockID, rem sysclock.Timespec, err error) (SleepOutcome, error) {
	switch classify(err, true) {
	case outcomeInterrupted:
		out := SleepOutcome{Interrupted: true, Remaining: FromTimespec(rem)}
		e.log.Debug("sleep interrupted",
			zap.String("op", op),
			zap.Int32("clock", int32(clk)),
			zap.Stringer("remaining", out.Remaining))
		return out, nil
	case outcomeFailed:
		return SleepOutcome{}, e.fail(op, clk, err)
	default:
		return SleepOutcome{}, nil
	}
}

func (e *Engine) fail(op string, clk ClockID, err error) *Error {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		errno = unix.EIO
	}
	out := Translate(e.env.Tag, errno)
	e.log.Debug("clock call failed",
		zap.String("op", op),
		zap.Int32("clock", int32(clk)),
		zap.String("errno", out.Symbol()))
	return out
}
