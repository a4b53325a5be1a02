package posixtime

import (
	"fmt"
	"time"

	"github.com/shiwa/timecard-mini/tc-clock/internal/sysclock"
)

// TimeValue — время или длительность с наносекундным разрешением, как struct timespec.
// Вызывающий обычно держит 0 <= Nsec < 1e9, но движок это не проверяет:
// значение передаётся ядру как есть, и ядро решает, допустимо ли оно.
type TimeValue struct {
	Sec  int64 `yaml:"sec"`
	Nsec int64 `yaml:"nsec"`
}

// FromTimespec копирует поля нативной структуры без преобразования единиц.
func FromTimespec(ts sysclock.Timespec) TimeValue {
	return TimeValue{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}
}

// Timespec копирует поля в нативную структуру без преобразования единиц.
// На 32-битных платформах поля timespec 32-битные, и старшие биты теряются.
func (t TimeValue) Timespec() sysclock.Timespec {
	var ts sysclock.Timespec
	setField(&ts.Sec, t.Sec)
	setField(&ts.Nsec, t.Nsec)
	return ts
}

func setField[T ~int32 | ~int64](dst *T, v int64) {
	*dst = T(v)
}

// FromDuration переводит неотрицательную длительность в TimeValue.
func FromDuration(d time.Duration) TimeValue {
	return TimeValue{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}
}

// FromTime переводит момент времени в TimeValue относительно эпохи Unix.
func FromTime(t time.Time) TimeValue {
	return TimeValue{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Duration возвращает значение как time.Duration.
func (t TimeValue) Duration() time.Duration {
	return time.Duration(t.Sec)*time.Second + time.Duration(t.Nsec)
}

// Time возвращает значение как момент времени от эпохи Unix.
func (t TimeValue) Time() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// Valid сообщает, лежат ли наносекунды в [0, 1e9).
func (t TimeValue) Valid() bool {
	return t.Nsec >= 0 && t.Nsec < int64(time.Second)
}

// IsZero сообщает, равны ли оба поля нулю.
func (t TimeValue) IsZero() bool {
	return t.Sec == 0 && t.Nsec == 0
}

func (t TimeValue) String() string {
	if !t.Valid() {
		return fmt.Sprintf("{%d %d}", t.Sec, t.Nsec)
	}
	return fmt.Sprintf("%d.%09ds", t.Sec, t.Nsec)
}
