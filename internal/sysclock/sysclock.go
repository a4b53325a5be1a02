// Package sysclock — платформенная граница tc-clock: какие POSIX-часы определены
// на текущей ОС и системные вызовы clock_gettime, clock_getres, clock_settime,
// nanosleep и clock_nanosleep. Остальной код не ветвится по платформе.
//
// Ошибки возвращаются как syscall.Errno без интерпретации.
package sysclock

import "golang.org/x/sys/unix"

// Timespec — нативное представление времени (struct timespec).
type Timespec = unix.Timespec

// Lookup возвращает номер часов по имени константы ("CLOCK_MONOTONIC"),
// если платформа её определяет.
func Lookup(name string) (int32, bool) {
	id, ok := clockIDs[name]
	return id, ok
}

// Granularity измеряет фактическую гранулярность часов clk: делает несколько пар
// clock_gettime подряд и возвращает минимальный ненулевой шаг в наносекундах.
// 0 — шаг не удалось наблюдать.
func Granularity(clk int32) (int64, error) {
	const rounds = 20
	var minDt int64 = 1e9
	for i := 0; i < rounds; i++ {
		var t1, t2 Timespec
		if err := Gettime(clk, &t1); err != nil {
			return 0, err
		}
		if err := Gettime(clk, &t2); err != nil {
			return 0, err
		}
		dt := (int64(t2.Sec)-int64(t1.Sec))*1e9 + int64(t2.Nsec) - int64(t1.Nsec)
		if dt > 0 && dt < minDt {
			minDt = dt
		}
	}
	if minDt == 1e9 {
		return 0, nil
	}
	return minDt, nil
}
