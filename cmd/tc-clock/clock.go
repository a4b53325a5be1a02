package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

// clockRef — выбранные часы; close освобождает часы устройства.
type clockRef struct {
	id    posixtime.ClockID
	name  string
	close func() error
}

// resolveClock разбирает ссылку на часы: имя вида, число clockid или путь к PHC.
// Пустая строка — первые доступные часы из clock.default и clock.fallback конфига.
func (a *app) resolveClock(ref string) (clockRef, error) {
	noop := func() error { return nil }
	tbl := a.eng.Clocks()

	switch {
	case ref == "":
		kinds, err := a.cfg.ClockKinds()
		if err != nil {
			return clockRef{}, err
		}
		s, ok := tbl.First(kinds...)
		if !ok {
			return clockRef{}, fmt.Errorf("none of the configured clocks %v is available", kinds)
		}
		return clockRef{id: s.ID, name: s.Kind.String(), close: noop}, nil

	case strings.HasPrefix(ref, "/"):
		dc, err := posixtime.OpenDeviceClock(ref)
		if err != nil {
			return clockRef{}, err
		}
		return clockRef{id: dc.ID(), name: dc.Path(), close: dc.Close}, nil
	}

	if n, err := strconv.ParseInt(ref, 10, 32); err == nil {
		return clockRef{id: posixtime.ClockID(n), name: ref, close: noop}, nil
	}
	k, err := posixtime.ParseKind(ref)
	if err != nil {
		return clockRef{}, err
	}
	id, ok := tbl.Lookup(k)
	if !ok {
		return clockRef{}, fmt.Errorf("clock %s is not available on this platform", k)
	}
	return clockRef{id: id, name: k.String(), close: noop}, nil
}

// parseTimeValue разбирает "<sec>[.<frac>]": дробная часть — до 9 цифр, дополняется нулями.
func parseTimeValue(s string) (posixtime.TimeValue, error) {
	secPart, frac, hasFrac := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return posixtime.TimeValue{}, fmt.Errorf("bad seconds %q: %w", secPart, err)
	}
	if !hasFrac {
		return posixtime.TimeValue{Sec: sec}, nil
	}
	if frac == "" || len(frac) > 9 || strings.TrimLeft(frac, "0123456789") != "" {
		return posixtime.TimeValue{}, fmt.Errorf("bad fraction %q", frac)
	}
	nsec, _ := strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
	return posixtime.TimeValue{Sec: sec, Nsec: nsec}, nil
}

// parseSleep разбирает длительность сна: "1.5s", "250ms" или "<sec>[.<frac>]".
func parseSleep(s string) (posixtime.TimeValue, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return posixtime.TimeValue{}, fmt.Errorf("negative duration %s", s)
		}
		return posixtime.FromDuration(d), nil
	}
	return parseTimeValue(s)
}

// addTime складывает два значения, нормализуя наносекунды.
func addTime(a, b posixtime.TimeValue) posixtime.TimeValue {
	out := posixtime.TimeValue{Sec: a.Sec + b.Sec, Nsec: a.Nsec + b.Nsec}
	if out.Nsec >= int64(time.Second) {
		out.Sec++
		out.Nsec -= int64(time.Second)
	}
	return out
}
