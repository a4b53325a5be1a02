//go:build linux

package sysclock

import (
	"os"

	"golang.org/x/sys/unix"
)

var clockIDs = map[string]int32{
	"CLOCK_REALTIME":           unix.CLOCK_REALTIME,
	"CLOCK_MONOTONIC":          unix.CLOCK_MONOTONIC,
	"CLOCK_PROCESS_CPUTIME_ID": unix.CLOCK_PROCESS_CPUTIME_ID,
	"CLOCK_THREAD_CPUTIME_ID":  unix.CLOCK_THREAD_CPUTIME_ID,
	"CLOCK_BOOTTIME":           unix.CLOCK_BOOTTIME,
	"CLOCK_MONOTONIC_COARSE":   unix.CLOCK_MONOTONIC_COARSE,
	"CLOCK_MONOTONIC_RAW":      unix.CLOCK_MONOTONIC_RAW,
	"CLOCK_REALTIME_COARSE":    unix.CLOCK_REALTIME_COARSE,
}

// Linux dynamic clocks (include/linux/posix-timers.h):
// FD_TO_CLOCKID(fd) = (~(clockid_t)(fd) << 3) | CLOCKFD
const clockFD = 3

// Gettime — clock_gettime(2).
func Gettime(clk int32, ts *Timespec) error {
	return unix.ClockGettime(clk, ts)
}

// Getres — clock_getres(2).
func Getres(clk int32, ts *Timespec) error {
	return unix.ClockGetres(clk, ts)
}

// Settime — clock_settime(2). Требует CAP_SYS_TIME или root.
func Settime(clk int32, ts *Timespec) error {
	return unix.ClockSettime(clk, ts)
}

// Nanosleep — nanosleep(2); при EINTR ядро записывает остаток в rem.
func Nanosleep(req, rem *Timespec) error {
	return unix.Nanosleep(req, rem)
}

// ClockNanosleep — clock_nanosleep(2). abs включает TIMER_ABSTIME: req — дедлайн на часах clk.
func ClockNanosleep(clk int32, abs bool, req, rem *Timespec) error {
	flags := 0
	if abs {
		flags = unix.TIMER_ABSTIME
	}
	return unix.ClockNanosleep(clk, flags, req, rem)
}

// OpenDevice открывает устройство динамических часов (PHC, например /dev/ptp0)
// и возвращает его clockid. Файл нужно держать открытым, пока используется clockid.
func OpenDevice(path string) (int32, *os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		// Без прав на запись часы всё равно можно читать.
		f, err = os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			return 0, nil, err
		}
	}
	return fdToClockID(int(f.Fd())), f, nil
}

func fdToClockID(fd int) int32 {
	return (^int32(fd) << 3) | clockFD
}
