// Package wasmhost отдаёт posixtime.Engine гостям WebAssembly как host-модуль wazero.
//
// Функции модуля (по умолчанию "posix_time"):
//
//	clock_id(kind i32) -> (present i32, id i32)
//	clock_gettime(clk i32) -> (errno i32, sec i64, nsec i64)
//	clock_getres(clk i32) -> (errno i32, sec i64, nsec i64)
//	clock_settime(clk i32, sec i64, nsec i64) -> (errno i32)
//	nanosleep(sec i64, nsec i64) -> (errno i32, interrupted i32, sec i64, nsec i64)
//	clock_nanosleep(clk i32, abs i32, sec i64, nsec i64) -> (errno i32, interrupted i32, sec i64, nsec i64)
//
// errno 0 — успех. Прерванный сон — тоже успех, с interrupted = 1 и остатком.
//
// Функции host-модуля wazero не вызываются из Go напрямую; Shim собирает гостевой
// модуль, который импортирует их и экспортирует под теми же именами.
package wasmhost

import (
	"context"
	"errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/sys/unix"

	"github.com/shiwa/timecard-mini/tc-clock/pkg/posixtime"
)

// ModuleName — имя модуля по умолчанию.
const ModuleName = "posix_time"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

type function struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
	call    func(h *host, ctx context.Context, mod api.Module, stack []uint64)
}

// functions — экспорт модуля; порядок совпадает с импортами Shim.
var functions = []function{
	{"clock_id", []api.ValueType{i32}, []api.ValueType{i32, i32}, (*host).clockID},
	{"clock_gettime", []api.ValueType{i32}, []api.ValueType{i32, i64, i64}, (*host).gettime},
	{"clock_getres", []api.ValueType{i32}, []api.ValueType{i32, i64, i64}, (*host).getres},
	{"clock_settime", []api.ValueType{i32, i64, i64}, []api.ValueType{i32}, (*host).settime},
	{"nanosleep", []api.ValueType{i64, i64}, []api.ValueType{i32, i32, i64, i64}, (*host).nanosleep},
	{"clock_nanosleep", []api.ValueType{i32, i32, i64, i64}, []api.ValueType{i32, i32, i64, i64}, (*host).clockNanosleep},
}

// Instantiate регистрирует в r host-модуль name, который вызывает eng.
// Пустое name означает ModuleName.
func Instantiate(ctx context.Context, r wazero.Runtime, eng *posixtime.Engine, name string) (api.Module, error) {
	if name == "" {
		name = ModuleName
	}
	h := &host{eng: eng}
	b := r.NewHostModuleBuilder(name)
	for _, f := range functions {
		f := f
		b = b.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				f.call(h, ctx, mod, stack)
			}), f.params, f.results).
			Export(f.name)
	}
	return b.Instantiate(ctx)
}

type host struct {
	eng *posixtime.Engine
}

func (h *host) clockID(_ context.Context, _ api.Module, stack []uint64) {
	id, ok := h.eng.Clocks().Lookup(posixtime.Kind(api.DecodeI32(stack[0])))
	stack[0] = flag(ok)
	stack[1] = api.EncodeI32(int32(id))
}

func (h *host) gettime(_ context.Context, _ api.Module, stack []uint64) {
	tv, err := h.eng.GetTime(posixtime.ClockID(api.DecodeI32(stack[0])))
	putTime(stack, err, tv)
}

func (h *host) getres(_ context.Context, _ api.Module, stack []uint64) {
	tv, err := h.eng.GetResolution(posixtime.ClockID(api.DecodeI32(stack[0])))
	putTime(stack, err, tv)
}

func (h *host) settime(_ context.Context, _ api.Module, stack []uint64) {
	clk := posixtime.ClockID(api.DecodeI32(stack[0]))
	err := h.eng.SetTime(clk, timeValue(stack[1], stack[2]))
	stack[0] = api.EncodeI32(errno(err))
}

func (h *host) nanosleep(_ context.Context, _ api.Module, stack []uint64) {
	out, err := h.eng.Sleep(timeValue(stack[0], stack[1]))
	putSleep(stack, err, out)
}

func (h *host) clockNanosleep(_ context.Context, _ api.Module, stack []uint64) {
	clk := posixtime.ClockID(api.DecodeI32(stack[0]))
	abs := api.DecodeI32(stack[1]) != 0
	out, err := h.eng.SleepOn(clk, timeValue(stack[2], stack[3]), abs)
	putSleep(stack, err, out)
}

func timeValue(sec, nsec uint64) posixtime.TimeValue {
	return posixtime.TimeValue{Sec: int64(sec), Nsec: int64(nsec)}
}

func putTime(stack []uint64, err error, tv posixtime.TimeValue) {
	stack[0] = api.EncodeI32(errno(err))
	stack[1] = api.EncodeI64(tv.Sec)
	stack[2] = api.EncodeI64(tv.Nsec)
}

func putSleep(stack []uint64, err error, out posixtime.SleepOutcome) {
	stack[0] = api.EncodeI32(errno(err))
	stack[1] = flag(out.Interrupted)
	stack[2] = api.EncodeI64(out.Remaining.Sec)
	stack[3] = api.EncodeI64(out.Remaining.Nsec)
}

// errno переводит ошибку движка в код для гостя; 0 — успех.
func errno(err error) int32 {
	if err == nil {
		return 0
	}
	var pe *posixtime.Error
	if errors.As(err, &pe) {
		return int32(pe.Errno)
	}
	return int32(unix.EIO)
}

func flag(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
