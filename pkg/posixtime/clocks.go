package posixtime

import (
	"fmt"
	"os"
	"strings"

	"github.com/shiwa/timecard-mini/tc-clock/internal/sysclock"
)

// Kind — вид часов. Порядок фиксирован и совпадает с порядком слотов Table.
type Kind int

const (
	Realtime Kind = iota
	Monotonic
	ProcessCPUTime
	ThreadCPUTime
	Boottime
	MonotonicCoarse
	MonotonicFast
	MonotonicPrecise
	MonotonicRaw
	Prof
	RealtimeCoarse
	RealtimeFast
	RealtimePrecise
	Second
	Uptime
	UptimeFast
	UptimePrecise
	Virtual
)

// NumKinds — число слотов в Table.
const NumKinds = int(Virtual) + 1

var kindNames = [NumKinds]struct {
	name     string
	constant string
}{
	{"realtime", "CLOCK_REALTIME"},
	{"monotonic", "CLOCK_MONOTONIC"},
	{"process_cputime_id", "CLOCK_PROCESS_CPUTIME_ID"},
	{"thread_cputime_id", "CLOCK_THREAD_CPUTIME_ID"},
	{"boottime", "CLOCK_BOOTTIME"},
	{"monotonic_coarse", "CLOCK_MONOTONIC_COARSE"},
	{"monotonic_fast", "CLOCK_MONOTONIC_FAST"},
	{"monotonic_precise", "CLOCK_MONOTONIC_PRECISE"},
	{"monotonic_raw", "CLOCK_MONOTONIC_RAW"},
	{"prof", "CLOCK_PROF"},
	{"realtime_coarse", "CLOCK_REALTIME_COARSE"},
	{"realtime_fast", "CLOCK_REALTIME_FAST"},
	{"realtime_precise", "CLOCK_REALTIME_PRECISE"},
	{"second", "CLOCK_SECOND"},
	{"uptime", "CLOCK_UPTIME"},
	{"uptime_fast", "CLOCK_UPTIME_FAST"},
	{"uptime_precise", "CLOCK_UPTIME_PRECISE"},
	{"virtual", "CLOCK_VIRTUAL"},
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < NumKinds
}

// String возвращает имя вида часов ("monotonic_raw").
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k].name
}

// Constant возвращает имя POSIX-константы ("CLOCK_MONOTONIC_RAW").
func (k Kind) Constant() string {
	if !k.valid() {
		return ""
	}
	return kindNames[k].constant
}

// ParseKind разбирает имя вида часов: "monotonic_raw", "MONOTONIC_RAW" или "CLOCK_MONOTONIC_RAW".
// Для process/thread CPU-часов допускается и короткая форма ("process_cputime").
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "clock_")
	for k := range kindNames {
		full := kindNames[k].name
		if name == full || name+"_id" == full {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown clock kind %q", s)
}

// Kinds возвращает все виды часов в порядке слотов.
func Kinds() []Kind {
	out := make([]Kind, NumKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ClockID — номер часов платформы (clockid_t).
type ClockID int32

// Slot — один слот таблицы часов.
type Slot struct {
	Kind    Kind
	ID      ClockID
	Present bool
}

// Table — таблица часов платформы: по слоту на каждый Kind.
// Realtime есть всегда и хранится без признака наличия; остальные слоты могут отсутствовать.
// После Initialize таблица только читается.
type Table struct {
	realtime ClockID
	slots    [NumKinds]Slot
}

func newTable() Table {
	var t Table
	for i := range t.slots {
		k := Kind(i)
		id, ok := sysclock.Lookup(k.Constant())
		t.slots[i] = Slot{Kind: k, ID: ClockID(id), Present: ok}
	}
	t.realtime = t.slots[Realtime].ID
	t.slots[Realtime].Present = true
	return t
}

// Realtime возвращает CLOCK_REALTIME.
func (t *Table) Realtime() ClockID {
	return t.realtime
}

// Lookup возвращает номер часов вида k, если платформа их определяет.
func (t *Table) Lookup(k Kind) (ClockID, bool) {
	if !k.valid() {
		return 0, false
	}
	s := t.slots[k]
	return s.ID, s.Present
}

// Slots возвращает копию всех слотов в порядке Kind.
func (t *Table) Slots() []Slot {
	out := make([]Slot, NumKinds)
	copy(out, t.slots[:])
	return out
}

// First выбирает первые доступные часы из списка предпочтений
// (например Boottime, MonotonicRaw, Monotonic, Realtime).
func (t *Table) First(kinds ...Kind) (Slot, bool) {
	for _, k := range kinds {
		if k.valid() && t.slots[k].Present {
			return t.slots[k], true
		}
	}
	return Slot{}, false
}

// Env — неизменяемое окружение движка: таблица часов и тег пространства ошибок.
// Создаётся один раз через Initialize и передаётся по указателю.
type Env struct {
	Clocks Table
	Tag    Namespace
}

// Initialize строит таблицу часов платформы и тег ошибок.
// Повторный вызов безопасен, но строит ту же таблицу заново.
func Initialize() *Env {
	return &Env{
		Clocks: newTable(),
		Tag:    NamespaceUnix,
	}
}

// DeviceClock — динамические часы устройства (PHC, /dev/ptpN).
// ID действителен, пока DeviceClock не закрыт.
type DeviceClock struct {
	id   ClockID
	path string
	f    *os.File
}

// OpenDeviceClock открывает часы устройства path. Поддерживается только на Linux.
func OpenDeviceClock(path string) (*DeviceClock, error) {
	id, f, err := sysclock.OpenDevice(path)
	if err != nil {
		return nil, fmt.Errorf("open clock device %s: %w", path, err)
	}
	return &DeviceClock{id: ClockID(id), path: path, f: f}, nil
}

// ID возвращает clockid устройства.
func (d *DeviceClock) ID() ClockID {
	return d.id
}

// Path возвращает путь к устройству.
func (d *DeviceClock) Path() string {
	return d.path
}

// Close закрывает устройство.
func (d *DeviceClock) Close() error {
	if d.f == nil {
		return nil
	}
	return d.f.Close()
}
