//go:build netbsd

package sysclock

// x/sys/unix не экспортирует CLOCK_* для NetBSD; CLOCK_REALTIME равен 0 по <time.h>.
var clockIDs = map[string]int32{
	"CLOCK_REALTIME": 0,
}
