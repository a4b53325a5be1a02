package posixtime

import (
	"fmt"
	"syscall"

	"github.com/containerd/errdefs"
	"golang.org/x/sys/unix"
)

// Namespace — тег пространства ошибок; у всех ошибок движка он один.
type Namespace string

// NamespaceUnix — ошибки из таблицы errno Unix.
const NamespaceUnix Namespace = "EUnix"

// Error — ошибка системного вызова: тег пространства и код errno.
// errors.Is работает и с самим errno (unix.EPERM), и с классами errdefs
// (errdefs.ErrPermissionDenied и т.д.).
type Error struct {
	Namespace Namespace
	Errno     syscall.Errno
}

// Translate переводит код errno в Error с тегом ns.
func Translate(ns Namespace, errno syscall.Errno) *Error {
	return &Error{Namespace: ns, Errno: errno}
}

// Symbol возвращает символическое имя кода ("EPERM"); для неизвестных кодов — EUNKNOWNERR(n).
func (e *Error) Symbol() string {
	if name := unix.ErrnoName(e.Errno); name != "" {
		return name
	}
	return fmt.Sprintf("EUNKNOWNERR(%d)", int(e.Errno))
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Namespace, e.Symbol(), e.Errno.Error())
}

// Unwrap возвращает исходный errno.
func (e *Error) Unwrap() error {
	return e.Errno
}

// Is сопоставляет errno с классами ошибок errdefs.
func (e *Error) Is(target error) bool {
	class := errnoClass(e.Errno)
	return class != nil && class == target
}

func errnoClass(errno syscall.Errno) error {
	switch errno {
	case unix.EPERM, unix.EACCES:
		return errdefs.ErrPermissionDenied
	case unix.EINVAL, unix.ERANGE:
		return errdefs.ErrInvalidArgument
	case unix.ENOENT, unix.ENODEV:
		return errdefs.ErrNotFound
	case unix.EINTR, unix.EAGAIN:
		return errdefs.ErrUnavailable
	}
	// ENOTSUP и EOPNOTSUPP на Linux совпадают, поэтому не в switch.
	if errno == unix.ENOSYS || errno == unix.ENOTSUP || errno == unix.EOPNOTSUPP {
		return errdefs.ErrNotImplemented
	}
	return nil
}
