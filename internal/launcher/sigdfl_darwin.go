//go:build darwin

package launcher

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// userSigaction is the struct __sigaction taken by the sigaction system call.
// The zero value installs SIG_DFL.
type userSigaction struct {
	handler uintptr
	tramp   uintptr
	mask    uint32
	flags   int32
}

// setDefaultAction installs SIG_DFL for sig behind the Go runtime's back.
// signal.Reset only restores the runtime's handler, which turns fatal signals
// into a goroutine dump and exit status 2.
func setDefaultAction(sig syscall.Signal) error {
	var act userSigaction

	_, _, errno := unix.RawSyscall(unix.SYS_SIGACTION, uintptr(sig), uintptr(unsafe.Pointer(&act)), 0)
	if errno != 0 {
		return errno
	}

	return nil
}
