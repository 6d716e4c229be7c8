//go:build linux

package launcher

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// kernelSigaction is the kernel's struct sigaction. The zero value installs
// SIG_DFL with no flags and an empty mask.
type kernelSigaction struct {
	handler  uintptr
	flags    uint64
	restorer uintptr
	mask     uint64
}

// setDefaultAction installs SIG_DFL for sig behind the Go runtime's back.
// signal.Reset only restores the runtime's handler, which turns fatal signals
// into a goroutine dump and exit status 2.
func setDefaultAction(sig syscall.Signal) error {
	var act kernelSigaction

	_, _, errno := unix.RawSyscall6(unix.SYS_RT_SIGACTION,
		uintptr(sig), uintptr(unsafe.Pointer(&act)), 0, unsafe.Sizeof(act.mask), 0, 0)
	if errno != 0 {
		return errno
	}

	return nil
}
