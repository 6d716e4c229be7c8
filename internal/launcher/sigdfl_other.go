//go:build unix && !linux && !darwin

package launcher

import (
	"errors"
	"syscall"
)

var errNoDefaultAction = errors.New("resetting a signal to SIG_DFL is not supported on this platform")

func setDefaultAction(syscall.Signal) error {
	return errNoDefaultAction
}
