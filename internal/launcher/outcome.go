package launcher

import (
	"fmt"
	"os"
	"syscall"
)

// Outcome is how the launcher process should terminate once the child is gone:
// either exit with Code, or re-deliver Signal to itself.
type Outcome struct {
	Code   int
	Signal os.Signal
}

// Exit returns an outcome that exits with code. Negative codes map to 0.
func Exit(code int) Outcome {
	if code < 0 {
		code = 0
	}

	return Outcome{Code: code}
}

// Raise returns an outcome that re-raises sig on the launcher.
func Raise(sig os.Signal) Outcome {
	return Outcome{Code: signalExitCode(sig), Signal: sig}
}

// Signaled reports whether the child was terminated by a signal.
func (o Outcome) Signaled() bool {
	return o.Signal != nil
}

// ExitCode is the status a shell would report for this outcome: the child's
// code, or 128+signo when it was killed by a signal.
func (o Outcome) ExitCode() int {
	return o.Code
}

func (o Outcome) String() string {
	if o.Signaled() {
		return fmt.Sprintf("signal %s", o.Signal)
	}

	return fmt.Sprintf("exit %d", o.Code)
}

func signalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}

	return 1
}
