//go:build unix

package launcher

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// caughtSignals are intercepted while the child runs so that they decide the
// child's fate instead of killing the launcher.
func caughtSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP}
}

// shouldRelay reports whether sig must be forwarded to the child. Keyboard
// signals on a terminal already reach every process in the foreground group.
func shouldRelay(sig os.Signal, interactive bool) bool {
	switch sig {
	case syscall.SIGTERM, syscall.SIGHUP:
		return true
	case syscall.SIGINT, syscall.SIGQUIT:
		return !interactive
	default:
		return false
	}
}

func outcomeFromState(state *os.ProcessState) Outcome {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Raise(ws.Signal())
	}

	return Exit(state.ExitCode())
}

// runtimeOwned reports whether the Go runtime answers sig with a traceback
// and exit status 2 when its own handler is installed.
func runtimeOwned(sig syscall.Signal) bool {
	switch sig {
	case syscall.SIGABRT, syscall.SIGQUIT, syscall.SIGSEGV, syscall.SIGBUS,
		syscall.SIGILL, syscall.SIGFPE, syscall.SIGTRAP, syscall.SIGSYS:
		return true
	default:
		return false
	}
}

// Terminate ends the current process according to o. A signal outcome installs
// the default disposition and delivers the signal to the launcher itself; if
// the process survives that, it exits with 128+signo. When the default
// disposition cannot be installed for a runtime-owned signal, the launcher
// exits with 128+signo without raising it.
func Terminate(o Outcome) {
	sig, ok := o.Signal.(syscall.Signal)
	if !ok {
		os.Exit(o.Code)
	}

	signal.Reset(sig)

	if err := setDefaultAction(sig); err != nil && runtimeOwned(sig) {
		os.Exit(o.Code)
	}

	if err := unix.Kill(unix.Getpid(), sig); err == nil {
		// Delivery to another thread is asynchronous.
		time.Sleep(250 * time.Millisecond)
	}

	os.Exit(o.Code)
}
