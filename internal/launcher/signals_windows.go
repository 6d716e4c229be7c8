//go:build windows

package launcher

import "os"

// caughtSignals are intercepted while the child runs. Ctrl+C reaches every
// process attached to the console, so the launcher only needs to survive it.
func caughtSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// shouldRelay is always false: Windows cannot deliver signals to a child.
func shouldRelay(os.Signal, bool) bool {
	return false
}

func outcomeFromState(state *os.ProcessState) Outcome {
	return Exit(state.ExitCode())
}

// Terminate exits with the outcome's code.
func Terminate(o Outcome) {
	os.Exit(o.Code)
}
