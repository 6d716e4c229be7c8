// Package terminal detects whether the launcher's streams are terminals and
// whether they may be styled.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Info describes one output stream.
type Info struct {
	IsTTY bool

	// NoColor is set by NO_COLOR (https://no-color.org/) or TERM=dumb.
	NoColor bool

	// ForceFlag is set when --no-color is used.
	ForceFlag bool
}

// Detect returns terminal information for stdout.
func Detect() *Info {
	return DetectFile(os.Stdout)
}

// DetectFile returns terminal information for f. The launcher shim uses it on
// stderr, since stdout belongs to the child process.
func DetectFile(f *os.File) *Info {
	_, noColor := os.LookupEnv("NO_COLOR")

	return &Info{
		IsTTY:   IsTerminal(f),
		NoColor: noColor || os.Getenv("TERM") == "dumb",
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// ColorEnabled reports whether output may carry ANSI colors.
func (t *Info) ColorEnabled() bool {
	return !t.ForceFlag && t.SpinnersEnabled()
}

// SpinnersEnabled reports whether animated spinners may be drawn.
func (t *Info) SpinnersEnabled() bool {
	return t.IsTTY && !t.NoColor
}
