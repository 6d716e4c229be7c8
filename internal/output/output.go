// Package output renders toolbox-launcher output: status lines, multi-line
// problem reports, a progress spinner, and JSON for --json.
//
// Status lines carry a mark (✓ ✗ ⚠ ℹ) that is colored only on a color
// terminal. Failures and problems go to Err; everything else goes to Out and
// is silenced by Quiet.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/sethdford/genai-toolbox-enterprise/internal/terminal"
)

// Status marks.
const (
	CheckMark   = "\u2713"
	XMark       = "\u2717"
	WarningMark = "\u26A0"
	InfoMark    = "\u2139"
)

// tone pairs a status mark with its color.
type tone struct {
	mark  string
	color *color.Color
}

var (
	successTone = tone{mark: CheckMark, color: color.New(color.FgGreen)}
	failureTone = tone{mark: XMark, color: color.New(color.FgRed)}
	warningTone = tone{mark: WarningMark, color: color.New(color.FgYellow)}
	infoTone    = tone{mark: InfoMark, color: color.New(color.FgCyan)}
	mutedColor  = color.New(color.FgHiBlack)
)

type contextKey struct{}

// Writer writes CLI output to a pair of streams.
type Writer struct {
	Out   io.Writer
	Err   io.Writer
	JSON  bool
	Quiet bool

	terminal *terminal.Info
}

// Default returns a Writer on stdout and stderr, styled for stdout.
func Default() *Writer {
	return NewWriter(os.Stdout, os.Stderr, terminal.Detect())
}

// Stderr returns a Writer whose every stream is stderr. The launcher shim
// uses it because stdout is owned by the toolbox process.
func Stderr() *Writer {
	return NewWriter(os.Stderr, os.Stderr, terminal.DetectFile(os.Stderr))
}

// NewWriter returns a Writer on out and err styled for term.
func NewWriter(out, err io.Writer, term *terminal.Info) *Writer {
	if !term.ColorEnabled() {
		color.NoColor = true
	}

	return &Writer{Out: out, Err: err, terminal: term}
}

// WithContext stores the Writer in the context.
func (w *Writer) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, w)
}

// FromContext returns the Writer stored in ctx, or Default().
func FromContext(ctx context.Context) *Writer {
	if w, ok := ctx.Value(contextKey{}).(*Writer); ok {
		return w
	}

	return Default()
}

// Terminal returns the terminal the Writer styles for.
func (w *Writer) Terminal() *terminal.Info {
	return w.terminal
}

// SetNoColor forces plain output, as --no-color does.
func (w *Writer) SetNoColor(disabled bool) {
	w.terminal.ForceFlag = disabled
	if disabled {
		color.NoColor = true
	}
}

// Print writes formatted text to Out.
func (w *Writer) Print(format string, args ...any) {
	if w.Quiet {
		return
	}

	fmt.Fprintf(w.Out, format, args...)
}

// Println writes a line to Out.
func (w *Writer) Println(args ...any) {
	if w.Quiet {
		return
	}

	fmt.Fprintln(w.Out, args...)
}

// PrintJSON writes v to Out as indented JSON. Quiet does not apply: a script
// asking for JSON always gets it.
func (w *Writer) PrintJSON(v any) error {
	enc := json.NewEncoder(w.Out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// Success writes a ✓ line to Out.
func (w *Writer) Success(format string, args ...any) {
	if !w.Quiet {
		w.status(w.Out, successTone, fmt.Sprintf(format, args...))
	}
}

// Failure writes a ✗ line to Err, even in quiet mode.
func (w *Writer) Failure(format string, args ...any) {
	w.status(w.Err, failureTone, fmt.Sprintf(format, args...))
}

// Warning writes a ⚠ line to Out.
func (w *Writer) Warning(format string, args ...any) {
	if !w.Quiet {
		w.status(w.Out, warningTone, fmt.Sprintf(format, args...))
	}
}

// Info writes an ℹ line to Out.
func (w *Writer) Info(format string, args ...any) {
	if !w.Quiet {
		w.status(w.Out, infoTone, fmt.Sprintf(format, args...))
	}
}

// Muted writes a dimmed line to Out.
func (w *Writer) Muted(format string, args ...any) {
	if w.Quiet {
		return
	}

	msg := fmt.Sprintf(format, args...)

	if w.terminal.ColorEnabled() {
		mutedColor.Fprintln(w.Out, msg)
		return
	}

	fmt.Fprintln(w.Out, msg)
}

// Problem writes a failure headline, its indented detail lines, and a hint,
// all to Err. Empty detail lines separate paragraphs. Quiet does not apply.
func (w *Writer) Problem(message string, details []string, hint string) {
	w.status(w.Err, failureTone, message)

	if len(details) > 0 {
		fmt.Fprintln(w.Err)
	}

	for _, line := range details {
		if line == "" {
			fmt.Fprintln(w.Err)
			continue
		}

		fmt.Fprintln(w.Err, "  "+line)
	}

	if hint != "" {
		fmt.Fprintln(w.Err)
		w.status(w.Err, infoTone, hint)
	}
}

func (w *Writer) status(dst io.Writer, t tone, message string) {
	if !w.terminal.ColorEnabled() {
		fmt.Fprintln(dst, t.mark+" "+message)
		return
	}

	t.color.Fprint(dst, t.mark+" ")
	fmt.Fprintln(dst, message)
}

// Spinner returns a spinner for a long operation. Without a color terminal,
// or in quiet mode, it degrades to "message... done" text.
func (w *Writer) Spinner(message string) *Spinner {
	s := &Spinner{message: message, writer: w}

	if w.Quiet || !w.terminal.SpinnersEnabled() {
		return s
	}

	s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.spinner.Writer = w.Out
	s.spinner.Suffix = " " + message

	return s
}

// Spinner wraps briandowns/spinner. A nil inner spinner prints plain text.
type Spinner struct {
	spinner *spinner.Spinner
	message string
	writer  *Writer
}

// Start begins the animation, or prints "message... " when animations are off.
func (s *Spinner) Start() {
	if s.spinner == nil {
		s.writer.Print("%s... ", s.message)
		return
	}

	s.spinner.Start()
}

// StopWithSuccess stops the spinner and reports success.
func (s *Spinner) StopWithSuccess(message string) {
	s.stop("done", message, s.writer.Success)
}

// StopWithFailure stops the spinner and reports a failure.
func (s *Spinner) StopWithFailure(message string) {
	s.stop("failed", message, s.writer.Failure)
}

// StopWithWarning stops the spinner and reports a warning.
func (s *Spinner) StopWithWarning(message string) {
	s.stop("warning", message, s.writer.Warning)
}

// stop ends the spinner. Plain mode completes the "message... " line with
// word; message, when set, follows as a status line.
func (s *Spinner) stop(word, message string, report func(string, ...any)) {
	if s.spinner == nil {
		s.writer.Println(word)
	} else {
		s.spinner.Stop()
	}

	if message != "" {
		report("%s", message)
	}
}
