// Package launcher locates the native genai-toolbox binary and runs it as a
// child process.
//
// The child inherits the launcher's standard streams and receives the
// launcher's arguments unchanged. Run never terminates the calling process: it
// returns an Outcome describing how the caller should exit, which keeps the
// decision logic testable. Terminate performs the actual exit.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/observability"
	"github.com/sethdford/genai-toolbox-enterprise/internal/terminal"
)

// Options configures a Launcher. Zero-valued fields fall back to the real
// process environment.
type Options struct {
	// Platform selects the binary name. Defaults to Current().
	Platform Platform

	// InstallDir is the directory holding the toolbox binary. Required.
	InstallDir string

	// Standard streams handed to the child. Default to os.Stdin/Stdout/Stderr.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Env is the child's environment. Nil inherits the launcher's. Trace
	// context is added when tracing is enabled.
	Env []string

	// Stat checks the resolved binary path. Defaults to os.Stat.
	Stat func(name string) (fs.FileInfo, error)

	// Start spawns the prepared command. Defaults to (*exec.Cmd).Start.
	Start func(cmd *exec.Cmd) error
}

// Launcher runs the toolbox binary found in an install directory.
type Launcher struct {
	opts Options
}

// New returns a Launcher with defaults applied to opts.
func New(opts Options) *Launcher {
	if opts.Platform == (Platform{}) {
		opts.Platform = Current()
	}

	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if opts.Stat == nil {
		opts.Stat = os.Stat
	}

	if opts.Start == nil {
		opts.Start = (*exec.Cmd).Start
	}

	return &Launcher{opts: opts}
}

// Platform returns the platform the launcher resolves binaries for.
func (l *Launcher) Platform() Platform {
	return l.opts.Platform
}

// BinaryPath returns where the toolbox binary is expected to be.
func (l *Launcher) BinaryPath() string {
	return BinaryPath(l.opts.InstallDir, l.opts.Platform.OS)
}

// Resolve returns the binary path if a regular file exists there. A missing
// path, or a directory in its place, yields the binary-not-found diagnostic.
func (l *Launcher) Resolve() (string, error) {
	path := l.BinaryPath()

	info, err := l.opts.Stat(path)
	if err != nil || info.IsDir() {
		return "", clierrors.BinaryNotFound(path, l.opts.Platform.String(), SupportedLabels())
	}

	return path, nil
}

// Run resolves the binary, spawns it with args, and waits for it to finish.
//
// It returns exactly one of: an Outcome with a nil error once the child has
// exited, or a *errors.CLIError when the binary is missing or cannot be
// started. No process is spawned when the binary is missing.
func (l *Launcher) Run(ctx context.Context, args []string) (Outcome, error) {
	logger := observability.FromContext(ctx)

	ctx, span := observability.Tracer("genai-toolbox.launcher").Start(ctx, "launcher.run",
		trace.WithAttributes(
			attribute.String("platform.os", l.opts.Platform.OS),
			attribute.String("platform.arch", l.opts.Platform.Arch),
			attribute.String("binary.path", l.BinaryPath()),
			attribute.Int("process.args.count", len(args)),
		),
	)
	defer span.End()

	path, err := l.Resolve()
	if err != nil {
		logger.Error("toolbox binary not found",
			slog.String("event.type", "launcher.resolve"),
			slog.String("binary.path", l.BinaryPath()),
			slog.String("platform", l.opts.Platform.String()),
			slog.Bool("platform.supported", IsSupported(l.opts.Platform)),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "binary not found")

		return Outcome{}, err
	}

	logger.Debug("toolbox binary resolved",
		slog.String("event.type", "launcher.resolve"),
		slog.String("binary.path", path),
	)

	cmd := exec.Command(path, args...) // #nosec G204 -- the binary path comes from the install directory
	cmd.Stdin = l.opts.Stdin
	cmd.Stdout = l.opts.Stdout
	cmd.Stderr = l.opts.Stderr
	cmd.Env = observability.TraceEnv(ctx, l.opts.Env)

	// Catch signals before the child exists so the launcher cannot be killed
	// while it is being spawned.
	interactive := terminal.IsTerminal(l.opts.Stdin)
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, caughtSignals()...)
	defer signal.Stop(sigCh)

	if err := l.opts.Start(cmd); err != nil {
		logger.Error("toolbox binary failed to start",
			slog.String("event.type", "launcher.spawn"),
			slog.String("binary.path", path),
			slog.String("error", err.Error()),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "spawn failed")

		return Outcome{}, clierrors.SpawnFailed(path, err)
	}

	logger.Info("toolbox started",
		slog.String("event.type", "launcher.spawn"),
		slog.String("binary.path", path),
		slog.Int("process.pid", cmd.Process.Pid),
	)

	done := make(chan struct{})
	relayed := make(chan struct{})

	go func() {
		defer close(relayed)
		relaySignals(logger, cmd.Process, sigCh, done, interactive)
	}()

	waitErr := cmd.Wait()

	close(done)
	<-relayed

	if cmd.ProcessState == nil {
		err := fmt.Errorf("wait for toolbox: %w", waitErr)
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait failed")

		return Outcome{}, clierrors.SpawnFailed(path, err)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		logger.Warn("toolbox wait reported an error",
			slog.String("event.type", "launcher.exit"),
			slog.String("error", waitErr.Error()),
		)
	}

	outcome := outcomeFromState(cmd.ProcessState)

	if outcome.Signaled() {
		logger.Info("toolbox terminated by signal",
			slog.String("event.type", "launcher.signal"),
			slog.String("process.signal", outcome.Signal.String()),
		)
		span.SetAttributes(attribute.String("process.signal", outcome.Signal.String()))
	} else {
		logger.Info("toolbox exited",
			slog.String("event.type", "launcher.exit"),
			slog.Int("process.exit_code", outcome.Code),
		)
		span.SetAttributes(attribute.Int("process.exit_code", outcome.Code))
	}

	span.SetStatus(codes.Ok, "")

	return outcome, nil
}

// relaySignals forwards caught signals to the child until done is closed.
// Signals the terminal already delivered to the foreground group are absorbed.
func relaySignals(logger *slog.Logger, proc *os.Process, sigCh <-chan os.Signal, done <-chan struct{}, interactive bool) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigCh:
			if !shouldRelay(sig, interactive) {
				logger.Debug("signal absorbed",
					slog.String("event.type", "launcher.relay"),
					slog.String("process.signal", sig.String()),
				)

				continue
			}

			if err := proc.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Warn("signal relay failed",
					slog.String("event.type", "launcher.relay"),
					slog.String("process.signal", sig.String()),
					slog.String("error", err.Error()),
				)

				continue
			}

			logger.Info("signal relayed",
				slog.String("event.type", "launcher.relay"),
				slog.String("process.signal", sig.String()),
			)
		}
	}
}
