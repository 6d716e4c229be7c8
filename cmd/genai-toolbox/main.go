// Package main is the genai-toolbox launcher shim. It defines no flags of its
// own: every argument is handed to the native toolbox binary installed next to
// it, and the binary's exit status becomes the shim's.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sethdford/genai-toolbox-enterprise/internal/buildinfo"
	"github.com/sethdford/genai-toolbox-enterprise/internal/config"
	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
	"github.com/sethdford/genai-toolbox-enterprise/internal/observability"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
	"github.com/sethdford/genai-toolbox-enterprise/internal/paths"
	"github.com/sethdford/genai-toolbox-enterprise/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "none"
)

func main() {
	launcher.Terminate(run(os.Args[1:]))
}

func run(args []string) launcher.Outcome {
	buildinfo.Version = version
	buildinfo.Commit = commit

	out := output.Stderr()
	cfg := config.Load()

	installDir, err := resolveInstallDir(cfg.InstallDir(), os.Executable)
	if err != nil {
		return fail(out, err)
	}

	logger, cleanup := newLogger(out, cfg)
	if cleanup != nil {
		defer func() { _ = cleanup() }()
	}

	ctx := observability.WithLogger(context.Background(), logger)

	shutdown, err := observability.SetupTelemetry(ctx, &observability.TelemetryConfig{
		Enabled: observability.IsTelemetryEnabled(),
		Version: version,
		Commit:  commit,
	})
	if err != nil {
		logger.Warn("telemetry initialization failed", slog.String("error", err.Error()))
	}

	if shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	outcome, err := launcher.New(launcher.Options{InstallDir: installDir}).Run(ctx, args)
	if err != nil {
		return fail(out, err)
	}

	return outcome
}

// resolveInstallDir returns the configured install directory, or the native
// directory beside the launcher executable when none is configured.
func resolveInstallDir(override string, executable func() (string, error)) (string, error) {
	dir, err := paths.ResolveInstallDir(override, executable)
	if err != nil {
		return "", clierrors.InstallDirUnavailable(err)
	}

	return dir, nil
}

// newLogger builds the shim's logger from configuration. An invalid logging
// setup never blocks the launch: it is reported and logging is discarded.
func newLogger(out *output.Writer, cfg *config.Config) (*slog.Logger, func() error) {
	logger, cleanup, err := observability.NewLogger(&observability.Config{
		Level:          cfg.LogLevel(),
		Format:         cfg.LogFormat(),
		LogFile:        cfg.LogFile(),
		StderrMode:     cfg.LogStderr(),
		InteractiveTTY: terminal.IsTerminal(os.Stderr),
		SessionID:      uuid.NewString(),
		CommandPath:    launcher.BaseName,
		Version:        version,
		Commit:         commit,
	})
	if err != nil {
		out.Warning("Ignoring logging configuration: %v", err)
		return slog.New(slog.DiscardHandler), nil
	}

	return logger, cleanup
}

// fail renders err to stderr and returns the matching exit outcome.
func fail(out *output.Writer, err error) launcher.Outcome {
	var cliErr *clierrors.CLIError
	if clierrors.As(err, &cliErr) {
		out.Problem(cliErr.Error(), cliErr.Details, cliErr.Hint)
		return launcher.Exit(cliErr.Code)
	}

	out.Problem(err.Error(), nil, "")

	return launcher.Exit(clierrors.ExitGeneral)
}
