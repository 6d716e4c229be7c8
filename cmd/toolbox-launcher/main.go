// Package main is the entry point for toolbox-launcher, the management CLI
// for the genai-toolbox launcher.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sethdford/genai-toolbox-enterprise/internal/ansi"
	"github.com/sethdford/genai-toolbox-enterprise/internal/buildinfo"
	"github.com/sethdford/genai-toolbox-enterprise/internal/config"
	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
	"github.com/sethdford/genai-toolbox-enterprise/internal/observability"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const telemetryFlushTimeout = 5 * time.Second

func main() {
	launcher.Terminate(run())
}

func run() launcher.Outcome {
	// A panic mid-spinner would otherwise leave the cursor hidden.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprint(os.Stderr, ansi.ShowCursor)
			panic(r)
		}
	}()

	buildinfo.Version, buildinfo.Commit, buildinfo.Date = version, commit, date

	ctx, result := withOutcome(context.Background())
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		return launcher.Exit(handleError(output.Default(), err))
	}

	return *result
}

// usageErrors are the prefixes of cobra errors that mean the command line
// itself was wrong.
var usageErrors = []string{"unknown command", "unknown flag", "unknown shorthand flag", "required flag"}

// handleError renders err and returns the exit code for it.
func handleError(out *output.Writer, err error) int {
	var cliErr *clierrors.CLIError
	if clierrors.As(err, &cliErr) {
		out.Problem(cliErr.Error(), cliErr.Details, cliErr.Hint)
		return cliErr.Code
	}

	msg := err.Error()
	out.Failure("%s", msg)

	for _, prefix := range usageErrors {
		if !strings.HasPrefix(msg, prefix) {
			continue
		}

		if !strings.Contains(msg, "--help") {
			out.Info("Run 'toolbox-launcher --help' for usage")
		}

		return clierrors.ExitUsage
	}

	return clierrors.ExitGeneral
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	json      bool
	quiet     bool
	noColor   bool
	logLevel  string
	logFormat string
	logFile   string
	logStderr string
}

func (g *globalOptions) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&g.json, "json", false, "Output in JSON format")
	fs.BoolVar(&g.quiet, "quiet", false, "Minimal output (for CI)")
	fs.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: error, warn, info, debug")
	fs.StringVar(&g.logFormat, "log-format", "", "Log format: json, text")
	fs.StringVar(&g.logFile, "log-file", "", "Optional structured log file path")
	fs.StringVar(&g.logStderr, "log-stderr", "", "Structured logging to stderr: auto, on, off")
}

// apply configures out, the logger and tracing for cmd, and stores the
// writer and logger in the command context.
func (g *globalOptions) apply(cmd *cobra.Command, out *output.Writer) error {
	out.JSON = pickBoolFlagOrEnv(g.json, "GENAI_TOOLBOX_JSON")
	out.Quiet = pickBoolFlagOrEnv(g.quiet, "GENAI_TOOLBOX_QUIET")

	if g.noColor {
		out.SetNoColor(true)
	}

	logger, cleanup, err := observability.NewLogger(g.logConfig(cmd, out, config.Load()))
	if err != nil {
		return &clierrors.CLIError{
			Message: fmt.Sprintf("Invalid logging configuration: %v", err),
			Hint:    "Use --log-level (error|warn|info|debug), --log-format (json|text), --log-stderr (auto|on|off), and/or --log-file",
			Code:    clierrors.ExitUsage,
		}
	}

	slog.SetDefault(logger)

	ctx := observability.WithLogger(out.WithContext(cmd.Context()), logger)
	cmd.SetContext(ctx)

	if cleanup != nil {
		cmd.PostRunE = wrapPostRunCleanup(cmd.PostRunE, cleanup)
	}

	startTracing(ctx, cmd, logger)

	return nil
}

func (g *globalOptions) logConfig(cmd *cobra.Command, out *output.Writer, cfg *config.Config) *observability.Config {
	return &observability.Config{
		Level:          pickFlagOrEnv(g.logLevel, "GENAI_TOOLBOX_LOG_LEVEL", cfg.LogLevel()),
		Format:         pickFlagOrEnv(g.logFormat, "GENAI_TOOLBOX_LOG_FORMAT", cfg.LogFormat()),
		LogFile:        pickFlagOrEnv(g.logFile, "GENAI_TOOLBOX_LOG_FILE", cfg.LogFile()),
		StderrMode:     pickFlagOrEnv(g.logStderr, "GENAI_TOOLBOX_LOG_STDERR", cfg.LogStderr()),
		InteractiveTTY: out.Terminal().IsTTY,
		SessionID:      uuid.NewString(),
		CommandPath:    cmd.CommandPath(),
		Version:        version,
		Commit:         commit,
	}
}

// startTracing installs the OTLP pipeline when OTEL_ENABLED is set and
// flushes it after cmd runs. Failures only warn.
func startTracing(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) {
	shutdown, err := observability.SetupTelemetry(ctx, &observability.TelemetryConfig{
		Enabled: observability.IsTelemetryEnabled(),
		Version: version,
		Commit:  commit,
	})
	if err != nil {
		logger.Warn("telemetry initialization failed", slog.String("error", err.Error()))
	}

	if shutdown == nil {
		return
	}

	cmd.PostRunE = wrapNamedPostRunCleanup(cmd.PostRunE, "telemetry resources", func() error {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()

		return shutdown(flushCtx)
	})
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	out := output.Default()

	rootCmd := &cobra.Command{
		Use:   "toolbox-launcher",
		Short: "Manage the genai-toolbox launcher",
		Long: `toolbox-launcher inspects and drives the genai-toolbox launcher.

The launcher runs the native genai-toolbox binary installed in its native/
directory, forwarding arguments, stdio, exit status, and signals.

Get started:
  toolbox-launcher which      Show the binary the launcher runs
  toolbox-launcher doctor     Diagnose a missing or broken install
  toolbox-launcher exec ...   Run the toolbox through the launcher`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.apply(cmd, out)
		},
	}

	opts.bind(rootCmd.PersistentFlags())

	rootCmd.SuggestionsMinimumDistance = 2
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &clierrors.CLIError{
			Message: err.Error(),
			Hint:    fmt.Sprintf("Run '%s --help' for available flags", cmd.CommandPath()),
			Code:    clierrors.ExitUsage,
		}
	})

	rootCmd.AddCommand(
		newExecCmd(),
		newWhichCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newPathsCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)

	return rootCmd
}

func wrapPostRunCleanup(postRun func(*cobra.Command, []string) error, cleanup func() error) func(*cobra.Command, []string) error {
	return wrapNamedPostRunCleanup(postRun, "logger resources", cleanup)
}

// wrapNamedPostRunCleanup runs cleanup after postRun. A postRun error takes
// precedence over a cleanup error.
func wrapNamedPostRunCleanup(postRun func(*cobra.Command, []string) error, name string, cleanup func() error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var runErr error
		if postRun != nil {
			runErr = postRun(cmd, args)
		}

		cleanupErr := cleanup()

		switch {
		case runErr != nil:
			return runErr
		case cleanupErr != nil:
			return fmt.Errorf("cleanup %s: %w", name, cleanupErr) //nolint:rawerror // internal cleanup, not user-facing
		default:
			return nil
		}
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func pickBoolFlagOrEnv(flagValue bool, envKey string) bool {
	return flagValue || truthy(os.Getenv(envKey))
}

func pickFlagOrEnv(flagValue, envKey, fallback string) string {
	for _, v := range []string{flagValue, os.Getenv(envKey)} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return fallback
}

// noArgs rejects positional arguments with a usage error. cobra.NoArgs
// reports them as an unknown command.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}

	return &clierrors.CLIError{
		Message: fmt.Sprintf("'%s' accepts no arguments", cmd.CommandPath()),
		Hint:    fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
		Code:    clierrors.ExitUsage,
	}
}
