package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sethdford/genai-toolbox-enterprise/internal/config"
	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
	"github.com/sethdford/genai-toolbox-enterprise/internal/paths"
)

type outcomeKey struct{}

// withOutcome returns a context carrying a slot for the toolbox outcome of an
// exec run. The slot stays a zero exit when no toolbox was run.
func withOutcome(ctx context.Context) (context.Context, *launcher.Outcome) {
	slot := &launcher.Outcome{}
	return context.WithValue(ctx, outcomeKey{}, slot), slot
}

func recordOutcome(ctx context.Context, o launcher.Outcome) {
	if slot, ok := ctx.Value(outcomeKey{}).(*launcher.Outcome); ok {
		*slot = o
	}
}

// installDir resolves the toolbox install directory from configuration.
func installDir(cfg *config.Config) (string, error) {
	dir, err := paths.ResolveInstallDir(cfg.InstallDir(), os.Executable)
	if err != nil {
		return "", clierrors.InstallDirUnavailable(err)
	}

	return dir, nil
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec [args...]",
		Short: "Run genai-toolbox through the launcher",
		Long: `Run the native genai-toolbox binary exactly as the genai-toolbox shim does.

Every argument after "exec" is passed to the toolbox unchanged, flags included.
The toolbox inherits stdin, stdout, and stderr, and its exit status or
terminating signal becomes toolbox-launcher's.`,
		Example: `  toolbox-launcher exec --help
  toolbox-launcher exec --tools-file tools.yaml --port 5000`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := installDir(config.Load())
			if err != nil {
				return err
			}

			outcome, err := launcher.New(launcher.Options{InstallDir: dir}).Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			recordOutcome(cmd.Context(), outcome)

			return nil
		},
	}
}

// WhichInfo describes the resolved toolbox binary for JSON output.
type WhichInfo struct {
	Path       string `json:"path"`
	InstallDir string `json:"install_dir"`
	Platform   string `json:"platform"`
}

func newWhichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Show the toolbox binary the launcher runs",
		Long: `Print the path of the native genai-toolbox binary for this platform.

Fails with the same diagnostic as the launcher when the binary is missing.`,
		Example: `  toolbox-launcher which
  toolbox-launcher which --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			dir, err := installDir(config.Load())
			if err != nil {
				return err
			}

			l := launcher.New(launcher.Options{InstallDir: dir})

			path, err := l.Resolve()
			if err != nil {
				return err
			}

			if out.JSON {
				return out.PrintJSON(WhichInfo{
					Path:       path,
					InstallDir: dir,
					Platform:   l.Platform().String(),
				})
			}

			out.Print("%s\n", path)

			return nil
		},
	}
}
