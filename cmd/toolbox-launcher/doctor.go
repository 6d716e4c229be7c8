package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sethdford/genai-toolbox-enterprise/internal/config"
	"github.com/sethdford/genai-toolbox-enterprise/internal/doctor"
	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/observability"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
	"github.com/sethdford/genai-toolbox-enterprise/internal/release"
)

// DoctorCheck is a single diagnostic result for JSON output.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// DoctorReport is the JSON form of a doctor run.
type DoctorReport struct {
	Checks   []DoctorCheck `json:"checks"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Warnings int           `json:"warnings"`
}

func newDoctorCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose a missing or broken toolbox install",
		Long: `Run diagnostic checks against the genai-toolbox installation.

Checks performed:
  - Platform support
  - Install directory and binary presence
  - Binary permissions and version
  - Release assets published for this platform

Release lookups are cached for 24 hours; --refresh forces a new lookup.
Exits non-zero when any check fails.`,
		Example: `  toolbox-launcher doctor
  toolbox-launcher doctor --refresh --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			dir, err := installDir(cfg)
			if err != nil {
				return err
			}

			env := doctor.Environment{
				InstallDir: dir,
				Refresh:    refresh,
			}

			if inspector, err := release.NewInspector(cfg.ReleaseRepo()); err == nil {
				env.Inspector = inspector
			} else {
				observability.FromContext(cmd.Context()).Warn("release inspector unavailable",
					slog.String("event.type", "doctor.release"),
					slog.String("error", err.Error()),
				)
			}

			results := runDoctor(cmd.Context(), out, env)

			_, failed, _ := doctor.Summary(results)
			if failed > 0 {
				return &clierrors.CLIError{
					Message: fmt.Sprintf("%d check(s) failed", failed),
					Code:    clierrors.ExitGeneral,
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached release information")

	return cmd
}

func runDoctor(ctx context.Context, out *output.Writer, env doctor.Environment) []doctor.Result {
	runner := doctor.New(env)

	if out.JSON {
		results := runner.Run(ctx)
		_ = out.PrintJSON(doctorReport(results))

		return results
	}

	out.Println("genai-toolbox Doctor")
	out.Println("====================")
	out.Println()

	spin := out.Spinner("Running checks")
	spin.Start()

	results := runner.Run(ctx)

	switch _, failed, warnings := doctor.Summary(results); {
	case failed > 0:
		spin.StopWithFailure("")
	case warnings > 0:
		spin.StopWithWarning("")
	default:
		spin.StopWithSuccess("")
	}

	out.Println()

	renderDoctorResults(out, results)

	return results
}

func renderDoctorResults(out *output.Writer, results []doctor.Result) {
	doctor.RenderResults(results, out.Print, out.Success, out.Warning, out.Failure, out.Muted)

	passed, failed, warnings := doctor.Summary(results)

	out.Println()
	out.Print("%d passed", passed)

	if failed > 0 {
		out.Print(", %d failed", failed)
	}

	if warnings > 0 {
		out.Print(", %d warning(s)", warnings)
	}

	out.Println()
}

func doctorReport(results []doctor.Result) DoctorReport {
	report := DoctorReport{Checks: make([]DoctorCheck, 0, len(results))}

	for _, r := range results {
		report.Checks = append(report.Checks, DoctorCheck{
			Name:    r.Name,
			Status:  r.Status.String(),
			Message: r.Message,
			Detail:  r.Detail,
		})
	}

	report.Passed, report.Failed, report.Warnings = doctor.Summary(results)

	return report
}
