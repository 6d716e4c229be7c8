// Package doctor provides diagnostic checks for a toolbox installation.
//
// The checks walk through the causes a missing-binary diagnostic lists:
//   - the platform has no published binary
//   - the install directory or binary is missing or unusable
//   - the latest release carries no asset for the platform
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sethdford/genai-toolbox-enterprise/internal/ansi"
	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
	"github.com/sethdford/genai-toolbox-enterprise/internal/observability"
	"github.com/sethdford/genai-toolbox-enterprise/internal/release"
)

const (
	versionTimeout = 5 * time.Second
	inspectTimeout   = 10 * time.Second
)

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

// Result holds the outcome of a single check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Detail  string // Optional additional detail
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Inspector looks up release assets for a platform.
type Inspector interface {
	Repo() string
	Inspect(ctx context.Context, platform launcher.Platform) (*release.Info, error)
}

// Environment describes the installation under diagnosis.
type Environment struct {
	Platform   launcher.Platform
	InstallDir string

	// Inspector is nil when release lookups are unavailable.
	Inspector Inspector

	// Refresh ignores the cached release lookup.
	Refresh bool

	// Stat defaults to os.Stat.
	Stat func(name string) (fs.FileInfo, error)

	// RunVersion returns the output of "<binary> --version".
	RunVersion func(ctx context.Context, binary string) (string, error)
}

// Runner executes diagnostic checks.
type Runner struct {
	env    Environment
	checks []namedCheck

	// installedVersion is filled in by the binary version check.
	installedVersion string
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a runner with the default checks for env.
func New(env Environment) *Runner {
	if env.Platform == (launcher.Platform{}) {
		env.Platform = launcher.Current()
	}

	if env.Stat == nil {
		env.Stat = os.Stat
	}

	if env.RunVersion == nil {
		env.RunVersion = runVersion
	}

	r := &Runner{env: env}

	r.AddCheck("Platform", r.checkPlatform)
	r.AddCheck("Install Directory", r.checkInstallDir)
	r.AddCheck("Binary", r.checkBinary)
	r.AddCheck("Executable", r.checkExecutable)
	r.AddCheck("Binary Version", r.checkBinaryVersion)
	r.AddCheck("Release Assets", r.checkReleaseAssets)

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		result := nc.check(ctx)
		result.Name = nc.name
		results = append(results, result)
	}

	return results
}

// Summary returns counts of passed, failed, and warning checks.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

func (r *Runner) binaryPath() string {
	return launcher.BinaryPath(r.env.InstallDir, r.env.Platform.OS)
}

// binaryInfo returns the binary's file info when a regular file is present.
func (r *Runner) binaryInfo() (fs.FileInfo, bool) {
	info, err := r.env.Stat(r.binaryPath())
	if err != nil || info.IsDir() {
		return nil, false
	}

	return info, true
}

func (r *Runner) checkPlatform(context.Context) Result {
	if launcher.IsSupported(r.env.Platform) {
		return Result{
			Status:  StatusPass,
			Message: r.env.Platform.String(),
		}
	}

	return Result{
		Status:  StatusFail,
		Message: fmt.Sprintf("%s is not supported", r.env.Platform),
		Detail:  "Supported: " + strings.Join(launcher.SupportedLabels(), ", "),
	}
}

func (r *Runner) checkInstallDir(context.Context) Result {
	dir := r.env.InstallDir

	info, err := r.env.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{
				Status:  StatusFail,
				Message: fmt.Sprintf("%s does not exist", dir),
				Detail:  "Reinstall genai-toolbox or set GENAI_TOOLBOX_INSTALL_DIR",
			}
		}

		return Result{
			Status:  StatusFail,
			Message: dir,
			Detail:  err.Error(),
		}
	}

	if !info.IsDir() {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s is not a directory", dir),
		}
	}

	if release.NeedsElevation(dir) {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s (read-only)", dir),
			Detail:  "Reinstalling the binary here requires elevated permissions",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: dir,
	}
}

func (r *Runner) checkBinary(context.Context) Result {
	path := r.binaryPath()

	if _, ok := r.binaryInfo(); !ok {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("Not found at %s", path),
			Detail:  "Try manual installation: " + clierrors.ReleasesURL,
		}
	}

	return Result{
		Status:  StatusPass,
		Message: path,
	}
}

func (r *Runner) checkExecutable(context.Context) Result {
	if r.env.Platform.OS == "windows" {
		return Result{
			Status:  StatusPass,
			Message: "Not applicable on Windows",
		}
	}

	info, ok := r.binaryInfo()
	if !ok {
		return Result{
			Status:  StatusWarn,
			Message: "Skipped (binary not found)",
		}
	}

	mode := info.Mode().Perm()
	if mode&0o111 == 0 {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("Not executable (mode %04o)", mode),
			Detail:  "Run: chmod +x " + r.binaryPath(),
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("mode %04o", mode),
	}
}

func (r *Runner) checkBinaryVersion(ctx context.Context) Result {
	if _, ok := r.binaryInfo(); !ok {
		return Result{
			Status:  StatusWarn,
			Message: "Skipped (binary not found)",
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := r.env.RunVersion(runCtx, r.binaryPath())
	if err != nil {
		return Result{
			Status:  StatusFail,
			Message: "Binary failed to run",
			Detail:  err.Error(),
		}
	}

	out = ansi.Strip(out)

	version, ok := release.ParseVersion(out)
	if !ok {
		return Result{
			Status:  StatusWarn,
			Message: "Version unknown",
			Detail:  firstLine(out),
		}
	}

	r.installedVersion = version

	return Result{
		Status:  StatusPass,
		Message: "v" + version,
	}
}

func (r *Runner) checkReleaseAssets(ctx context.Context) Result {
	if release.IsDisabled() {
		return Result{
			Status:  StatusPass,
			Message: "Release checks disabled",
		}
	}

	if r.env.Inspector == nil {
		return Result{
			Status:  StatusWarn,
			Message: "Release lookup unavailable",
		}
	}

	info, cached, err := r.inspect(ctx)
	if err != nil {
		lookupErr := clierrors.ReleaseLookupFailed(err)

		return Result{
			Status:  StatusWarn,
			Message: "Could not check releases of " + r.env.Inspector.Repo(),
			Detail:  lookupErr.Hint,
		}
	}

	suffix := ""
	if cached {
		suffix = " (cached)"
	}

	if !info.Available {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("No %s asset published in %s%s", info.Platform, r.env.Inspector.Repo(), suffix),
			Detail:  "Release assets for this platform are not available",
		}
	}

	if r.installedVersion != "" && release.Compare(r.installedVersion, info.LatestVersion) {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s available (installed v%s)%s", info.LatestVersion, r.installedVersion, suffix),
			Detail:  info.ReleaseURL,
		}
	}

	if !info.Checksummed {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s %s%s", info.LatestVersion, info.AssetName, suffix),
			Detail:  "Release has no " + release.ChecksumsFile,
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("v%s %s%s", info.LatestVersion, info.AssetName, suffix),
	}
}

// inspect returns the cached release info when it is fresh, otherwise it queries
// the release source and refreshes the cache.
func (r *Runner) inspect(ctx context.Context) (*release.Info, bool, error) {
	repo := r.env.Inspector.Repo()

	state, err := release.LoadState()
	if err != nil {
		state = &release.State{}
	}

	if !r.env.Refresh && !state.ShouldCheck(repo, r.env.Platform.String()) {
		return state.Info, true, nil
	}

	inspectCtx, cancel := context.WithTimeout(ctx, inspectTimeout)
	defer cancel()

	info, err := r.env.Inspector.Inspect(inspectCtx, r.env.Platform)
	if err != nil {
		return nil, false, err
	}

	state.Record(repo, info)

	if err := release.SaveState(state); err != nil {
		observability.FromContext(ctx).Debug("release lookup not cached",
			slog.String("event.type", "doctor.release"),
			slog.String("error", err.Error()),
		)
	}

	return info, false, nil
}

func runVersion(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "--version").CombinedOutput() //nolint:gosec // G204: binary resolved from the install directory
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", binary, err)
	}

	return string(out), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}

	return s
}

// RenderResults formats diagnostic results to the given output writer.
func RenderResults(results []Result, printFn, successFn, warningFn, failureFn, mutedFn func(format string, args ...any)) {
	maxNameLen := 0
	for _, r := range results {
		if len(r.Name) > maxNameLen {
			maxNameLen = len(r.Name)
		}
	}

	for _, r := range results {
		symbol := r.Status.Symbol()
		padding := maxNameLen - len(r.Name) + 4

		switch r.Status {
		case StatusPass:
			successFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		case StatusWarn:
			warningFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		case StatusFail:
			failureFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		default:
			printFn("%s %-*s%s\n", symbol, len(r.Name)+padding, r.Name, r.Message)
		}

		if r.Detail != "" {
			mutedFn("    %s", r.Detail)
		}
	}
}

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the status symbol for display.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return checkMark
	case StatusWarn:
		return warningMark
	case StatusFail:
		return xMark
	default:
		return "?"
	}
}

const (
	checkMark   = "\u2713" // ✓
	xMark       = "\u2717" // ✗
	warningMark = "\u26A0" // ⚠
)
