// Package errors defines the user-facing failures of the launcher and the
// management CLI, each carrying a hint and the process exit code.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Process exit codes. Every failure before the toolbox starts uses
// ExitGeneral.
const (
	ExitGeneral = 1
	ExitNetwork = 3
	ExitConfig  = 4
	ExitUsage   = 64 // sysexits EX_USAGE
)

// ReleasesURL is where users can download the toolbox binary by hand.
const ReleasesURL = "https://github.com/sethdford/genai-toolbox/releases/latest"

// CLIError is an error rendered as a message, optional detail lines and a
// hint, followed by exit with Code.
type CLIError struct {
	Message string
	Hint    string
	Details []string
	Cause   error
	Code    int
}

func (e *CLIError) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// As reports whether err wraps a *CLIError and stores it in target.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// BinaryNotFound is the diagnostic for a toolbox binary that was never
// placed in the install directory. current names the running platform and
// supported lists the platforms that ship a binary.
func BinaryNotFound(path, current string, supported []string) *CLIError {
	details := append([]string{
		"The native binary was not downloaded during installation.",
		"This usually means:",
		"  1. Your platform is not supported (running on " + current + ")",
		"  2. The release assets are not available",
		"  3. Network error during installation",
		"",
		"Supported platforms:",
	}, bullets(supported)...)

	return &CLIError{
		Message: "Binary not found: " + path,
		Details: details,
		Hint:    "Try manual installation: " + ReleasesURL,
		Code:    ExitGeneral,
	}
}

func bullets(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "  - " + item
	}

	return out
}

// SpawnFailed is returned when the binary exists but the OS refused to
// start it.
func SpawnFailed(path string, cause error) *CLIError {
	return &CLIError{
		Message: "Failed to launch genai-toolbox",
		Details: []string{"binary: " + path},
		Hint:    "Check that the binary is executable, or reinstall it from " + ReleasesURL,
		Cause:   cause,
		Code:    ExitGeneral,
	}
}

// InstallDirUnavailable is returned when the launcher cannot locate its own
// executable and no install directory is configured.
func InstallDirUnavailable(cause error) *CLIError {
	return &CLIError{
		Message: "Cannot determine the toolbox install directory",
		Hint:    "Set GENAI_TOOLBOX_INSTALL_DIR to the directory containing the genai-toolbox binary",
		Cause:   cause,
		Code:    ExitGeneral,
	}
}

// ConfigFailed wraps a failure to persist configuration. operation reads as
// a verb phrase, e.g. "set config".
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your config directory or run 'toolbox-launcher doctor'",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// ReleaseLookupFailed wraps a failed GitHub release listing. Rate-limit
// responses get a GITHUB_TOKEN hint.
func ReleaseLookupFailed(cause error) *CLIError {
	hint := "Check your network connection"
	if cause != nil && rateLimited(cause) {
		hint = "Set GITHUB_TOKEN to avoid rate limits"
	}

	return &CLIError{
		Message: "Failed to look up toolbox releases",
		Hint:    hint,
		Cause:   cause,
		Code:    ExitNetwork,
	}
}

func rateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "403") || strings.Contains(msg, "rate limit")
}
