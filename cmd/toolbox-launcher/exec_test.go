package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
)

// installScript writes a shell script as the toolbox binary of a fresh install
// directory and points the launcher configuration at it.
func installScript(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake toolbox is a shell script")
	}

	isolateConfig(t)

	dir := t.TempDir()
	path := launcher.BinaryPath(dir, runtime.GOOS)

	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GENAI_TOOLBOX_INSTALL_DIR", dir)

	return path
}

func TestWithOutcome_DefaultsToSuccess(t *testing.T) {
	_, slot := withOutcome(context.Background())

	if slot.Code != 0 || slot.Signaled() {
		t.Errorf("initial outcome = %v, want exit 0", *slot)
	}

	// Recording without a slot is a no-op.
	recordOutcome(context.Background(), launcher.Exit(3))
}

func TestExec_PropagatesExitCode(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	installScript(t, `printf '%s\n' "$@" > "$ARGS_FILE"
exit 7
`)
	t.Setenv("ARGS_FILE", argsFile)

	ctx, slot := withOutcome(t.Context())

	cmd := newExecCmd()
	cmd.SetArgs([]string{"--tools-file", "tools.yaml", "--help"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("exec should succeed: %v", err)
	}

	if slot.Code != 7 || slot.Signaled() {
		t.Errorf("outcome = %v, want exit 7", *slot)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "--tools-file\ntools.yaml\n--help\n"; got != want {
		t.Errorf("toolbox args = %q, want %q", got, want)
	}
}

func TestExec_MissingBinary(t *testing.T) {
	isolateConfig(t)
	t.Setenv("GENAI_TOOLBOX_INSTALL_DIR", t.TempDir())

	ctx, slot := withOutcome(t.Context())

	cmd := newExecCmd()
	cmd.SetArgs([]string{"serve"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(ctx)

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %T: %v", err, err)
	}

	if cliErr.Code != clierrors.ExitGeneral || !strings.HasPrefix(cliErr.Message, "Binary not found: ") {
		t.Errorf("error = %+v, want binary not found", cliErr)
	}

	if slot.Code != 0 {
		t.Errorf("outcome recorded for a failed launch: %v", *slot)
	}
}

func TestWhich(t *testing.T) {
	path := installScript(t, "exit 0\n")

	out, buf := testWriter()

	cmd := newWhichCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetContext(out.WithContext(t.Context()))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("which should succeed: %v", err)
	}

	if got := buf.String(); got != path+"\n" {
		t.Errorf("which = %q, want %q", got, path+"\n")
	}
}

func TestWhich_JSON(t *testing.T) {
	path := installScript(t, "exit 0\n")

	out, buf := testWriter()
	out.JSON = true

	cmd := newWhichCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetContext(out.WithContext(t.Context()))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("which --json should succeed: %v", err)
	}

	var info WhichInfo
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if info.Path != path || info.InstallDir != filepath.Dir(path) || info.Platform != launcher.Current().String() {
		t.Errorf("which --json = %+v", info)
	}
}

func TestWhich_MissingBinary(t *testing.T) {
	isolateConfig(t)
	t.Setenv("GENAI_TOOLBOX_INSTALL_DIR", t.TempDir())

	out, buf := testWriter()

	cmd := newWhichCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetContext(out.WithContext(t.Context()))

	err := cmd.Execute()

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitGeneral {
		t.Fatalf("expected binary-not-found CLIError, got %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("which printed output for a missing binary: %q", buf.String())
	}
}
