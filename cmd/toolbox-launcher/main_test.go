package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
	"github.com/sethdford/genai-toolbox-enterprise/internal/terminal"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		contains []string
	}{
		{
			name:     "binary not found",
			err:      clierrors.BinaryNotFound("/opt/native/genai-toolbox", "linux/amd64", []string{"Linux (x64 and arm64)"}),
			code:     clierrors.ExitGeneral,
			contains: []string{"Binary not found: /opt/native/genai-toolbox", "  Supported platforms:", "Try manual installation"},
		},
		{
			name:     "spawn failed",
			err:      clierrors.SpawnFailed("/opt/native/genai-toolbox", errors.New("permission denied")),
			code:     clierrors.ExitGeneral,
			contains: []string{"Failed to launch genai-toolbox: permission denied", "  binary: /opt/native/genai-toolbox"},
		},
		{
			name:     "config",
			err:      clierrors.ConfigFailed("set config", errors.New("read-only file system")),
			code:     clierrors.ExitConfig,
			contains: []string{"Failed to set config: read-only file system", "toolbox-launcher doctor"},
		},
		{
			name:     "unknown command",
			err:      errors.New(`unknown command "wich" for "toolbox-launcher"`),
			code:     clierrors.ExitUsage,
			contains: []string{"unknown command", "Run 'toolbox-launcher --help' for usage"},
		},
		{
			name:     "unknown flag",
			err:      errors.New("unknown flag: --bogus"),
			code:     clierrors.ExitUsage,
			contains: []string{"unknown flag: --bogus"},
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			code:     clierrors.ExitGeneral,
			contains: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			out := output.NewWriter(&buf, &buf, &terminal.Info{NoColor: true})

			if got := handleError(out, tt.err); got != tt.code {
				t.Errorf("handleError() = %d, want %d", got, tt.code)
			}

			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestPickFlagOrEnv(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		env      string
		fallback string
		want     string
	}{
		{name: "flag wins", flag: "debug", env: "warn", fallback: "info", want: "debug"},
		{name: "env when no flag", env: "warn", fallback: "info", want: "warn"},
		{name: "fallback", fallback: "info", want: "info"},
		{name: "blank flag ignored", flag: "  ", env: "error", fallback: "info", want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GENAI_TOOLBOX_TEST_VALUE", tt.env)

			if got := pickFlagOrEnv(tt.flag, "GENAI_TOOLBOX_TEST_VALUE", tt.fallback); got != tt.want {
				t.Errorf("pickFlagOrEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickBoolFlagOrEnv(t *testing.T) {
	tests := []struct {
		flag bool
		env  string
		want bool
	}{
		{flag: true, want: true},
		{env: "1", want: true},
		{env: "TRUE", want: true},
		{env: "yes", want: true},
		{env: "0", want: false},
		{env: "", want: false},
	}

	for _, tt := range tests {
		t.Setenv("GENAI_TOOLBOX_TEST_BOOL", tt.env)

		if got := pickBoolFlagOrEnv(tt.flag, "GENAI_TOOLBOX_TEST_BOOL"); got != tt.want {
			t.Errorf("pickBoolFlagOrEnv(%v, %q) = %v, want %v", tt.flag, tt.env, got, tt.want)
		}
	}
}

func TestRootCmd_CompletionGeneratesScript(t *testing.T) {
	var buf bytes.Buffer

	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})

	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}

	if !strings.Contains(buf.String(), "toolbox-launcher") {
		t.Errorf("completion script does not mention the command:\n%.200s", buf.String())
	}
}

func TestRootCmd_CompletionRejectsUnknownShell(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"completion", "tcsh"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}
