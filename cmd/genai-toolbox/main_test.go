package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
	"github.com/sethdford/genai-toolbox-enterprise/internal/terminal"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"genai-toolbox": main,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("GENAI_TOOLBOX_INSTALL_DIR", filepath.Join(env.WorkDir, "native"))
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("XDG_STATE_HOME", filepath.Join(env.WorkDir, ".state"))
			env.Setenv("NO_COLOR", "1")
			env.Setenv("OTEL_ENABLED", "")

			return nil
		},
	})
}

func TestResolveInstallDir(t *testing.T) {
	exeDir := t.TempDir()
	exe := filepath.Join(exeDir, "genai-toolbox")

	if err := os.WriteFile(exe, nil, 0o755); err != nil {
		t.Fatal(err)
	}

	realExeDir, err := filepath.EvalSymlinks(exeDir)
	if err != nil {
		t.Fatal(err)
	}

	override := t.TempDir()

	tests := []struct {
		name       string
		override   string
		executable func() (string, error)
		want       string
		wantErr    bool
	}{
		{
			name:       "override wins",
			override:   override,
			executable: func() (string, error) { return "", errors.New("not consulted") },
			want:       override,
		},
		{
			name:       "beside executable",
			executable: func() (string, error) { return exe, nil },
			want:       filepath.Join(realExeDir, "native"),
		},
		{
			name:       "executable unknown",
			executable: func() (string, error) { return "", errors.New("no /proc") },
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveInstallDir(tt.override, tt.executable)
			if tt.wantErr {
				var cliErr *clierrors.CLIError
				if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitGeneral {
					t.Fatalf("err = %v, want CLIError with exit 1", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("resolveInstallDir() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("resolveInstallDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveInstallDir_RelativeOverride(t *testing.T) {
	t.Chdir(t.TempDir())

	got, err := resolveInstallDir("native", nil)
	if err != nil {
		t.Fatal(err)
	}

	if !filepath.IsAbs(got) || filepath.Base(got) != "native" {
		t.Errorf("resolveInstallDir() = %q, want absolute native dir", got)
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		contains []string
	}{
		{
			name:     "binary not found",
			err:      clierrors.BinaryNotFound("/opt/native/genai-toolbox", "linux/riscv64", []string{"Linux (x64 and arm64)"}),
			code:     1,
			contains: []string{"Binary not found: /opt/native/genai-toolbox", "running on linux/riscv64", "  - Linux (x64 and arm64)"},
		},
		{
			name:     "spawn failed",
			err:      clierrors.SpawnFailed("/opt/native/genai-toolbox", errors.New("exec format error")),
			code:     1,
			contains: []string{"Failed to launch genai-toolbox: exec format error"},
		},
		{
			name:     "install dir",
			err:      clierrors.InstallDirUnavailable(errors.New("no executable")),
			code:     1,
			contains: []string{"GENAI_TOOLBOX_INSTALL_DIR"},
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			code:     1,
			contains: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			out := output.NewWriter(&stdout, &stderr, &terminal.Info{})

			got := fail(out, tt.err)
			if got.Code != tt.code || got.Signaled() {
				t.Errorf("fail() = %v, want exit %d", got, tt.code)
			}

			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}

			for _, want := range tt.contains {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr missing %q:\n%s", want, stderr.String())
				}
			}
		})
	}
}
