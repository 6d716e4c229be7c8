package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// recorder captures failures instead of stopping the test.
type recorder struct {
	testing.TB
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recorder) Logf(string, ...any) {}

func TestAssertGolden(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.MkdirAll("testdata", 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join("testdata", "which.golden"), []byte("/opt/native/genai-toolbox\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		got         string
		golden      string
		wantFailure string
	}{
		{
			name:   "match",
			got:    "/opt/native/genai-toolbox\n",
			golden: "which.golden",
		},
		{
			name:        "different line",
			got:         "/usr/local/native/genai-toolbox\n",
			golden:      "which.golden",
			wantFailure: "line 1 differs",
		},
		{
			name:        "extra output",
			got:         "/opt/native/genai-toolbox\nextra\n",
			golden:      "which.golden",
			wantFailure: "line 2 differs",
		},
		{
			name:        "missing golden file",
			got:         "anything",
			golden:      "absent.golden",
			wantFailure: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{TB: t}

			AssertGolden(rec, tt.got, tt.golden)

			if tt.wantFailure == "" {
				if len(rec.failures) != 0 {
					t.Fatalf("AssertGolden() failed: %v", rec.failures)
				}

				return
			}

			if len(rec.failures) != 1 || !strings.Contains(rec.failures[0], tt.wantFailure) {
				t.Fatalf("failures = %q, want one containing %q", rec.failures, tt.wantFailure)
			}
		})
	}
}

func TestFirstDifference(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		want     string
		line     int
		gotLine  string
		wantLine string
	}{
		{name: "second line", got: "a\nb\n", want: "a\nc\n", line: 2, gotLine: "b", wantLine: "c"},
		{name: "got shorter", got: "a", want: "a\nb", line: 2, gotLine: "<end of output>", wantLine: "b"},
		{name: "trailing newline", got: "a\n", want: "a", line: 2, gotLine: "", wantLine: "<end of output>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, g, w := firstDifference(tt.got, tt.want)
			if line != tt.line || g != tt.gotLine || w != tt.wantLine {
				t.Errorf("firstDifference() = (%d, %q, %q), want (%d, %q, %q)", line, g, w, tt.line, tt.gotLine, tt.wantLine)
			}
		})
	}
}
