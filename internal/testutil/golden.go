// Package testutil compares command output against golden files kept in a
// package's testdata directory.
package testutil

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files with the current output")

// AssertGolden fails tb when got differs from testdata/<name>. Running the
// tests with -update rewrites the file instead.
func AssertGolden(tb testing.TB, got, name string) {
	tb.Helper()

	path := filepath.Join("testdata", name)

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("create %s: %v", filepath.Dir(path), err)
			return
		}

		if err := os.WriteFile(path, []byte(got), 0o644); err != nil { //nolint:gosec // golden files are checked in
			tb.Fatalf("write %s: %v", path, err)
			return
		}

		tb.Logf("updated %s", path)

		return
	}

	want, err := os.ReadFile(path) //nolint:gosec // G304: path under testdata
	if errors.Is(err, fs.ErrNotExist) {
		tb.Fatalf("%s does not exist; run the tests with -update to create it", path)
		return
	}

	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
		return
	}

	if got == string(want) {
		return
	}

	line, gotLine, wantLine := firstDifference(got, string(want))
	tb.Errorf("%s: line %d differs\n got: %q\nwant: %q\n\nfull output:\n%s\nrun the tests with -update to accept it",
		path, line, gotLine, wantLine, got)
}

// firstDifference returns the 1-based number of the first line where got and
// want disagree, with both versions of that line.
func firstDifference(got, want string) (int, string, string) {
	gotLines := strings.Split(got, "\n")
	wantLines := strings.Split(want, "\n")

	for i := 0; ; i++ {
		g, w := lineAt(gotLines, i), lineAt(wantLines, i)
		if g != w || i >= len(gotLines) || i >= len(wantLines) {
			return i + 1, g, w
		}
	}
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}

	return "<end of output>"
}
