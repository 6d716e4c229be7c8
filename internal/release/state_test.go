package release

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setTestStateHome points the state root at a temp directory.
func setTestStateHome(t *testing.T) string {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)

	return filepath.Join(tmp, "genai-toolbox")
}

func TestLoadState_NoFile(t *testing.T) {
	setTestStateHome(t)

	state, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}

	if !state.LastCheckedAt.IsZero() {
		t.Errorf("expected zero LastCheckedAt, got %v", state.LastCheckedAt)
	}

	if state.Info != nil {
		t.Errorf("expected nil Info, got %+v", state.Info)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	root := setTestStateHome(t)

	now := time.Now().Truncate(time.Second)
	original := &State{
		LastCheckedAt: now,
		Repo:          "sethdford/genai-toolbox",
		Info: &Info{
			Platform:      "linux/amd64",
			Available:     true,
			LatestVersion: "1.2.3",
			AssetName:     "genai-toolbox_1.2.3_linux_amd64.tar.gz",
			ReleaseURL:    "https://example.com/release",
			Checksummed:   true,
		},
	}

	if err := SaveState(original); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "release-check.json")); err != nil {
		t.Fatalf("state file was not created: %v", err)
	}

	loaded, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}

	if !loaded.LastCheckedAt.Equal(now) {
		t.Errorf("LastCheckedAt: got %v, want %v", loaded.LastCheckedAt, now)
	}

	if loaded.Repo != original.Repo {
		t.Errorf("Repo: got %q, want %q", loaded.Repo, original.Repo)
	}

	if loaded.Info == nil || *loaded.Info != *original.Info {
		t.Errorf("Info: got %+v, want %+v", loaded.Info, original.Info)
	}
}

func TestSaveState_OverwritesExisting(t *testing.T) {
	setTestStateHome(t)

	first := &State{LastCheckedAt: time.Now(), Info: &Info{LatestVersion: "1.0.0"}}
	if err := SaveState(first); err != nil {
		t.Fatalf("first SaveState: %v", err)
	}

	second := &State{LastCheckedAt: time.Now(), Info: &Info{LatestVersion: "2.0.0"}}
	if err := SaveState(second); err != nil {
		t.Fatalf("second SaveState: %v", err)
	}

	loaded, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if loaded.Info == nil || loaded.Info.LatestVersion != "2.0.0" {
		t.Errorf("expected 2.0.0 after overwrite, got %+v", loaded.Info)
	}
}

func TestLoadState_CorruptedFile(t *testing.T) {
	root := setTestStateHome(t)

	if err := os.MkdirAll(root, 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "release-check.json"), []byte("not json{{{"), 0o600); err != nil {
		t.Fatal(err)
	}

	state, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState returned error for corrupted file: %v", err)
	}

	if !state.LastCheckedAt.IsZero() {
		t.Error("expected zero-value state for corrupted file")
	}
}

func TestShouldCheck(t *testing.T) {
	const repo = "sethdford/genai-toolbox"

	info := &Info{Platform: "linux/amd64"}

	tests := []struct {
		name     string
		state    State
		repo     string
		platform string
		want     bool
	}{
		{name: "zero time", state: State{}, repo: repo, platform: "linux/amd64", want: true},
		{name: "fresh", state: State{LastCheckedAt: time.Now(), Repo: repo, Info: info}, repo: repo, platform: "linux/amd64", want: false},
		{name: "stale", state: State{LastCheckedAt: time.Now().Add(-25 * time.Hour), Repo: repo, Info: info}, repo: repo, platform: "linux/amd64", want: true},
		{name: "other repo", state: State{LastCheckedAt: time.Now(), Repo: "acme/fork", Info: info}, repo: repo, platform: "linux/amd64", want: true},
		{name: "other platform", state: State{LastCheckedAt: time.Now(), Repo: repo, Info: info}, repo: repo, platform: "darwin/arm64", want: true},
		{name: "no info", state: State{LastCheckedAt: time.Now(), Repo: repo}, repo: repo, platform: "linux/amd64", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.ShouldCheck(tt.repo, tt.platform); got != tt.want {
				t.Errorf("ShouldCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord(t *testing.T) {
	state := &State{}
	info := &Info{Platform: "darwin/arm64", Available: true}

	state.Record("sethdford/genai-toolbox", info)

	if state.LastCheckedAt.IsZero() {
		t.Error("Record did not set LastCheckedAt")
	}

	if state.ShouldCheck("sethdford/genai-toolbox", "darwin/arm64") {
		t.Error("ShouldCheck returned true right after Record")
	}
}
