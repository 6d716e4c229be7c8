package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sethdford/genai-toolbox-enterprise/internal/paths"
)

// checkInterval is how long a cached lookup stays fresh.
const checkInterval = 24 * time.Hour

// State is the cached result of the last release lookup.
type State struct {
	LastCheckedAt time.Time `json:"lastCheckedAt"`
	Repo          string    `json:"repo,omitempty"`
	Info          *Info     `json:"info,omitempty"`
}

// LoadState reads the cached state. A missing, unresolvable or corrupt
// state file yields an empty State; only read failures are returned.
func LoadState() (*State, error) {
	path, err := paths.ReleaseStateFile()
	if err != nil {
		return &State{}, nil //nolint:nilerr // no state dir means nothing cached
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from controlled state directory
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &State{}, nil
	case err != nil:
		return nil, fmt.Errorf("read release state file: %w", err)
	}

	state := &State{}
	if json.Unmarshal(data, state) != nil {
		return &State{}, nil
	}

	return state, nil
}

// SaveState replaces the state file atomically.
func SaveState(state *State) error {
	path, err := paths.ReleaseStateFile()
	if err != nil {
		return fmt.Errorf("resolve release state path: %w", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal release state: %w", err)
	}

	return writeAtomic(path, data)
}

// writeAtomic writes data to a temp file beside path and renames it over
// path, so concurrent launchers never observe a partial file.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create release state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp release state file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp release state: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp release state file: %w", err)
	}

	if os.Rename(tmp.Name(), path) == nil {
		return nil
	}

	// Windows will not rename over an existing file.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing release state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace release state file: %w", err)
	}

	return nil
}

// ShouldCheck reports whether the cache is empty, older than a day, or was
// recorded for another repository or platform.
func (s *State) ShouldCheck(repo, platform string) bool {
	switch {
	case s.LastCheckedAt.IsZero(), s.Info == nil:
		return true
	case s.Repo != repo, s.Info.Platform != platform:
		return true
	default:
		return time.Since(s.LastCheckedAt) >= checkInterval
	}
}

// Record stores info as the fresh result for repo.
func (s *State) Record(repo string, info *Info) {
	s.LastCheckedAt, s.Repo, s.Info = time.Now(), repo, info
}
