// Package paths resolves where the launcher keeps its files and where it
// expects the toolbox binary to live.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const appName = "genai-toolbox"

// InstallSubdir is the directory, relative to the launcher executable, that
// the installer populates with the native binary.
const InstallSubdir = "native"

// userDir is one per-user base directory. An absolute XDG variable wins,
// then the OS default, then a directory under $HOME.
type userDir struct {
	xdgEnv    string
	osDefault func() (string, error)
	underHome string
}

var (
	configDir = userDir{xdgEnv: "XDG_CONFIG_HOME", osDefault: os.UserConfigDir, underHome: ".config"}
	stateDir  = userDir{xdgEnv: "XDG_STATE_HOME", underHome: filepath.Join(".local", "state")}
	cacheDir  = userDir{xdgEnv: "XDG_CACHE_HOME", osDefault: os.UserCacheDir, underHome: ".cache"}
)

var errNoHome = errors.New("resolve user home directory")

func (d userDir) root() (string, error) {
	if xdg := os.Getenv(d.xdgEnv); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, appName), nil
	}

	var osErr error
	if d.osDefault != nil {
		base, err := d.osDefault()
		if err == nil && base != "" {
			return filepath.Join(base, appName), nil
		}

		osErr = err
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, d.underHome, appName), nil
	}

	if osErr != nil {
		return "", osErr
	}

	return "", errNoHome
}

func (d userDir) join(elem ...string) (string, error) {
	root, err := d.root()
	if err != nil {
		return "", err
	}

	return filepath.Join(append([]string{root}, elem...)...), nil
}

// ConfigRoot returns the user config root directory.
func ConfigRoot() (string, error) { return configDir.root() }

// StateRoot returns the user state root directory.
func StateRoot() (string, error) { return stateDir.root() }

// CacheRoot returns the user cache root directory.
func CacheRoot() (string, error) { return cacheDir.root() }

// ConfigFile returns the path of the YAML config file.
func ConfigFile() (string, error) { return configDir.join("config.yaml") }

// DefaultLogFile returns the log file used when logging to a file is enabled
// without an explicit path.
func DefaultLogFile() (string, error) { return stateDir.join("logs", "launcher.log") }

// ReleaseStateFile returns where the last release lookup is cached.
func ReleaseStateFile() (string, error) { return stateDir.join("release-check.json") }

// DefaultInstallDir returns the install directory that sits one level below
// the given launcher executable. Symlinks are resolved first so a launcher
// linked into PATH still finds the binary next to its real location.
func DefaultInstallDir(executable string) (string, error) {
	if executable == "" {
		return "", fmt.Errorf("launcher executable path is empty")
	}

	resolved, err := filepath.EvalSymlinks(executable)
	if err != nil {
		return "", fmt.Errorf("resolve launcher executable: %w", err)
	}

	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("absolute launcher path: %w", err)
	}

	return filepath.Join(filepath.Dir(abs), InstallSubdir), nil
}

// ResolveInstallDir returns override as an absolute path when it is set, and
// otherwise the default install directory beside the running executable.
func ResolveInstallDir(override string, executable func() (string, error)) (string, error) {
	if override != "" {
		dir, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("absolute install dir: %w", err)
		}

		return dir, nil
	}

	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("locate launcher executable: %w", err)
	}

	return DefaultInstallDir(exe)
}
