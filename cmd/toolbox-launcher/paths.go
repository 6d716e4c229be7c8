package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sethdford/genai-toolbox-enterprise/internal/config"
	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
	"github.com/sethdford/genai-toolbox-enterprise/internal/paths"
)

// PathsInfo holds all resolved paths for JSON output.
type PathsInfo struct {
	ConfigRoot   string `json:"config_root"`
	StateRoot    string `json:"state_root"`
	CacheRoot    string `json:"cache_root"`
	ConfigFile   string `json:"config_file"`
	LogFile      string `json:"log_file"`
	ReleaseState string `json:"release_state"`
	InstallDir   string `json:"install_dir"`
	BinaryPath   string `json:"binary_path"`
	ReleaseRepo  string `json:"release_repo"`
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where the launcher looks for files",
		Long: `Display all file and directory paths used by the launcher.

Useful for debugging and scripting: shows where configuration, logs, and
cached release state are stored, and where the toolbox binary is expected.`,
		Example: `  toolbox-launcher paths
  toolbox-launcher paths --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			info := resolvePathsInfo(config.Load())

			if out.JSON {
				return out.PrintJSON(info)
			}

			out.Print("Config root:    %s\n", info.ConfigRoot)
			out.Print("State root:     %s\n", info.StateRoot)
			out.Print("Cache root:     %s\n", info.CacheRoot)
			out.Print("\n")
			out.Print("Config file:    %s\n", info.ConfigFile)
			out.Print("Log file:       %s\n", info.LogFile)
			out.Print("Release state:  %s\n", info.ReleaseState)
			out.Print("\n")
			out.Print("Install dir:    %s\n", info.InstallDir)
			out.Print("Binary:         %s\n", info.BinaryPath)
			out.Print("Release repo:   %s\n", info.ReleaseRepo)

			return nil
		},
	}
}

func resolvePathsInfo(cfg *config.Config) PathsInfo {
	info := PathsInfo{}

	info.ConfigRoot = resolveOrError(paths.ConfigRoot)
	info.StateRoot = resolveOrError(paths.StateRoot)
	info.CacheRoot = resolveOrError(paths.CacheRoot)
	info.ConfigFile = resolveOrError(paths.ConfigFile)
	info.LogFile = resolveOrError(paths.DefaultLogFile)
	info.ReleaseState = resolveOrError(paths.ReleaseStateFile)
	info.ReleaseRepo = cfg.ReleaseRepo()

	if logFile := cfg.LogFile(); logFile != "" {
		info.LogFile = logFile
	}

	dir, err := installDir(cfg)
	if err != nil {
		info.InstallDir = fmt.Sprintf("<error: %v>", err)
		info.BinaryPath = info.InstallDir

		return info
	}

	info.InstallDir = dir
	info.BinaryPath = launcher.BinaryPath(dir, launcher.Current().OS)

	return info
}

func resolveOrError(fn func() (string, error)) string {
	val, err := fn()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	return val
}
