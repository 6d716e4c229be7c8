package main

import (
	"github.com/spf13/cobra"

	"github.com/sethdford/genai-toolbox-enterprise/internal/launcher"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
)

// VersionInfo is the JSON shape of `toolbox-launcher version --json`.
type VersionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Platform string `json:"platform"`
}

func currentVersion() VersionInfo {
	return VersionInfo{Version: version, Commit: commit, Date: date, Platform: launcher.Current().String()}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show version information",
		Long:    `Display the launcher version, git commit, build date, and platform.`,
		Example: `  toolbox-launcher version`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.FromContext(cmd.Context())
			info := currentVersion()

			if out.JSON {
				return out.PrintJSON(info)
			}

			out.Println("toolbox-launcher " + info.Version)

			for _, row := range [][2]string{{"commit", info.Commit}, {"built", info.Date}, {"platform", info.Platform}} {
				out.Print("  %-9s %s\n", row[0]+":", row[1])
			}

			return nil
		},
	}
}
