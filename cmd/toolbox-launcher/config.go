package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sethdford/genai-toolbox-enterprise/internal/config"
	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
	"github.com/sethdford/genai-toolbox-enterprise/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View and modify launcher configuration settings.`,
	}

	cmd.AddCommand(newConfigListCmd(), newConfigGetCmd(), newConfigSetCmd())

	return cmd
}

// lookup returns the effective value of key rendered for display, and
// whether it is set at all.
func lookup(cfg *config.Config, key string) (string, bool) {
	v := cfg.Get(key)
	if v == nil {
		return "", false
	}

	s := fmt.Sprint(v)

	return s, s != ""
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		Long: `Display every configuration setting and its effective value, after
environment variables and the config file have been applied.`,
		Example: `  toolbox-launcher config list
  toolbox-launcher config list --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			if out.JSON {
				settings := map[string]any{}
				for _, key := range cfg.Keys() {
					settings[key] = cfg.Get(key)
				}

				return out.PrintJSON(settings)
			}

			for _, key := range cfg.Keys() {
				value, ok := lookup(cfg, key)
				if !ok {
					value = "<unset>"
				}

				out.Print("%s = %s\n", key, value)
			}

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Long:    `Retrieve and display the current value of a single configuration key.`,
		Example: `  toolbox-launcher config get release.repo`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			value, ok := lookup(config.Load(), args[0])
			if !ok {
				out.Muted("%s is not set", args[0])
				return nil
			}

			out.Print("%s = %s\n", args[0], value)

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Long:    `Set a configuration key to the given value. The value is persisted to the config file.`,
		Example: `  toolbox-launcher config set install_dir /opt/genai-toolbox/native`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			key, value := args[0], args[1]
			cfg := config.Load()

			if !slices.Contains(cfg.Keys(), key) {
				out.Warning("%s is not a known setting", key)
			}

			if err := cfg.Set(key, value); err != nil {
				return clierrors.ConfigFailed("set config", err)
			}

			out.Success("Set %s = %s", key, value)

			return nil
		},
	}
}
