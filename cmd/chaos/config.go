package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/output"
	"github.com/musher-dev/chaos/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long:  `Show, locate and validate the chaos configuration file.`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration chaos would run with: the config file merged with
CHAOS_* environment variables and the built-in defaults.`,
		Example: `  chaos config show
  chaos config show --format toml
  CHAOS_CHANNEL=rime chaos config show --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			f, err := output.ParseFormat(format)
			if err != nil {
				return clierrors.New(clierrors.ExitUsage, err.Error()).
					WithHint("Use --format yaml, toml or json")
			}

			if out.JSON {
				f = output.FormatJSON
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := out.Encode(f, cfg); err != nil {
				return fmt.Errorf("print config: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(output.FormatYAML), "Output format: yaml, toml, json")

	return cmd
}

// ConfigPath is the config path in --json output.
type ConfigPath struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Long: `Print the config file chaos reads. This is --config or CHAOS_CONFIG when
set, otherwise config.yaml in the chaos user config directory.`,
		Example: `  chaos config path
  chaos config path --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			path := configFileFlag(cmd)
			if path == "" {
				resolved, err := paths.ConfigFile()
				if err != nil {
					return clierrors.ConfigFailed("resolve config path", err)
				}

				path = resolved
			}

			_, statErr := os.Stat(path)
			exists := statErr == nil

			if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
				return clierrors.ConfigFailed("read config path", statErr)
			}

			if out.JSON {
				return out.PrintJSON(ConfigPath{Path: path, Exists: exists})
			}

			out.Println(path)

			if !exists {
				out.Muted("(not created yet; built-in defaults apply)")
			}

			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Long: `Load the configuration and report every problem found, one line per field.
Exits with status 4 when the configuration is invalid.`,
		Example: `  chaos config validate
  chaos config validate --config ./stream.yaml`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out.Success("Config is valid")

			if !cfg.HasChannel() {
				out.Warning("No channel configured; chat is off")
			}

			return nil
		},
	}
}
