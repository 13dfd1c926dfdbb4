package main

import (
	"github.com/spf13/cobra"

	"github.com/musher-dev/chaos/internal/output"
	"github.com/musher-dev/chaos/internal/tui"
)

// ThemeInfo describes one colour scheme for --json output.
type ThemeInfo struct {
	Name      string `json:"name"`
	DarkBg    string `json:"dark_bg"`
	LightBg   string `json:"light_bg"`
	IsDefault bool   `json:"default"`
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the colour schemes chat can switch to",
		Long: `List every colour scheme the pager knows. These are the names the colour
scheme chat command accepts; anything else is ignored. The scheme restored
after an override is marked with an asterisk.`,
		Example: `  chaos themes
  chaos themes --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			themes := tui.Themes()
			infos := make([]ThemeInfo, 0, len(themes))

			for _, th := range themes {
				infos = append(infos, ThemeInfo{
					Name:      th.Name,
					DarkBg:    string(th.Dark.Bg),
					LightBg:   string(th.Light.Bg),
					IsDefault: th.Name == cfg.Commands.ColorScheme.Default,
				})
			}

			if out.JSON {
				return out.PrintJSON(infos)
			}

			rows := make([][]string, 0, len(infos))

			for _, info := range infos {
				mark := " "
				if info.IsDefault {
					mark = "*"
				}

				rows = append(rows, []string{mark + " " + info.Name, info.DarkBg, info.LightBg})
			}

			out.Table([]string{"  NAME", "DARK", "LIGHT"}, rows)

			return nil
		},
	}
}
