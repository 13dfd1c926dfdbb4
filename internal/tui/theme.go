package tui

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colours one theme variant paints with.
type Palette struct {
	Fg     lipgloss.Color
	Bg     lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Error  lipgloss.Color
}

// Theme is a named colour scheme with dark and light variants.
type Theme struct {
	Name  string
	Dark  Palette
	Light Palette
}

// Variant returns the palette for background ("light" or anything else for
// dark).
func (t Theme) Variant(background string) Palette {
	if background == "light" {
		return t.Light
	}

	return t.Dark
}

var themes = []Theme{
	{
		Name:  "catppuccin",
		Dark:  Palette{Fg: "#cdd6f4", Bg: "#1e1e2e", Accent: "#cba6f7", Muted: "#6c7086", Border: "#89b4fa", Error: "#f38ba8"},
		Light: Palette{Fg: "#4c4f69", Bg: "#eff1f5", Accent: "#8839ef", Muted: "#9ca0b0", Border: "#1e66f5", Error: "#d20f39"},
	},
	{
		Name:  "gruvbox",
		Dark:  Palette{Fg: "#ebdbb2", Bg: "#282828", Accent: "#fabd2f", Muted: "#928374", Border: "#83a598", Error: "#fb4934"},
		Light: Palette{Fg: "#3c3836", Bg: "#fbf1c7", Accent: "#b57614", Muted: "#928374", Border: "#076678", Error: "#9d0006"},
	},
	{
		Name:  "habamax",
		Dark:  Palette{Fg: "#bcbcbc", Bg: "#1c1c1c", Accent: "#d7af87", Muted: "#767676", Border: "#5f87af", Error: "#d75f5f"},
		Light: Palette{Fg: "#303030", Bg: "#e4e4e4", Accent: "#875f00", Muted: "#808080", Border: "#005f87", Error: "#af0000"},
	},
	{
		Name:  "nord",
		Dark:  Palette{Fg: "#d8dee9", Bg: "#2e3440", Accent: "#88c0d0", Muted: "#4c566a", Border: "#81a1c1", Error: "#bf616a"},
		Light: Palette{Fg: "#2e3440", Bg: "#eceff4", Accent: "#5e81ac", Muted: "#7b88a1", Border: "#81a1c1", Error: "#bf616a"},
	},
	{
		Name:  "retrobox",
		Dark:  Palette{Fg: "#ebdbb2", Bg: "#1c1c1c", Accent: "#fe8019", Muted: "#928374", Border: "#8ec07c", Error: "#fb4934"},
		Light: Palette{Fg: "#3c3836", Bg: "#fbf1c7", Accent: "#af3a03", Muted: "#7c6f64", Border: "#427b58", Error: "#9d0006"},
	},
	{
		Name:  "solarized",
		Dark:  Palette{Fg: "#839496", Bg: "#002b36", Accent: "#b58900", Muted: "#586e75", Border: "#268bd2", Error: "#dc322f"},
		Light: Palette{Fg: "#657b83", Bg: "#fdf6e3", Accent: "#b58900", Muted: "#93a1a1", Border: "#268bd2", Error: "#dc322f"},
	},
	{
		Name:  "tokyonight",
		Dark:  Palette{Fg: "#c0caf5", Bg: "#1a1b26", Accent: "#bb9af7", Muted: "#565f89", Border: "#7aa2f7", Error: "#f7768e"},
		Light: Palette{Fg: "#3760bf", Bg: "#e1e2e7", Accent: "#9854f1", Muted: "#848cb5", Border: "#2e7de9", Error: "#f52a65"},
	},
	{
		Name:  "vscode",
		Dark:  Palette{Fg: "#d4d4d4", Bg: "#1e1e1e", Accent: "#569cd6", Muted: "#6a9955", Border: "#007acc", Error: "#f44747"},
		Light: Palette{Fg: "#343434", Bg: "#ffffff", Accent: "#0000ff", Muted: "#008000", Border: "#007acc", Error: "#cd3131"},
	},
}

// Themes returns every registered theme, sorted by name.
func Themes() []Theme {
	return slices.Clone(themes)
}

// ThemeNames returns the registered names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}

	return names
}

// LookupTheme finds a theme by exact name.
func LookupTheme(name string) (Theme, bool) {
	i := slices.IndexFunc(themes, func(t Theme) bool { return t.Name == name })
	if i < 0 {
		return Theme{}, false
	}

	return themes[i], true
}
