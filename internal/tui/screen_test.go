package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/musher-dev/chaos/internal/mode"
	"github.com/musher-dev/chaos/internal/overlay"
)

func newTestScreen(lines ...string) *Screen {
	return NewScreen(ScreenOptions{
		Name:       "notes.txt",
		Lines:      lines,
		Scheme:     "retrobox",
		Background: "dark",
		Width:      50,
		Height:     12,
		Now:        func() time.Time { return time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC) },
	})
}

func press(s *Screen, keys ...string) {
	for _, k := range keys {
		s.HandleKey(k)
	}
}

func TestScreen_Command(t *testing.T) {
	tests := []struct {
		cmd     string
		wantErr string
	}{
		{cmd: "colorscheme nord"},
		{cmd: "colorscheme nope", wantErr: "E185: Cannot find color scheme 'nope'"},
		{cmd: "colorscheme", wantErr: "E471: Argument required"},
		{cmd: "set background=light"},
		{cmd: "set background=grey", wantErr: "E474: Invalid argument: background=grey"},
		{cmd: "set number", wantErr: "E518: Unknown option: number"},
		{cmd: "noremap l h"},
		{cmd: "noremap l", wantErr: "E474: Invalid argument: l"},
		{cmd: "unmap zz", wantErr: "E31: No such mapping"},
		{cmd: "write", wantErr: "E492: Not an editor command: write"},
		{cmd: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			err := newTestScreen().Command(tt.cmd)

			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("Command(%q) error = %v", tt.cmd, err)
			case tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr):
				t.Fatalf("Command(%q) error = %v, want %q", tt.cmd, err, tt.wantErr)
			}
		})
	}
}

func TestScreen_AppearanceCommands(t *testing.T) {
	s := newTestScreen()

	if err := s.Command("colorscheme gruvbox"); err != nil {
		t.Fatal(err)
	}

	if err := s.Command("set background=light"); err != nil {
		t.Fatal(err)
	}

	if s.Scheme() != "gruvbox" || s.Background() != "light" {
		t.Errorf("appearance = %s/%s, want gruvbox/light", s.Scheme(), s.Background())
	}

	if err := s.Command("colorscheme bogus"); err == nil || s.Scheme() != "gruvbox" {
		t.Errorf("failed colorscheme changed scheme to %s", s.Scheme())
	}
}

func TestScreen_Completion(t *testing.T) {
	s := newTestScreen()

	got, err := s.Completion("color")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(ThemeNames(), got); diff != "" {
		t.Errorf("Completion(color) mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Completion("file"); err == nil {
		t.Error("Completion(file) error = nil")
	}
}

func TestScreen_BuffersAndPanels(t *testing.T) {
	s := newTestScreen()

	if err := s.SetLines(99, nil); !errors.Is(err, ErrNoSuchBuffer) {
		t.Errorf("SetLines(unknown) error = %v", err)
	}

	buf, _ := s.CreateBuffer()

	if _, err := s.OpenPanel(99, overlay.PanelConfig{}); !errors.Is(err, ErrNoSuchBuffer) {
		t.Errorf("OpenPanel(unknown buffer) error = %v", err)
	}

	p, err := s.OpenPanel(buf, overlay.PanelConfig{Width: 3, Height: 1})
	if err != nil {
		t.Fatal(err)
	}

	if !s.PanelValid(p) {
		t.Fatal("PanelValid() = false for open panel")
	}

	if err := s.SetPanelConfig(p, overlay.PanelConfig{Width: 4}); err != nil {
		t.Errorf("SetPanelConfig() error = %v", err)
	}

	if err := s.ClosePanel(p); err != nil {
		t.Fatal(err)
	}

	if s.PanelValid(p) {
		t.Error("PanelValid() = true after close")
	}

	if err := s.ClosePanel(p); !errors.Is(err, ErrNoSuchPanel) {
		t.Errorf("second ClosePanel() error = %v", err)
	}

	if err := s.SetPanelConfig(p, overlay.PanelConfig{}); !errors.Is(err, ErrNoSuchPanel) {
		t.Errorf("SetPanelConfig(closed) error = %v", err)
	}

	// The buffer outlives its panel.
	if err := s.SetLines(buf, []string{"x"}); err != nil {
		t.Errorf("SetLines after close error = %v", err)
	}
}

func TestScreen_Navigation(t *testing.T) {
	doc := []string{"alpha beta gamma", "", "  delta epsilon"}

	tests := []struct {
		name    string
		keys    []string
		wantRow int
		wantCol int
	}{
		{name: "right", keys: []string{"l", "l"}, wantRow: 0, wantCol: 2},
		{name: "left clamps", keys: []string{"h"}, wantRow: 0, wantCol: 0},
		{name: "down clamps col", keys: []string{"$", "w", "w", "j"}, wantRow: 1, wantCol: 0},
		{name: "word forward", keys: []string{"w"}, wantRow: 0, wantCol: 6},
		{name: "word forward across lines", keys: []string{"w", "w", "w"}, wantRow: 2, wantCol: 2},
		{name: "word end", keys: []string{"e"}, wantRow: 0, wantCol: 4},
		{name: "word back", keys: []string{"w", "w", "b"}, wantRow: 0, wantCol: 6},
		{name: "word end back", keys: []string{"w", "w", "g", "e"}, wantRow: 0, wantCol: 9},
		{name: "bottom", keys: []string{"G"}, wantRow: 2, wantCol: 0},
		{name: "top", keys: []string{"G", "g", "g"}, wantRow: 0, wantCol: 0},
		{name: "half page down clamps", keys: []string{"ctrl+d"}, wantRow: 2, wantCol: 0},
		{name: "unknown prefix dropped", keys: []string{"g", "x", "l"}, wantRow: 0, wantCol: 1},
		{name: "failed prefix retries last key", keys: []string{"g", "l"}, wantRow: 0, wantCol: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(doc...)
			press(s, tt.keys...)

			row, col := s.Cursor()
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("cursor = %d:%d, want %d:%d", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestScreen_KeyRemapMode(t *testing.T) {
	s := newTestScreen("one two three", "four")
	remap := mode.NewKeyRemap(s)

	if err := remap.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	press(s, "w")

	// w now runs b, which has nowhere to go.
	if row, col := s.Cursor(); row != 0 || col != 0 {
		t.Fatalf("remapped w moved to %d:%d", row, col)
	}

	press(s, "h", "h")

	if _, col := s.Cursor(); col != 2 {
		t.Fatalf("remapped h: col = %d, want 2", col)
	}

	press(s, "g", "e")

	if _, col := s.Cursor(); col != 6 {
		t.Fatalf("remapped ge: col = %d, want 6 (end of two)", col)
	}

	press(s, "k")

	if row, _ := s.Cursor(); row != 1 {
		t.Fatalf("remapped k: row = %d, want 1", row)
	}

	if err := remap.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if got := s.Mappings(); len(got) != 0 {
		t.Errorf("mappings after Stop = %v, want none", got)
	}

	press(s, "k")

	if row, _ := s.Cursor(); row != 0 {
		t.Errorf("k after Stop: row = %d, want 0", row)
	}
}

func TestScreen_ColorSchemeMode(t *testing.T) {
	s := newTestScreen()
	cs := mode.NewColorScheme(s, "tokyonight", "light", mode.Baseline{Scheme: "retrobox", Background: "dark"})

	if ok, err := cs.Valid(); !ok || err != nil {
		t.Fatalf("Valid() = %v, %v", ok, err)
	}

	if err := cs.Start(); err != nil {
		t.Fatal(err)
	}

	if s.Scheme() != "tokyonight" || s.Background() != "light" {
		t.Errorf("after Start = %s/%s", s.Scheme(), s.Background())
	}

	if err := cs.Stop(); err != nil {
		t.Fatal(err)
	}

	if s.Scheme() != "retrobox" || s.Background() != "dark" {
		t.Errorf("after Stop = %s/%s", s.Scheme(), s.Background())
	}

	if ok, _ := mode.NewColorScheme(s, "nope", "", mode.Baseline{}).Valid(); ok {
		t.Error("unknown scheme reported valid")
	}
}

func TestScreen_CommandLine(t *testing.T) {
	s := newTestScreen("text")

	press(s, ":")
	for _, r := range "colorscheme" {
		press(s, string(r))
	}

	press(s, "space", "n", "o", "r", "d", "x", "backspace", "enter")

	if s.Scheme() != "nord" {
		t.Fatalf("scheme = %s, want nord", s.Scheme())
	}

	press(s, ":", "b", "a", "d", "enter")

	if !strings.HasPrefix(s.ErrorLine(), "E492: Not an editor command: bad") {
		t.Errorf("error line = %q", s.ErrorLine())
	}

	press(s, "l")

	if s.ErrorLine() != "" {
		t.Errorf("error line not cleared by a key: %q", s.ErrorLine())
	}

	press(s, ":", "q")

	if quit := s.HandleKey("esc"); quit {
		t.Error("esc in command line quit")
	}

	if !s.HandleKey("q") {
		t.Error("q did not quit")
	}
}

func TestScreen_ToastsExpire(t *testing.T) {
	now := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)

	s := newTestScreen()
	s.now = func() time.Time { return now }

	s.Notify("viewer", "hello", 20*time.Second)

	if got := len(s.liveToasts()); got != 1 {
		t.Fatalf("live toasts = %d, want 1", got)
	}

	now = now.Add(20 * time.Second)

	if got := len(s.liveToasts()); got != 0 {
		t.Errorf("live toasts after timeout = %d, want 0", got)
	}
}

func TestLookupTheme(t *testing.T) {
	for _, name := range []string{"retrobox", "gruvbox", "tokyonight", "catppuccin", "nord", "vscode", "solarized", "habamax"} {
		th, ok := LookupTheme(name)
		if !ok {
			t.Errorf("theme %s missing", name)
			continue
		}

		if th.Variant("light") == th.Variant("dark") {
			t.Errorf("theme %s has identical variants", name)
		}
	}

	if _, ok := LookupTheme("Nord"); ok {
		t.Error("theme lookup is case-insensitive")
	}
}
