package render

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

func TestVisibleLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"\x1b[31mhello\x1b[0m", 5},
		{"  05:00  nord  ", 15},
		{"日本", 4},
	}

	for _, tt := range tests {
		if got := VisibleLength(tt.in); got != tt.want {
			t.Errorf("VisibleLength(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFit(t *testing.T) {
	if got := Fit("abc", 5); got != "abc  " {
		t.Errorf("Fit pad = %q", got)
	}

	if got := Fit("abcdef", 3); got != "abc" {
		t.Errorf("Fit truncate = %q", got)
	}

	if got := Fit("abc", 0); got != "" {
		t.Errorf("Fit zero = %q", got)
	}
}

func plainPanel(row, col, w, h int, title string, lines ...string) Panel {
	return Panel{
		Row: row, Col: col, Width: w, Height: h,
		Title: title, Lines: lines,
		Border:      lipgloss.RoundedBorder(),
		BorderStyle: lipgloss.NewStyle(),
		BodyStyle:   lipgloss.NewStyle(),
	}
}

func TestPanel_Box(t *testing.T) {
	got := plainPanel(0, 0, 9, 2, "Chaos", "  00:59", "overflowing line").Box()

	want := []string{
		"╭──Chaos──╮",
		"│  00:59  │",
		"│overflowi│",
		"╰─────────╯",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Box() mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlay(t *testing.T) {
	frame := []string{
		"0123456789abcdef",
		"0123456789abcdef",
		"short",
		"0123456789abcdef",
	}

	got := Overlay(frame, 16, plainPanel(1, 8, 3, 1, "", "xyz"))

	want := []string{
		"0123456789abcdef",
		"01234567╭───╮def",
		"short   │xyz│",
		"01234567╰───╯def",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overlay() mismatch (-want +got):\n%s", diff)
	}

	if frame[1] != "0123456789abcdef" {
		t.Error("Overlay() modified its input")
	}
}

func TestOverlay_ClipsAtEdges(t *testing.T) {
	frame := []string{"..........", ".........."}

	got := Overlay(frame, 10, plainPanel(1, 7, 4, 1, "", "abcd"))

	want := []string{"..........", ".......╭──"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overlay() mismatch (-want +got):\n%s", diff)
	}
}
