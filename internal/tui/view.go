package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/musher-dev/chaos/internal/tui/render"
)

// toastMargin is the gap kept between toasts and the right screen edge.
const toastMargin = 1

func borderFor(name string) lipgloss.Border {
	switch name {
	case "single":
		return lipgloss.NormalBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "thick":
		return lipgloss.ThickBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

type styles struct {
	text    lipgloss.Style
	cursor  lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	border  lipgloss.Style
	errText lipgloss.Style
}

func (s *Screen) styles() styles {
	theme, _ := LookupTheme(s.scheme)
	p := theme.Variant(s.background)

	text := lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg)

	return styles{
		text:    text,
		cursor:  text.Reverse(true),
		muted:   text.Foreground(p.Muted),
		accent:  text.Foreground(p.Accent).Bold(true),
		border:  text.Foreground(p.Border),
		errText: text.Foreground(p.Error),
	}
}

// View renders the full frame: document rows, the status line, then every
// open panel and live toast on top.
func (s *Screen) View() string {
	st := s.styles()

	rows := make([]string, 0, s.height)

	for i := range s.docHeight() {
		idx := s.top + i
		if idx >= len(s.doc) {
			rows = append(rows, s.paint(st.muted.Render("~"), st))
			continue
		}

		rows = append(rows, s.paint(s.docLine(idx, st), st))
	}

	rows = append(rows, s.paint(s.statusLine(st), st))

	frame := render.Overlay(rows, s.width, append(s.panelViews(st), s.toastViews(st)...)...)

	return strings.Join(frame, "\n")
}

// paint clips a styled row to the screen width and fills the rest with the
// theme background.
func (s *Screen) paint(row string, st styles) string {
	row = ansi.Truncate(row, s.width, "")
	if pad := s.width - ansi.StringWidth(row); pad > 0 {
		row += st.text.Render(strings.Repeat(" ", pad))
	}

	return row
}

func (s *Screen) docLine(idx int, st styles) string {
	runes := []rune(s.doc[idx])
	if idx != s.row || s.inCmdline {
		return st.text.Render(string(runes))
	}

	col := min(s.col, len(runes))

	cur := " "
	if col < len(runes) {
		cur = string(runes[col])
	}

	after := ""
	if col+1 < len(runes) {
		after = string(runes[col+1:])
	}

	return st.text.Render(string(runes[:col])) + st.cursor.Render(cur) + st.text.Render(after)
}

func (s *Screen) statusLine(st styles) string {
	var left string

	switch {
	case s.inCmdline:
		left = st.text.Render(":"+s.cmdline) + st.cursor.Render(" ")
	case s.errLine != "":
		left = st.errText.Render(strings.ReplaceAll(s.errLine, "\n", " | "))
	default:
		left = st.accent.Render(" NORMAL ") + st.text.Render(" "+s.name)
	}

	right := fmt.Sprintf("%s  %s/%s  %d:%d ", s.status, s.scheme, s.background, s.row+1, s.col+1)
	right = st.muted.Render(strings.TrimLeft(right, " "))

	gap := s.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return left
	}

	return left + st.text.Render(strings.Repeat(" ", gap)) + right
}

func (s *Screen) panelViews(st styles) []render.Panel {
	open := s.openPanels()
	out := make([]render.Panel, 0, len(open))

	for _, p := range open {
		out = append(out, render.Panel{
			Row:         p.cfg.Row,
			Col:         p.cfg.Col,
			Width:       p.cfg.Width,
			Height:      p.cfg.Height,
			Title:       p.cfg.Title,
			Lines:       s.buffers[p.buf],
			Border:      borderFor(p.cfg.Border),
			BorderStyle: st.border,
			BodyStyle:   st.text,
		})
	}

	return out
}

// toastViews stacks live toasts upward from the bottom-right corner, newest
// lowest. Toasts that no longer fit are not drawn.
func (s *Screen) toastViews(st styles) []render.Panel {
	toasts := s.liveToasts()
	out := make([]render.Panel, 0, len(toasts))

	// The last frame row is the status line.
	bottom := s.height - 2

	for i := len(toasts) - 1; i >= 0; i-- {
		t := toasts[i]

		w := ansi.StringWidth(t.title)
		for _, l := range t.lines {
			w = max(w, ansi.StringWidth(l))
		}

		w = min(w, max(s.width-2-toastMargin, 1))
		h := len(t.lines)

		row := bottom - (h + 1)
		if row < 0 {
			break
		}

		out = append(out, render.Panel{
			Row:         row,
			Col:         max(s.width-(w+2)-toastMargin, 0),
			Width:       w,
			Height:      h,
			Title:       t.title,
			Lines:       t.lines,
			Border:      lipgloss.RoundedBorder(),
			BorderStyle: st.accent,
			BodyStyle:   st.text,
		})

		bottom = row - 1
	}

	return out
}
