package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel is a bordered box placed at Row, Col (0-based cells). Width and
// Height are the inner content size.
type Panel struct {
	Row, Col      int
	Width, Height int
	Title         string
	Lines         []string

	Border      lipgloss.Border
	BorderStyle lipgloss.Style
	BodyStyle   lipgloss.Style
}

// Box renders the panel to Height+2 rows of Width+2 cells. Content rows past
// Height are dropped. Missing rows are blank.
func (p Panel) Box() []string {
	w := max(p.Width, 0)
	b := p.Border

	rows := make([]string, 0, p.Height+2)
	rows = append(rows, p.BorderStyle.Render(b.TopLeft+titleRule(b.Top, p.Title, w)+b.TopRight))

	for i := range max(p.Height, 0) {
		var line string
		if i < len(p.Lines) {
			line = p.Lines[i]
		}

		rows = append(rows,
			p.BorderStyle.Render(b.Left)+p.BodyStyle.Render(Fit(line, w))+p.BorderStyle.Render(b.Right))
	}

	rows = append(rows, p.BorderStyle.Render(b.BottomLeft+strings.Repeat(b.Bottom, w)+b.BottomRight))

	return rows
}

// titleRule is a horizontal rule of width cells with title centred in it.
func titleRule(fill, title string, width int) string {
	title = ansi.Truncate(title, width, "")
	tw := ansi.StringWidth(title)
	left := (width - tw) / 2

	return strings.Repeat(fill, left) + title + strings.Repeat(fill, width-tw-left)
}

// Overlay returns a copy of frame with every panel drawn on top, in order.
// The frame keeps its size; panel cells outside it are clipped.
func Overlay(frame []string, width int, panels ...Panel) []string {
	out := make([]string, len(frame))
	copy(out, frame)

	for _, p := range panels {
		for i, row := range p.Box() {
			y := p.Row + i
			if y < 0 || y >= len(out) {
				continue
			}

			out[y] = splice(out[y], row, p.Col, width)
		}
	}

	return out
}

// splice writes over on top of base starting at cell col, keeping base's
// cells to either side. The result is clipped to width cells.
func splice(base, over string, col, width int) string {
	if col >= width {
		return base
	}

	col = max(col, 0)
	over = ansi.Truncate(over, width-col, "")
	end := col + ansi.StringWidth(over)

	left := PadRightVisible(ansi.Truncate(base, col, ""), col)
	right := ""

	if ansi.StringWidth(base) > end {
		right = ansi.TruncateLeft(base, end, "")
	}

	return left + over + right
}
