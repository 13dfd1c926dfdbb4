// Package overlay renders the floating countdown panel listing active modes.
package overlay

import (
	"fmt"
	"slices"

	"github.com/mattn/go-runewidth"
)

// Title is shown centred in the panel border.
const Title = "Chaos"

// anchorMargin is the gap kept between the panel and the right screen edge.
const anchorMargin = 4

// Item is one row of the overlay.
type Item struct {
	Name      string
	Remaining uint32
}

// Border styles understood by the host.
const (
	BorderRounded = "rounded"
)

// PanelConfig positions a floating panel in screen cells.
type PanelConfig struct {
	Row    int
	Col    int
	Width  int
	Height int
	Border string
	Title  string
}

// Host is the host windowing surface the overlay draws on.
type Host interface {
	CreateBuffer() (int, error)
	SetLines(buf int, lines []string) error
	OpenPanel(buf int, cfg PanelConfig) (int, error)
	SetPanelConfig(panel int, cfg PanelConfig) error
	ClosePanel(panel int) error
	PanelValid(panel int) bool
	Columns() int
}

// Overlay owns one scratch buffer and at most one open panel.
type Overlay struct {
	host Host

	buf    int
	hasBuf bool

	panel    int
	hasPanel bool

	lines []string
	cfg   PanelConfig
}

// New returns an overlay drawing on host. No host resources are allocated
// until the first Render.
func New(host Host) *Overlay {
	return &Overlay{host: host}
}

// Clock formats seconds as zero padded MM:SS. Minutes are not capped.
func Clock(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Lines returns the panel content for items: one padded row per item with a
// blank row above and below.
func Lines(items []Item) []string {
	lines := make([]string, 0, len(items)+2)
	lines = append(lines, "")

	for _, it := range items {
		lines = append(lines, fmt.Sprintf("  %s  %s  ", Clock(it.Remaining), it.Name))
	}

	return append(lines, "")
}

// Layout computes the panel geometry for lines on a screen columns wide.
func Layout(lines []string, columns int) PanelConfig {
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}

	return PanelConfig{
		Row:    1,
		Col:    max(columns-anchorMargin-width, 0),
		Width:  width,
		Height: len(lines),
		Border: BorderRounded,
		Title:  Title,
	}
}

// Render shows items, opening the panel if needed and repositioning it
// otherwise. Rendering unchanged items onto a valid panel does nothing.
func (o *Overlay) Render(items []Item) error {
	lines := Lines(items)
	cfg := Layout(lines, o.host.Columns())

	panelOpen := o.hasPanel && o.host.PanelValid(o.panel)
	if panelOpen && cfg == o.cfg && slices.Equal(lines, o.lines) {
		return nil
	}

	if !o.hasBuf {
		buf, err := o.host.CreateBuffer()
		if err != nil {
			return fmt.Errorf("create overlay buffer: %w", err)
		}

		o.buf, o.hasBuf = buf, true
	}

	if err := o.host.SetLines(o.buf, lines); err != nil {
		return fmt.Errorf("set overlay lines: %w", err)
	}

	o.lines = lines

	if panelOpen {
		if err := o.host.SetPanelConfig(o.panel, cfg); err != nil {
			return fmt.Errorf("reposition overlay: %w", err)
		}

		o.cfg = cfg

		return nil
	}

	panel, err := o.host.OpenPanel(o.buf, cfg)
	if err != nil {
		o.hasPanel = false
		return fmt.Errorf("open overlay: %w", err)
	}

	o.panel, o.hasPanel, o.cfg = panel, true, cfg

	return nil
}

// Close closes the panel if one is open. The buffer is kept for reuse.
func (o *Overlay) Close() error {
	if !o.hasPanel {
		return nil
	}

	panel := o.panel
	o.hasPanel = false
	o.lines = nil
	o.cfg = PanelConfig{}

	if !o.host.PanelValid(panel) {
		return nil
	}

	if err := o.host.ClosePanel(panel); err != nil {
		return fmt.Errorf("close overlay: %w", err)
	}

	return nil
}

// showing reports whether the overlay currently holds a panel.
func (o *Overlay) showing() bool {
	return o.hasPanel
}
