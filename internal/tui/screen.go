// Package tui is the terminal host application chaos drives.
//
// Screen is a small modal pager: a read-only document with vim-style
// navigation, a command line, scratch buffers, floating panels and toasts.
// It implements the host interfaces of the mode, overlay and dispatch
// packages. Model wraps it as a bubbletea program whose Update goroutine is
// the only goroutine that ever touches the Screen.
package tui

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/musher-dev/chaos/internal/overlay"
)

// ErrNoSuchPanel is returned for operations on closed or unknown panels.
var ErrNoSuchPanel = errors.New("invalid panel id")

// ErrNoSuchBuffer is returned for operations on unknown buffers.
var ErrNoSuchBuffer = errors.New("invalid buffer id")

type panel struct {
	buf int
	cfg overlay.PanelConfig
}

type toast struct {
	title   string
	lines   []string
	expires time.Time
}

// ScreenOptions configures a Screen.
type ScreenOptions struct {
	// Name is shown in the status line, usually the file path.
	Name string
	// Lines is the document. Empty shows a placeholder.
	Lines []string
	// Scheme and Background are the starting appearance.
	Scheme     string
	Background string
	// Width and Height are the initial size; bubbletea resizes later.
	Width, Height int
	// Now is the clock for toast expiry.
	Now func() time.Time
}

// Screen is the host state. It is not safe for concurrent use.
type Screen struct {
	name string
	doc  []string

	row, col int
	top      int

	width, height int

	scheme     string
	background string

	nextID  int
	buffers map[int][]string
	panels  map[int]*panel

	remap   map[string]string
	pending []string

	cmdline   string
	inCmdline bool

	toasts  []toast
	errLine string
	status  string

	now func() time.Time
}

// NewScreen returns a screen showing opts.Lines.
func NewScreen(opts ScreenOptions) *Screen {
	doc := opts.Lines
	if len(doc) == 0 {
		doc = []string{""}
	}

	s := &Screen{
		name:       opts.Name,
		doc:        doc,
		width:      opts.Width,
		height:     opts.Height,
		scheme:     opts.Scheme,
		background: opts.Background,
		buffers:    make(map[int][]string),
		panels:     make(map[int]*panel),
		remap:      make(map[string]string),
		now:        opts.Now,
	}

	if s.width <= 0 {
		s.width = 80
	}

	if s.height <= 0 {
		s.height = 24
	}

	if s.now == nil {
		s.now = time.Now
	}

	if _, ok := LookupTheme(s.scheme); !ok {
		s.scheme = ThemeNames()[0]
	}

	if s.background != "light" {
		s.background = "dark"
	}

	return s
}

// Resize sets the terminal size.
func (s *Screen) Resize(width, height int) {
	s.width = max(width, 1)
	s.height = max(height, 2)
	s.scroll()
}

// Scheme returns the active colour scheme.
func (s *Screen) Scheme() string { return s.scheme }

// Background returns the active background, "dark" or "light".
func (s *Screen) Background() string { return s.background }

// Cursor returns the 0-based cursor position.
func (s *Screen) Cursor() (row, col int) { return s.row, s.col }

// Mappings returns a copy of the active key remaps.
func (s *Screen) Mappings() map[string]string { return maps.Clone(s.remap) }

// ErrorLine returns the message currently on the error line.
func (s *Screen) ErrorLine() string { return s.errLine }

// SetStatus sets the right-hand status text.
func (s *Screen) SetStatus(text string) { s.status = text }

// Command runs one host command.
func (s *Screen) Command(cmd string) error {
	name, args, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	args = strings.TrimSpace(args)

	switch name {
	case "":
		return nil
	case "colorscheme", "colo":
		if args == "" {
			return fmt.Errorf("E471: Argument required")
		}

		if _, ok := LookupTheme(args); !ok {
			return fmt.Errorf("E185: Cannot find color scheme '%s'", args)
		}

		s.scheme = args

		return nil
	case "set":
		opt, val, ok := strings.Cut(args, "=")
		if !ok || opt != "background" && opt != "bg" {
			return fmt.Errorf("E518: Unknown option: %s", args)
		}

		if val != "dark" && val != "light" {
			return fmt.Errorf("E474: Invalid argument: %s", args)
		}

		s.background = val

		return nil
	case "noremap", "no":
		fields := strings.Fields(args)
		if len(fields) != 2 {
			return fmt.Errorf("E474: Invalid argument: %s", args)
		}

		if fields[0] == fields[1] {
			delete(s.remap, fields[0])
		} else {
			s.remap[fields[0]] = fields[1]
		}

		return nil
	case "unmap", "unm":
		if _, ok := s.remap[args]; !ok {
			return fmt.Errorf("E31: No such mapping")
		}

		delete(s.remap, args)

		return nil
	default:
		return fmt.Errorf("E492: Not an editor command: %s", strings.TrimSpace(cmd))
	}
}

// Completion lists candidates for a completion category.
func (s *Screen) Completion(category string) ([]string, error) {
	switch category {
	case "color":
		return ThemeNames(), nil
	default:
		return nil, fmt.Errorf("E475: Invalid completion category: %s", category)
	}
}

func (s *Screen) id() int {
	s.nextID++
	return s.nextID
}

// CreateBuffer allocates an empty scratch buffer.
func (s *Screen) CreateBuffer() (int, error) {
	id := s.id()
	s.buffers[id] = nil

	return id, nil
}

// SetLines replaces a buffer's contents.
func (s *Screen) SetLines(buf int, lines []string) error {
	if _, ok := s.buffers[buf]; !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchBuffer, buf)
	}

	s.buffers[buf] = slices.Clone(lines)

	return nil
}

// OpenPanel shows buf in a floating panel.
func (s *Screen) OpenPanel(buf int, cfg overlay.PanelConfig) (int, error) {
	if _, ok := s.buffers[buf]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchBuffer, buf)
	}

	id := s.id()
	s.panels[id] = &panel{buf: buf, cfg: cfg}

	return id, nil
}

// SetPanelConfig moves or resizes an open panel.
func (s *Screen) SetPanelConfig(id int, cfg overlay.PanelConfig) error {
	p, ok := s.panels[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchPanel, id)
	}

	p.cfg = cfg

	return nil
}

// ClosePanel closes an open panel. The buffer survives.
func (s *Screen) ClosePanel(id int) error {
	if _, ok := s.panels[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchPanel, id)
	}

	delete(s.panels, id)

	return nil
}

// PanelValid reports whether id is an open panel.
func (s *Screen) PanelValid(id int) bool {
	_, ok := s.panels[id]
	return ok
}

// Columns is the screen width in cells.
func (s *Screen) Columns() int { return s.width }

// Notify shows a toast until timeout passes.
func (s *Screen) Notify(title, body string, timeout time.Duration) {
	s.toasts = append(s.toasts, toast{
		title:   title,
		lines:   strings.Split(body, "\n"),
		expires: s.now().Add(timeout),
	})
}

// Error puts msg on the error line. It stays until the next key press.
func (s *Screen) Error(msg string) {
	s.errLine = msg
}

// openPanels returns the open panels in creation order.
func (s *Screen) openPanels() []*panel {
	ids := slices.Sorted(maps.Keys(s.panels))

	out := make([]*panel, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.panels[id])
	}

	return out
}

// liveToasts drops expired toasts and returns the rest.
func (s *Screen) liveToasts() []toast {
	now := s.now()
	s.toasts = slices.DeleteFunc(s.toasts, func(t toast) bool { return !now.Before(t.expires) })

	return s.toasts
}
