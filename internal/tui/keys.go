package tui

import (
	"strings"
	"unicode"
)

// motions are the built-in normal mode sequences.
var motions = map[string]func(s *Screen){
	"h":      func(s *Screen) { s.moveCol(-1) },
	"l":      func(s *Screen) { s.moveCol(1) },
	"j":      func(s *Screen) { s.moveRow(1) },
	"k":      func(s *Screen) { s.moveRow(-1) },
	"w":      (*Screen).wordForward,
	"b":      (*Screen).wordBackward,
	"e":      (*Screen).wordEnd,
	"ge":     (*Screen).wordEndBackward,
	"gg":     func(s *Screen) { s.row, s.col = 0, 0 },
	"G":      func(s *Screen) { s.row, s.col = len(s.doc)-1, 0 },
	"ctrl+d": func(s *Screen) { s.moveRow(s.docHeight() / 2) },
	"ctrl+u": func(s *Screen) { s.moveRow(-s.docHeight() / 2) },
}

// HandleKey processes one key press as reported by bubbletea's KeyMsg.String.
// It returns true when the user asked to quit.
func (s *Screen) HandleKey(key string) (quit bool) {
	if s.inCmdline {
		s.cmdlineKey(key)
		return false
	}

	s.errLine = ""

	if len(s.pending) == 0 {
		switch key {
		case "q":
			return true
		case ":":
			s.inCmdline = true
			s.cmdline = ""

			return false
		case "esc":
			return false
		}
	}

	seq, ok := s.resolve(key)
	if !ok {
		return false
	}

	// Mappings are not recursive: the right-hand side runs as a built-in.
	if rhs, mapped := s.remap[seq]; mapped {
		seq = rhs
	}

	if m, known := motions[seq]; known {
		m(s)
		s.clamp()
		s.scroll()
	}

	return false
}

// resolve adds key to the pending keys and decides what they mean. It returns
// a complete sequence, or false while more keys are needed. When the pending
// keys start no sequence, the last key is retried on its own.
func (s *Screen) resolve(key string) (string, bool) {
	s.pending = append(s.pending, key)

	for {
		seq := strings.Join(s.pending, "")
		exact, prefix := s.match(seq)

		switch {
		case prefix:
			return "", false
		case exact:
			s.pending = nil
			return seq, true
		case len(s.pending) > 1:
			s.pending = s.pending[len(s.pending)-1:]
		default:
			s.pending = nil
			return "", false
		}
	}
}

// match reports whether keys equal a known sequence and whether they are a
// strict prefix of a longer one.
func (s *Screen) match(keys string) (exact, prefix bool) {
	for _, seq := range s.sequences() {
		switch {
		case seq == keys:
			exact = true
		case strings.HasPrefix(seq, keys):
			prefix = true
		}
	}

	return exact, prefix
}

// sequences is every sequence that can complete: built-ins plus mapped keys.
func (s *Screen) sequences() []string {
	out := make([]string, 0, len(motions)+len(s.remap))
	for k := range motions {
		out = append(out, k)
	}

	for k := range s.remap {
		out = append(out, k)
	}

	return out
}

func (s *Screen) cmdlineKey(key string) {
	switch key {
	case "enter":
		cmd := s.cmdline
		s.inCmdline, s.cmdline = false, ""

		if err := s.Command(cmd); err != nil {
			s.Error(err.Error())
		}
	case "esc":
		s.inCmdline, s.cmdline = false, ""
	case "backspace":
		if s.cmdline == "" {
			s.inCmdline = false
			return
		}

		r := []rune(s.cmdline)
		s.cmdline = string(r[:len(r)-1])
	case "space":
		s.cmdline += " "
	default:
		if r := []rune(key); len(r) == 1 && unicode.IsPrint(r[0]) {
			s.cmdline += key
		}
	}
}

func (s *Screen) line() []rune {
	return []rune(s.doc[s.row])
}

func (s *Screen) moveCol(d int) { s.col += d }

func (s *Screen) moveRow(d int) { s.row += d }

// clamp keeps the cursor on a character of the document.
func (s *Screen) clamp() {
	s.row = min(max(s.row, 0), len(s.doc)-1)
	s.col = min(max(s.col, 0), max(len(s.line())-1, 0))
}

// docHeight is the rows available to the document, above the status line.
func (s *Screen) docHeight() int {
	return max(s.height-1, 1)
}

// scroll keeps the cursor row visible.
func (s *Screen) scroll() {
	if s.row < s.top {
		s.top = s.row
	}

	if h := s.docHeight(); s.row >= s.top+h {
		s.top = s.row - h + 1
	}
}

// pos is a cursor position used by the word motions, which cross lines.
type pos struct{ row, col int }

// at returns the rune at p, treating line ends as a space.
func (s *Screen) at(p pos) rune {
	r := []rune(s.doc[p.row])
	if p.col >= len(r) {
		return ' '
	}

	return r[p.col]
}

func (s *Screen) next(p pos) (pos, bool) {
	if p.col < len([]rune(s.doc[p.row])) {
		return pos{p.row, p.col + 1}, true
	}

	if p.row+1 < len(s.doc) {
		return pos{p.row + 1, 0}, true
	}

	return p, false
}

func (s *Screen) prev(p pos) (pos, bool) {
	if p.col > 0 {
		return pos{p.row, p.col - 1}, true
	}

	if p.row > 0 {
		return pos{p.row - 1, len([]rune(s.doc[p.row-1]))}, true
	}

	return p, false
}

func blank(r rune) bool { return unicode.IsSpace(r) }

func (s *Screen) cursor() pos { return pos{s.row, s.col} }

func (s *Screen) set(p pos) { s.row, s.col = p.row, p.col }

// wordForward moves to the start of the next blank-separated word.
func (s *Screen) wordForward() {
	p, ok := s.cursor(), true

	for ok && !blank(s.at(p)) {
		p, ok = s.next(p)
	}

	for ok && blank(s.at(p)) {
		p, ok = s.next(p)
	}

	if ok {
		s.set(p)
	}
}

// wordBackward moves to the start of the current or previous word.
func (s *Screen) wordBackward() {
	p, ok := s.prev(s.cursor())

	for ok && blank(s.at(p)) {
		p, ok = s.prev(p)
	}

	if !ok {
		return
	}

	for {
		q, more := s.prev(p)
		if !more || blank(s.at(q)) {
			break
		}

		p = q
	}

	s.set(p)
}

// wordEnd moves to the end of the current or next word.
func (s *Screen) wordEnd() {
	p, ok := s.next(s.cursor())

	for ok && blank(s.at(p)) {
		p, ok = s.next(p)
	}

	if !ok {
		return
	}

	for {
		q, more := s.next(p)
		if !more || blank(s.at(q)) {
			break
		}

		p = q
	}

	s.set(p)
}

// wordEndBackward moves to the end of the previous word.
func (s *Screen) wordEndBackward() {
	p, ok := s.cursor(), true

	for ok && !blank(s.at(p)) {
		p, ok = s.prev(p)
	}

	for ok && blank(s.at(p)) {
		p, ok = s.prev(p)
	}

	if ok {
		s.set(p)
	}
}
