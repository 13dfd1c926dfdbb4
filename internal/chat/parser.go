package chat

import (
	"strings"
	"unicode"

	"github.com/musher-dev/chaos/internal/config"
)

// Parser recognises command lines using the configured command names.
type Parser struct {
	message     string
	colorScheme string
	hell        string
}

// NewParser returns a parser for the given command table. Names are matched
// exactly; overlap between them is rejected by config validation.
func NewParser(cmds config.Commands) *Parser {
	return &Parser{
		message:     cmds.Message,
		colorScheme: cmds.ColorScheme.Name,
		hell:        cmds.Hell.Name,
	}
}

// splitFirst splits s at its first run of whitespace. rest is empty when s
// holds a single token.
func splitFirst(s string) (first, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

// Parse returns the command in line, if any. Lines that match no command are
// not an error; they are ordinary chat.
func (p *Parser) Parse(author, line string) (Command, bool) {
	first, rest := splitFirst(strings.TrimSpace(line))
	if first == "" {
		return nil, false
	}

	switch first {
	case p.message:
		if rest == "" {
			return nil, false
		}

		return Message{Author: author, Text: rest}, true
	case p.colorScheme:
		name, background := splitFirst(rest)
		if name == "" {
			return nil, false
		}

		return ColorScheme{Name: name, Background: background}, true
	case p.hell:
		return Hell{}, true
	default:
		return nil, false
	}
}
