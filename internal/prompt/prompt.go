// Package prompt provides interactive prompts for the chaos CLI.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/musher-dev/chaos/internal/output"
)

// errCanceled is returned when the user closes the input stream mid-prompt.
var errCanceled = errors.New("prompt canceled")

// IsCanceled reports whether err came from an aborted prompt.
func IsCanceled(err error) bool {
	return errors.Is(err, errCanceled)
}

// Prompter handles interactive prompts.
type Prompter struct {
	out    *output.Writer
	in     io.Reader
	reader *bufio.Reader

	// secret reads one line without echo. Defaults to term.ReadPassword on
	// stdin; tests replace it.
	secret func() ([]byte, error)
}

// New creates a Prompter reading from stdin.
func New(out *output.Writer) *Prompter {
	return NewWithInput(out, os.Stdin)
}

// NewWithInput creates a Prompter reading from in. Hidden input falls back to
// a plain line read when in is not a terminal.
func NewWithInput(out *output.Writer, in io.Reader) *Prompter {
	p := &Prompter{out: out, in: in, reader: bufio.NewReader(in)}

	p.secret = func() ([]byte, error) {
		if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return term.ReadPassword(int(f.Fd()))
		}

		line, err := p.readLine()

		return []byte(line), err
	}

	return p
}

// CanPrompt returns true if interactive prompts are available: both ends of
// the terminal are attached and --no-input is off.
func (p *Prompter) CanPrompt() bool {
	return p.out.Terminal().InteractiveEnabled() && !p.out.NoInput
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return "", errCanceled
		}

		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}

	return strings.TrimSpace(input), nil
}

// Confirm prompts for a yes/no confirmation.
func (p *Prompter) Confirm(message string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	p.out.Print("%s [%s]: ", message, defaultStr)

	input, err := p.readLine()
	if err != nil {
		return defaultValue, err
	}

	input = strings.ToLower(input)
	if input == "" {
		return defaultValue, nil
	}

	return input == "y" || input == "yes", nil
}

// Line prompts for a single line of visible input. Empty answers are asked
// again.
func (p *Prompter) Line(message string) (string, error) {
	for {
		p.out.Print("%s: ", message)

		input, err := p.readLine()
		if err != nil {
			return "", err
		}

		if input != "" {
			return input, nil
		}
	}
}

// Password prompts for a secret (hidden input).
func (p *Prompter) Password(message string) (string, error) {
	p.out.Print("%s: ", message)

	secret, err := p.secret()

	p.out.Println()

	if err != nil {
		if IsCanceled(err) {
			return "", err
		}

		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
