// Package mode defines the reversible host overrides that chat can trigger.
//
// A Mode applies itself with Start and reverts with Stop. The set of
// variants is closed: colour scheme overrides and key remaps. Each variant
// holds only the data it needs plus the Host it drives.
package mode

import (
	"errors"
	"fmt"
	"slices"
)

// Kind identifies the slot a Mode occupies. At most one Mode per Kind is
// active at a time.
type Kind int

const (
	KindColorScheme Kind = iota + 1
	KindKeyRemap
)

// String returns the kind's label.
func (k Kind) String() string {
	switch k {
	case KindColorScheme:
		return "colorscheme"
	case KindKeyRemap:
		return "keyremap"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Mode is a timed, reversible override of host behaviour.
type Mode interface {
	// Name is the label shown in the status overlay. It has no side effects.
	Name() string
	// Valid reports whether the mode can be applied on this host.
	Valid() (bool, error)
	// Start applies the override.
	Start() error
	// Stop reverts to the baseline.
	Stop() error
}

// Host is the part of the host application modes drive.
type Host interface {
	// Command runs one host command string, e.g. "colorscheme nord".
	Command(cmd string) error
	// Completion lists the candidates for a category, e.g. "color".
	Completion(category string) ([]string, error)
}

// runAll runs every command in order, continuing past failures, and returns
// the joined errors.
func runAll(host Host, cmds []string) error {
	var errs []error

	for _, cmd := range cmds {
		if err := host.Command(cmd); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd, err))
		}
	}

	return errors.Join(errs...)
}

// Baseline is the appearance a colour scheme override reverts to.
type Baseline struct {
	Scheme     string
	Background string
}

// ColorScheme swaps the host colour scheme.
type ColorScheme struct {
	host       Host
	scheme     string
	background string
	baseline   Baseline
}

// NewColorScheme returns a colour scheme override. Backgrounds other than
// "dark" and "light" are ignored and keep the host's current one.
func NewColorScheme(host Host, scheme, background string, baseline Baseline) *ColorScheme {
	return &ColorScheme{
		host:       host,
		scheme:     scheme,
		background: normalizeBackground(background),
		baseline:   Baseline{Scheme: baseline.Scheme, Background: normalizeBackground(baseline.Background)},
	}
}

func normalizeBackground(bg string) string {
	switch bg {
	case "dark", "light":
		return bg
	default:
		return ""
	}
}

// Name implements Mode.
func (c *ColorScheme) Name() string {
	return "Color Scheme - " + c.scheme
}

// Valid reports whether the host knows the scheme.
func (c *ColorScheme) Valid() (bool, error) {
	schemes, err := c.host.Completion("color")
	if err != nil {
		return false, fmt.Errorf("list color schemes: %w", err)
	}

	return slices.Contains(schemes, c.scheme), nil
}

// Start implements Mode.
func (c *ColorScheme) Start() error {
	cmds := []string{"colorscheme " + c.scheme}
	if c.background != "" {
		cmds = append(cmds, "set background="+c.background)
	}

	return runAll(c.host, cmds)
}

// Stop implements Mode.
func (c *ColorScheme) Stop() error {
	cmds := []string{"colorscheme " + c.baseline.Scheme}
	if c.baseline.Background != "" {
		cmds = append(cmds, "set background="+c.baseline.Background)
	}

	return runAll(c.host, cmds)
}

// hellSwaps pairs each motion with the one it is remapped to.
var hellSwaps = [][2]string{
	{"l", "h"},
	{"k", "j"},
	{"j", "k"},
	{"h", "l"},
	{"w", "b"},
	{"b", "w"},
	{"e", "ge"},
	{"ge", "e"},
}

// KeyRemap scrambles the navigation keys.
type KeyRemap struct {
	host Host
}

// NewKeyRemap returns the navigation key scramble.
func NewKeyRemap(host Host) *KeyRemap {
	return &KeyRemap{host: host}
}

// Name implements Mode.
func (k *KeyRemap) Name() string { return "Vim Motions Hell" }

// Valid implements Mode. Remaps need no host lookup.
func (k *KeyRemap) Valid() (bool, error) { return true, nil }

// Start implements Mode.
func (k *KeyRemap) Start() error {
	cmds := make([]string, 0, len(hellSwaps))
	for _, s := range hellSwaps {
		cmds = append(cmds, "noremap "+s[0]+" "+s[1])
	}

	return runAll(k.host, cmds)
}

// Stop maps every key back to itself.
func (k *KeyRemap) Stop() error {
	cmds := make([]string, 0, len(hellSwaps))
	for _, s := range hellSwaps {
		cmds = append(cmds, "noremap "+s[0]+" "+s[0])
	}

	return runAll(k.host, cmds)
}
