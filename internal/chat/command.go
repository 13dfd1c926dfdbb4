// Package chat turns a Twitch chat stream into chaos commands.
//
// A Source delivers raw (author, text) pairs. The Parser recognises command
// lines, and the Listener forwards each recognised command to a Sink. The
// Sink is the producer side of the bridge to the host loop.
package chat

import "time"

// Command is a recognised chat command. The set of implementations is closed:
// Message, ColorScheme and Hell.
type Command interface {
	// Kind is a short label used in logs and traces.
	Kind() string

	isCommand()
}

// Message asks the host to show a notification.
type Message struct {
	Author string
	Text   string
}

// ColorScheme asks the host to switch colour scheme for a while. Background
// is "" when the viewer did not give one.
type ColorScheme struct {
	Name       string
	Background string
}

// Hell asks the host to scramble its navigation keys for a while.
type Hell struct{}

func (Message) Kind() string     { return "message" }
func (ColorScheme) Kind() string { return "colorscheme" }
func (Hell) Kind() string        { return "hell" }

func (Message) isCommand()     {}
func (ColorScheme) isCommand() {}
func (Hell) isCommand()        {}

// Payload is one recognised command travelling to the host loop.
type Payload struct {
	Command    Command
	ReceivedAt time.Time
}
