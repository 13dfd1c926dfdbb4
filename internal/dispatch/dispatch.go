// Package dispatch connects the chat bridge to the mode engine on the host
// loop.
//
// A Controller is owned by the host loop. Wake drains the bridge after a
// wake-up and Tick advances the countdown once per second. Neither blocks.
package dispatch

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/musher-dev/chaos/internal/bridge"
	"github.com/musher-dev/chaos/internal/chat"
	"github.com/musher-dev/chaos/internal/config"
	"github.com/musher-dev/chaos/internal/engine"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/mode"
	"github.com/musher-dev/chaos/internal/overlay"
)

// ErrorPrefix tags every error shown on the host error line.
const ErrorPrefix = "[chaos]"

// wrapWidth is the column notifications are word-wrapped at.
const wrapWidth = 40

// Host is everything the controller drives on the host application.
type Host interface {
	mode.Host
	overlay.Host

	// Notify shows a transient notification.
	Notify(title, body string, timeout time.Duration)
	// Error writes one line to the host's error area.
	Error(msg string)
}

// Chime plays the notification sound. Play must not block.
type Chime interface {
	Play()
}

type silentChime struct{}

func (silentChime) Play() {}

// Controller turns payloads into host actions.
type Controller struct {
	cfg    config.Config
	host   Host
	bridge *bridge.Bridge[chat.Payload]
	engine *engine.Engine
	chime  Chime
	log    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithChime sets the notification sound.
func WithChime(c Chime) Option {
	return func(ctl *Controller) { ctl.chime = c }
}

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ctl *Controller) { ctl.log = logger }
}

// New returns a controller for host. b may be nil when no chat channel is
// configured; the controller then only runs the countdown.
func New(cfg config.Config, host Host, b *bridge.Bridge[chat.Payload], opts ...Option) *Controller {
	ctl := &Controller{
		cfg:    cfg,
		host:   host,
		bridge: b,
		chime:  silentChime{},
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(ctl)
	}

	ctl.engine = engine.New(overlay.New(host), ctl.log)

	return ctl
}

// Listening reports whether the bridge can still deliver payloads. It turns
// false once the disconnect has been drained.
func (c *Controller) Listening() bool {
	return c.bridge != nil && !c.bridge.Stopped()
}

// Engine exposes the mode engine, mainly for status display.
func (c *Controller) Engine() *engine.Engine { return c.engine }

// Wake drains every queued payload. Errors are reported on the host and
// returned joined.
func (c *Controller) Wake() error {
	if !c.Listening() {
		return nil
	}

	var errs []error

	err := c.bridge.Drain(func(p chat.Payload) {
		if err := c.handle(p); err != nil {
			errs = append(errs, err)
		}
	})
	if err != nil {
		var disc *bridge.DisconnectedError
		if errors.As(err, &disc) {
			c.log.Warn("Chat bridge closed", slog.String("error", err.Error()))
		}

		errs = append(errs, err)
	}

	joined := errors.Join(errs...)
	c.report(joined)

	return joined
}

// Tick advances the countdown by one second.
func (c *Controller) Tick() error {
	err := c.engine.Tick()
	c.report(err)

	return err
}

// Close stops every active mode and closes the overlay.
func (c *Controller) Close() error {
	err := c.engine.Close()
	c.report(err)

	return err
}

func (c *Controller) handle(p chat.Payload) error {
	switch cmd := p.Command.(type) {
	case chat.Message:
		c.log.Info("Chat message", slog.String("chat.author", cmd.Author))
		c.host.Notify(cmd.Author, wrapText(cmd.Text, wrapWidth), time.Duration(c.cfg.Notify.Timeout)*time.Second)
		c.chime.Play()

		return nil
	case chat.ColorScheme:
		cs := c.cfg.Commands.ColorScheme
		m := mode.NewColorScheme(c.host, cmd.Name, cmd.Background, mode.Baseline{Scheme: cs.Default, Background: cs.Background})

		return c.engine.SetMode(m, mode.KindColorScheme, cs.Duration)
	case chat.Hell:
		return c.engine.SetMode(mode.NewKeyRemap(c.host), mode.KindKeyRemap, c.cfg.Commands.Hell.Duration)
	default:
		c.log.Debug("Unhandled chat command", slog.String("chat.command.kind", p.Command.Kind()))
		return nil
	}
}

// report writes each error in err on its own host error line.
func (c *Controller) report(err error) {
	if err == nil {
		return
	}

	for _, e := range clierrors.Leaves(err) {
		c.log.Error("Chaos error", slog.String("error", e.Error()))
		c.host.Error(ErrorPrefix + " " + e.Error())
	}
}

// wrapText word-wraps s so no line exceeds width bytes, unless a single word
// is longer. Runs of whitespace collapse to one space.
func wrapText(s string, width int) string {
	var (
		b       strings.Builder
		lineLen int
	)

	for _, word := range strings.Fields(s) {
		switch {
		case lineLen == 0 && b.Len() == 0:
		case lineLen+1+len(word) > width:
			b.WriteByte('\n')
			lineLen = 0
		default:
			b.WriteByte(' ')
			lineLen++
		}

		b.WriteString(word)
		lineLen += len(word)
	}

	return b.String()
}
