package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/musher-dev/chaos/internal/bridge"
	"github.com/musher-dev/chaos/internal/chat"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/observability"
	"github.com/musher-dev/chaos/internal/output"
)

func newListenCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print chat commands as they arrive",
		Long: `Connect to the configured Twitch channel and print every recognised chat
command, without opening the pager. Useful for checking command names and
credentials before going live. Stops on Ctrl+C or when the connection drops.`,
		Example: `  chaos listen --channel rime
  chaos listen --json | jq .kind`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			logger := observability.FromContext(cmd.Context())

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if channel != "" {
				cfg.Channel = channel
			}

			if !cfg.HasChannel() {
				return clierrors.ChannelRequired()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b := bridge.New[chat.Payload]()
			listener := chat.NewListener(
				newSource(cfg, observability.Component(logger, "chat")),
				chat.NewParser(cfg.Commands),
				b,
				chat.WithLogger(observability.Component(logger, "listener")),
			)

			var wg sync.WaitGroup
			wg.Go(func() { _ = listener.Run(ctx) })

			err = watch(ctx, out, b, displayChannel(cfg.Channel))

			stop()

			if !waitListener(&wg, listenerGrace) {
				logger.Warn("Chat listener did not stop in time", slog.Duration("grace", listenerGrace))
			}

			return err
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Twitch channel to join (overrides the config file)")

	return cmd
}

// listenEvent is one chat command in --json output.
type listenEvent struct {
	Kind       string    `json:"kind"`
	Author     string    `json:"author,omitempty"`
	Text       string    `json:"text,omitempty"`
	Scheme     string    `json:"scheme,omitempty"`
	Background string    `json:"background,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

func newListenEvent(p chat.Payload) listenEvent {
	ev := listenEvent{Kind: p.Command.Kind(), ReceivedAt: p.ReceivedAt}

	switch c := p.Command.(type) {
	case chat.Message:
		ev.Author, ev.Text = c.Author, c.Text
	case chat.ColorScheme:
		ev.Scheme, ev.Background = c.Name, c.Background
	}

	return ev
}

func (ev listenEvent) String() string {
	stamp := ev.ReceivedAt.Format(time.TimeOnly)

	switch ev.Kind {
	case "message":
		return fmt.Sprintf("%s  %-11s  %s: %s", stamp, ev.Kind, ev.Author, ev.Text)
	case "colorscheme":
		return strings.TrimRight(fmt.Sprintf("%s  %-11s  %s %s", stamp, ev.Kind, ev.Scheme, ev.Background), " ")
	default:
		return fmt.Sprintf("%s  %s", stamp, ev.Kind)
	}
}

// watch prints payloads from b until ctx ends or the listener goes away. A
// lost connection is an error; a cancelled ctx is not.
func watch(ctx context.Context, out *output.Writer, b *bridge.Bridge[chat.Payload], channel string) error {
	var spin *output.Spinner
	if !out.JSON {
		spin = out.Spinner("Waiting for commands in " + channel)
		spin.Start()
	}

	settle := func(ok bool, message string) {
		if spin == nil {
			return
		}

		if ok {
			spin.StopWithSuccess(message)
		} else {
			spin.StopWithFailure(message)
		}

		spin = nil
	}

	for {
		select {
		case <-ctx.Done():
			settle(true, "Stopped listening")
			return nil
		case <-b.Wakeups():
		}

		var printErr error

		drainErr := b.Drain(func(p chat.Payload) {
			settle(true, "Receiving commands from "+channel)

			ev := newListenEvent(p)
			if out.JSON {
				if err := out.PrintJSON(ev); err != nil && printErr == nil {
					printErr = fmt.Errorf("print listen event json: %w", err)
				}

				return
			}

			out.Println(ev.String())
		})

		if printErr != nil {
			return printErr
		}

		if drainErr != nil {
			if ctx.Err() != nil {
				settle(true, "Stopped listening")
				return nil
			}

			settle(false, "Chat connection lost")

			return clierrors.ChatFailed(strings.TrimPrefix(channel, "#"), drainErr)
		}
	}
}
