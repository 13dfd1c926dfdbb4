package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/musher-dev/chaos/internal/auth"
	"github.com/musher-dev/chaos/internal/bridge"
	"github.com/musher-dev/chaos/internal/buildinfo"
	"github.com/musher-dev/chaos/internal/chat"
	"github.com/musher-dev/chaos/internal/config"
	"github.com/musher-dev/chaos/internal/dispatch"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/observability"
	"github.com/musher-dev/chaos/internal/output"
	"github.com/musher-dev/chaos/internal/sound"
	"github.com/musher-dev/chaos/internal/tui"
)

// tabWidth is the number of spaces a tab expands to in the pager.
const tabWidth = 4

// welcome is shown when run is started without a file.
var welcome = []string{
	"chaos",
	"",
	"Chat commands:",
	"  %s TEXT            show TEXT as a notification",
	"  %s NAME [BG]  switch to colour scheme NAME for a while",
	"  %s                swap h/l, j/k, w/b and e/ge for a while",
	"",
	"Keys: h j k l w b e ge gg G, ctrl+d ctrl+u, : for commands, q to quit.",
}

func newRunCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Open a file with Twitch chat attached",
		Long: `Open FILE in the chaos pager and connect it to the configured Twitch channel.
Recognised chat commands change the pager for a limited time, and a panel in
the top-right corner counts down until each change reverts. Without a
channel the pager runs with chat off.`,
		Example: `  chaos run notes.md
  chaos run --channel rime README.md
  CHAOS_TRANSPORT=websocket chaos run`,
		Args: atMostOneArg,
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

			if !out.Terminal().FullScreenEnabled() {
				return clierrors.New(clierrors.ExitUsage, "'chaos run' needs an interactive terminal").
					WithHint("Use 'chaos listen' to watch chat commands without the pager")
			}

			name, lines, err := readDocument(args, cfg.Commands)
			if err != nil {
				return err
			}

			screen := tui.NewScreen(tui.ScreenOptions{
				Name:       name,
				Lines:      lines,
				Scheme:     cfg.Commands.ColorScheme.Default,
				Background: cfg.Commands.ColorScheme.Background,
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var (
				wg      sync.WaitGroup
				b       *bridge.Bridge[chat.Payload]
				modelOp = tui.ModelOptions{}
			)

			if cfg.HasChannel() {
				b = bridge.New[chat.Payload]()
				listener := chat.NewListener(
					newSource(cfg, observability.Component(logger, "chat")),
					chat.NewParser(cfg.Commands),
					b,
					chat.WithLogger(observability.Component(logger, "listener")),
				)

				// The listener logs its own exit and closes the bridge.
				wg.Go(func() { _ = listener.Run(ctx) })

				modelOp.Wakeups = b.Wakeups()
				modelOp.Channel = displayChannel(cfg.Channel)
			}

			ctl := dispatch.New(cfg, screen, b,
				dispatch.WithChime(sound.NewChime(cfg.Sound, observability.Component(logger, "sound"))),
				dispatch.WithLogger(observability.Component(logger, "dispatch")),
			)

			logger.Info("Starting host",
				slog.String("build", buildinfo.Current().String()),
				slog.String("document", name),
				slog.String("chat.channel", modelOp.Channel),
			)

			runErr := tui.Run(tui.NewModel(screen, ctl, modelOp))

			cancel()

			if !waitListener(&wg, listenerGrace) {
				logger.Warn("Chat listener did not stop in time", slog.Duration("grace", listenerGrace))
			}

			if runErr != nil {
				return fmt.Errorf("run host: %w", runErr)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Twitch channel to join (overrides the config file)")

	return cmd
}

// newSource builds the configured chat transport. A stored Twitch login is
// used when present; otherwise the connection is anonymous.
func newSource(cfg config.Config, logger *slog.Logger) chat.Source {
	source, login := auth.Get()
	logger.Debug("Chat credentials", slog.String("source", string(source)), slog.Bool("anonymous", login.Empty()))

	creds := chat.Credentials{User: login.User, Token: login.Token}

	if cfg.Transport == config.TransportWebSocket {
		return &chat.WebSocketSource{Channel: cfg.Channel, Credentials: creds, Logger: logger}
	}

	return &chat.IRCSource{Channel: cfg.Channel, Credentials: creds, Logger: logger}
}

// readDocument loads the file to page. Without a file the pager shows a short
// help text built from the configured command names.
func readDocument(args []string, cmds config.Commands) (string, []string, error) {
	if len(args) == 0 {
		lines := make([]string, len(welcome))
		copy(lines, welcome)
		lines[3] = fmt.Sprintf(lines[3], cmds.Message)
		lines[4] = fmt.Sprintf(lines[4], cmds.ColorScheme.Name)
		lines[5] = fmt.Sprintf(lines[5], cmds.Hell.Name)

		return "[welcome]", lines, nil
	}

	path := args[0]

	data, err := os.ReadFile(path) //nolint:gosec // G304: the user names the file to page
	if err != nil {
		return "", nil, clierrors.FileNotReadable(path, err)
	}

	return filepath.Base(path), splitDocument(string(data)), nil
}

func splitDocument(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "\t", strings.Repeat(" ", tabWidth))
	}

	return lines
}
