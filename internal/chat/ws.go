package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coder/websocket"
	"github.com/fluffle/goirc/client"
)

// TwitchWebSocketURL is Twitch's IRC-over-WebSocket endpoint.
const TwitchWebSocketURL = "wss://irc-ws.chat.twitch.tv:443"

// ErrReconnectRequested is returned when Twitch asks the client to reconnect.
var ErrReconnectRequested = errors.New("server requested reconnect")

// WebSocketSource reads a channel over Twitch's WebSocket IRC gateway. Frames
// carry one or more CRLF terminated IRC lines, parsed with goirc.
type WebSocketSource struct {
	Channel     string
	Credentials Credentials

	// URL is the gateway endpoint. Empty means TwitchWebSocketURL.
	URL string

	Logger *slog.Logger
}

// Run dials, logs in, joins the channel and forwards every PRIVMSG to handle.
func (s *WebSocketSource) Run(ctx context.Context, handle func(author, text string)) error {
	url := s.URL
	if url == "" {
		url = TwitchWebSocketURL
	}

	log := s.Logger
	if log == nil {
		log = slog.Default()
	}

	channel := channelName(s.Channel)
	log = log.With(slog.String("chat.server", url), slog.String("chat.channel", channel))

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	defer conn.CloseNow()

	send := func(line string) error {
		return conn.Write(ctx, websocket.MessageText, []byte(line+"\r\n"))
	}

	nick, pass := s.Credentials.login()
	for _, line := range []string{"PASS " + pass, "NICK " + nick, "JOIN " + channel} {
		if err := send(line); err != nil {
			return fmt.Errorf("ws login: %w", err)
		}
	}

	log.Info("Chat connected over websocket")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "bye")
				return nil
			}

			if websocket.CloseStatus(err) != -1 {
				return fmt.Errorf("%w: %v", ErrDisconnected, err)
			}

			return fmt.Errorf("ws read: %w", err)
		}

		for _, raw := range strings.Split(string(data), "\r\n") {
			if raw == "" {
				continue
			}

			line := client.ParseLine(raw)
			if line == nil {
				log.Debug("Unparseable chat line", slog.String("raw", raw))
				continue
			}

			switch line.Cmd {
			case client.PING:
				if err := send("PONG :" + line.Text()); err != nil {
					return fmt.Errorf("ws pong: %w", err)
				}
			case client.PRIVMSG:
				handle(line.Nick, line.Text())
			case client.NOTICE:
				if loginFailed(line.Text()) {
					return fmt.Errorf("%s: %s", url, line.Text())
				}
			case "RECONNECT":
				return ErrReconnectRequested
			}
		}
	}
}
