package chat

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/fluffle/goirc/client"
)

// TwitchIRCServer is Twitch's IRC endpoint over TLS.
const TwitchIRCServer = "irc.chat.twitch.tv:6697"

// quitGrace bounds how long Run waits for the server to close after QUIT.
const quitGrace = 2 * time.Second

// ErrDisconnected is returned when the server drops the connection.
var ErrDisconnected = errors.New("disconnected from chat server")

// IRCSource reads a channel over IRC using goirc.
type IRCSource struct {
	Channel     string
	Credentials Credentials

	// Server is host:port. Empty means TwitchIRCServer.
	Server string
	// Plaintext disables TLS. Used against local test servers.
	Plaintext bool
	// Timeout bounds the dial. Zero uses 30s.
	Timeout time.Duration

	Logger *slog.Logger
}

func (s *IRCSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return slog.Default()
}

// Run connects, joins the channel and forwards every PRIVMSG to handle.
// Cancelling ctx returns promptly, even during the dial. When the server
// hangs up, lines goirc has read but not yet dispatched are dropped.
func (s *IRCSource) Run(ctx context.Context, handle func(author, text string)) error {
	server := s.Server
	if server == "" {
		server = TwitchIRCServer
	}

	nick, pass := s.Credentials.login()
	channel := channelName(s.Channel)
	log := s.logger().With(slog.String("chat.server", server), slog.String("chat.channel", channel))

	cfg := client.NewConfig(nick)
	cfg.Server = server
	cfg.Pass = pass
	cfg.Timeout = s.Timeout
	cfg.NewNick = func(n string) string { return n + "_" }
	// Read-only client: it sends a handful of lines per session.
	cfg.Flood = true

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	if !s.Plaintext {
		host, _, err := net.SplitHostPort(server)
		if err != nil {
			return fmt.Errorf("parse chat server %q: %w", server, err)
		}

		cfg.SSL = true
		cfg.SSLConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}

	conn := client.Client(cfg)

	// First terminal event wins.
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	conn.HandleFunc(client.CONNECTED, func(c *client.Conn, _ *client.Line) {
		log.Info("Chat connected, joining channel")
		c.Join(channel)
	})

	conn.HandleFunc(client.PRIVMSG, func(_ *client.Conn, line *client.Line) {
		handle(line.Nick, line.Text())
	})

	conn.HandleFunc(client.NOTICE, func(_ *client.Conn, line *client.Line) {
		if loginFailed(line.Text()) {
			finish(fmt.Errorf("%s: %s", server, line.Text()))
		}
	})

	conn.HandleFunc(client.DISCONNECTED, func(*client.Conn, *client.Line) {
		finish(ErrDisconnected)
	})

	// goirc ties its read, write and dispatch loops to the connect context.
	// It is cancelled separately so a QUIT can still go out once ctx is done.
	connCtx, stop := context.WithCancel(context.WithoutCancel(ctx))

	connected := make(chan error, 1)
	go func() { connected <- conn.ConnectContext(connCtx) }()

	select {
	case <-ctx.Done():
		// stop aborts a pending TCP dial. The TLS handshake does not watch
		// connCtx; it ends when the server answers or drops the socket, and
		// the cancelled context then closes the connection at once.
		stop()
		log.Info("Chat connect abandoned")

		return nil
	case err := <-connected:
		if err != nil {
			stop()
			return fmt.Errorf("connect to %s: %w", server, err)
		}
	}

	select {
	case <-ctx.Done():
		log.Info("Leaving chat")
		conn.Quit("bye")

		// Give the QUIT a moment to flush before the socket goes.
		select {
		case <-done:
		case <-time.After(quitGrace):
		}

		stop()

		return nil
	case err := <-done:
		stop()
		return err
	}
}
