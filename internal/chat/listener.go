package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/musher-dev/chaos/internal/observability"
)

const tracerName = "github.com/musher-dev/chaos/internal/chat"

// Source is a chat connection. Run blocks until the connection ends or ctx
// is done, calling handle once per chat line in arrival order.
type Source interface {
	Run(ctx context.Context, handle func(author, text string)) error
}

// Sink receives recognised commands. *bridge.Bridge[Payload] satisfies it.
type Sink interface {
	Send(p Payload)
	Wake()
	Close(err error)
}

// Listener connects a Source to a Sink through a Parser. It is the only
// producer feeding the host loop.
type Listener struct {
	source Source
	parser *Parser
	sink   Sink
	log    *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithLogger sets the listener's logger.
func WithLogger(logger *slog.Logger) ListenerOption {
	return func(l *Listener) { l.log = logger }
}

// WithTracer sets the tracer used for per-command spans.
func WithTracer(tracer trace.Tracer) ListenerOption {
	return func(l *Listener) { l.tracer = tracer }
}

// WithClock overrides the clock stamping payloads.
func WithClock(now func() time.Time) ListenerOption {
	return func(l *Listener) { l.now = now }
}

// NewListener returns a listener reading source and feeding sink.
func NewListener(source Source, parser *Parser, sink Sink, opts ...ListenerOption) *Listener {
	l := &Listener{
		source: source,
		parser: parser,
		sink:   sink,
		log:    slog.Default(),
		tracer: observability.Tracer(tracerName),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run reads chat until the source stops. It always closes the sink on return
// so the consumer learns that no more commands will arrive. A cancelled ctx
// is a clean shutdown and yields a nil error.
func (l *Listener) Run(ctx context.Context) error {
	l.log.Info("Chat listener started")

	err := l.source.Run(ctx, func(author, text string) {
		l.handle(ctx, author, text)
	})

	if ctx.Err() != nil && (err == nil || errors.Is(err, ctx.Err())) {
		l.log.Info("Chat listener stopped")
		l.sink.Close(ctx.Err())

		return nil
	}

	if err == nil {
		err = ErrSourceClosed
	}

	l.log.Error("Chat listener exited", slog.String("error", err.Error()))
	l.sink.Close(err)

	return err
}

// ErrSourceClosed is reported when a source ends without an error.
var ErrSourceClosed = errors.New("chat connection closed")

func (l *Listener) handle(ctx context.Context, author, text string) {
	cmd, ok := l.parser.Parse(author, text)
	if !ok {
		return
	}

	_, span := l.tracer.Start(ctx, "chat.command",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("chat.command.kind", cmd.Kind()),
			attribute.String("chat.author", author),
		),
	)
	defer span.End()

	l.log.Debug("Chat command received",
		slog.String("chat.command.kind", cmd.Kind()),
		slog.String("chat.author", author),
	)

	l.sink.Send(Payload{Command: cmd, ReceivedAt: l.now()})
	l.sink.Wake()
}
