package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/musher-dev/chaos/internal/bridge"
	"github.com/musher-dev/chaos/internal/chat"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/testutil"
)

var listenStart = time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)

func loadedBridge(cause error) *bridge.Bridge[chat.Payload] {
	b := bridge.New[chat.Payload]()

	for i, cmd := range []chat.Command{
		chat.Message{Author: "alice", Text: "hello there"},
		chat.ColorScheme{Name: "nord", Background: "light"},
		chat.Hell{},
	} {
		b.Send(chat.Payload{Command: cmd, ReceivedAt: listenStart.Add(time.Duration(i) * time.Second)})
		b.Wake()
	}

	if cause != nil {
		b.Close(cause)
	}

	return b
}

func TestWatch_PrintsUntilDisconnect(t *testing.T) {
	out, buf := testWriter()

	err := watch(t.Context(), out, loadedBridge(errors.New("connection reset")), "#rime")

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) {
		t.Fatalf("watch error = %v, want CLIError", err)
	}

	if cliErr.Code != clierrors.ExitNetwork || cliErr.Message != "Chat connection to #rime was lost" {
		t.Errorf("error = %d %q", cliErr.Code, cliErr.Message)
	}

	testutil.AssertGolden(t, buf.String(), "listen_lines.golden")
}

func TestWatch_JSON(t *testing.T) {
	out, buf := testWriter()
	out.JSON = true

	_ = watch(t.Context(), out, loadedBridge(errors.New("eof")), "#rime")

	dec := json.NewDecoder(buf)

	var got []listenEvent

	for dec.More() {
		var ev listenEvent
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode: %v", err)
		}

		got = append(got, ev)
	}

	want := []listenEvent{
		{Kind: "message", Author: "alice", Text: "hello there", ReceivedAt: listenStart},
		{Kind: "colorscheme", Scheme: "nord", Background: "light", ReceivedAt: listenStart.Add(time.Second)},
		{Kind: "hell", ReceivedAt: listenStart.Add(2 * time.Second)},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestWatch_CancelIsClean(t *testing.T) {
	out, buf := testWriter()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := watch(ctx, out, bridge.New[chat.Payload](), "#rime"); err != nil {
		t.Fatalf("watch error = %v", err)
	}

	if got, want := buf.String(), "Waiting for commands in #rime... done\n✓ Stopped listening\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWatch_ListenerStoppedByCancel(t *testing.T) {
	out, _ := testWriter()

	ctx, cancel := context.WithCancel(t.Context())

	b := bridge.New[chat.Payload]()
	cancel()
	b.Close(ctx.Err())

	if err := watch(ctx, out, b, "#rime"); err != nil {
		t.Errorf("watch error = %v, want nil after cancel", err)
	}
}
