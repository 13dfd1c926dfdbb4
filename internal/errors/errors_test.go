package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/musher-dev/chaos/internal/testutil"
)

func TestChatFailed(t *testing.T) {
	tests := []struct {
		name     string
		cause    error
		wantMsg  string
		wantHint string
		wantCode int
	}{
		{
			name:     "login rejected",
			cause:    errors.New(":tmi.twitch.tv NOTICE * :Login authentication failed"),
			wantMsg:  "rejected the chat login",
			wantHint: "chaos auth login",
			wantCode: ExitAuth,
		},
		{
			name:     "dns",
			cause:    errors.New("dial tcp: lookup irc.chat.twitch.tv: no such host"),
			wantMsg:  "#rime failed",
			wantHint: "DNS",
			wantCode: ExitNetwork,
		},
		{
			name:     "timeout",
			cause:    errors.New("context deadline exceeded"),
			wantMsg:  "timed out",
			wantHint: "network connection",
			wantCode: ExitNetwork,
		},
		{
			name:     "lost",
			cause:    errors.New("payload receiving error: EOF"),
			wantMsg:  "was lost",
			wantHint: "--log-level=debug",
			wantCode: ExitNetwork,
		},
		{
			name:     "nil cause",
			cause:    nil,
			wantMsg:  "#rime failed",
			wantHint: "network connection",
			wantCode: ExitNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ChatFailed("rime", tt.cause)

			if !strings.Contains(err.Message, tt.wantMsg) {
				t.Errorf("message = %q, want to contain %q", err.Message, tt.wantMsg)
			}

			if !strings.Contains(err.Hint, tt.wantHint) {
				t.Errorf("hint = %q, want to contain %q", err.Hint, tt.wantHint)
			}

			if err.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", err.Code, tt.wantCode)
			}
		})
	}
}

func TestConstructorsHaveHints(t *testing.T) {
	tests := []struct {
		name string
		err  *CLIError
	}{
		{"NotAuthenticated", NotAuthenticated()},
		{"CannotPrompt", CannotPrompt("TEST_VAR")},
		{"TokenEmpty", TokenEmpty()},
		{"ConfigInvalid", ConfigInvalid(nil)},
		{"ConfigFailed", ConfigFailed("test operation", nil)},
		{"ChannelRequired", ChannelRequired()},
		{"ThemeNotFound", ThemeNotFound("nope")},
		{"FileNotReadable", FileNotReadable("/tmp/x", nil)},
		{"ChatFailed", ChatFailed("rime", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Hint == "" {
				t.Errorf("%s() should have a hint, got empty string", tt.name)
			}

			if tt.err.Message == "" {
				t.Errorf("%s() should have a message, got empty string", tt.name)
			}
		})
	}
}

func TestCLIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CLIError
		want string
	}{
		{
			name: "message only",
			err:  &CLIError{Message: "test error"},
			want: "test error",
		},
		{
			name: "message with cause",
			err:  &CLIError{Message: "test error", Cause: New(1, "underlying")},
			want: "test error: underlying",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	cause := New(1, "cause")
	err := &CLIError{Message: "wrapper", Cause: cause}

	if got := err.Unwrap(); got != cause { //nolint:errorlint // testing identity
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ConfigInvalid(errors.New("bad")))

	var cliErr *CLIError
	if !As(wrapped, &cliErr) {
		t.Fatal("As() = false, want true")
	}

	if cliErr.Code != ExitConfig {
		t.Errorf("code = %d, want %d", cliErr.Code, ExitConfig)
	}
}

func TestWithHint(t *testing.T) {
	err := New(1, "test").WithHint("do this")

	if err.Hint != "do this" {
		t.Errorf("WithHint() hint = %q, want %q", err.Hint, "do this")
	}
}

func TestWrap(t *testing.T) {
	cause := New(1, "cause")
	err := Wrap(ExitNetwork, "wrapped", cause)

	if err.Code != ExitNetwork {
		t.Errorf("Wrap() code = %d, want %d", err.Code, ExitNetwork)
	}

	if err.Cause != cause { //nolint:errorlint // testing struct field identity
		t.Errorf("Wrap() cause = %v, want %v", err.Cause, cause)
	}
}

// formatCLIError produces a deterministic string representation of a CLIError for golden file comparison.
func formatCLIError(err *CLIError) string {
	return fmt.Sprintf("Message: %s\nHint: %s\nCode: %d\n", err.Message, err.Hint, err.Code)
}

func TestErrorMessages_Golden(t *testing.T) {
	tests := []struct {
		name string
		err  *CLIError
	}{
		{"NotAuthenticated", NotAuthenticated()},
		{"CannotPrompt", CannotPrompt("CHAOS_TWITCH_TOKEN")},
		{"TokenEmpty", TokenEmpty()},
		{"ConfigInvalid", ConfigInvalid(nil)},
		{"ConfigFailed", ConfigFailed("store credentials", nil)},
		{"ChannelRequired", ChannelRequired()},
		{"ThemeNotFound", ThemeNotFound("mauve")},
		{"FileNotReadable", FileNotReadable("notes.txt", nil)},
		{"ChatFailed_Generic", ChatFailed("rime", nil)},
		{"ChatFailed_Login", ChatFailed("rime", errors.New("Login authentication failed"))},
	}

	var sb strings.Builder
	for _, tt := range tests {
		fmt.Fprintf(&sb, "--- %s ---\n", tt.name)
		sb.WriteString(formatCLIError(tt.err))
		sb.WriteString("\n")
	}

	testutil.AssertGolden(t, sb.String(), "error_messages.golden")
}

func TestLeaves(t *testing.T) {
	a := errors.New("transport: bad")
	b := errors.New("commands.hell.name: taken")
	c := errors.New("sound.volume: out of range")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{"single", a, []string{"transport: bad"}},
		{"nested joins", errors.Join(a, errors.Join(b, c)), []string{
			"transport: bad",
			"commands.hell.name: taken",
			"sound.volume: out of range",
		}},
		{"wrapped join keeps prefix", fmt.Errorf("keyremap start: %w", errors.Join(a, b)), []string{
			"keyremap start: transport: bad",
			"keyremap start: commands.hell.name: taken",
		}},
		{"join of wrapped joins", errors.Join(fmt.Errorf("stop: %w", errors.Join(a, b)), c), []string{
			"stop: transport: bad",
			"stop: commands.hell.name: taken",
			"sound.volume: out of range",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range Leaves(tt.err) {
				got = append(got, e.Error())
			}

			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("Leaves() = %q, want %q", got, tt.want)
			}
		})
	}

	wrapped := Leaves(fmt.Errorf("ctx: %w", errors.Join(a, b)))
	if !errors.Is(wrapped[0], a) {
		t.Error("prefixed leaf does not unwrap to the original error")
	}
}
