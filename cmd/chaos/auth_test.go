package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/musher-dev/chaos/internal/auth"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/prompt"
)

func isolateAuth(t *testing.T) {
	t.Helper()

	isolateConfig(t)
	keyring.MockInit()
	t.Setenv("CHAOS_TWITCH_TOKEN", "")
	t.Setenv("CHAOS_TWITCH_USER", "")
}

func TestAuthStatus_Anonymous(t *testing.T) {
	isolateAuth(t)

	out, buf := testWriter()

	if err := execute(t, newAuthStatusCmd(), out); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "ℹ Not logged in; chat is read anonymously\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestAuthStatus_JSONFromEnv(t *testing.T) {
	isolateAuth(t)
	t.Setenv("CHAOS_TWITCH_USER", "rime")
	t.Setenv("CHAOS_TWITCH_TOKEN", "oauth:abc")

	out, buf := testWriter()
	out.JSON = true

	if err := execute(t, newAuthStatusCmd(), out); err != nil {
		t.Fatal(err)
	}

	var got AuthStatus
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	if got != (AuthStatus{Source: string(auth.SourceEnv), User: "rime"}) {
		t.Errorf("status = %+v", got)
	}

	if strings.Contains(buf.String(), "abc") {
		t.Error("status printed the token")
	}
}

func TestAuthLogin_FlagsStoreInKeyring(t *testing.T) {
	isolateAuth(t)

	out, buf := testWriter()

	if err := execute(t, newAuthLoginCmd(), out, "--user", "rime", "--token", "oauth:abc"); err != nil {
		t.Fatal(err)
	}

	source, login := auth.Get()
	if source != auth.SourceKeyring || login != (auth.Login{User: "rime", Token: "abc"}) {
		t.Errorf("stored %s %+v", source, login)
	}

	if got, want := buf.String(), "✓ Logged in as rime\nToken stored in keyring\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestAuthLogin_CannotPrompt(t *testing.T) {
	isolateAuth(t)

	out, _ := testWriter()

	err := execute(t, newAuthLoginCmd(), out, "--user", "rime")

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitUsage {
		t.Fatalf("error = %v, want CannotPrompt", err)
	}
}

func TestAuthLogout(t *testing.T) {
	isolateAuth(t)

	if err := auth.Store(auth.Login{User: "rime", Token: "abc"}); err != nil {
		t.Fatal(err)
	}

	out, buf := testWriter()

	if err := execute(t, newAuthLogoutCmd(), out); err != nil {
		t.Fatal(err)
	}

	if source, _ := auth.Get(); source != auth.SourceNone {
		t.Errorf("source after logout = %q", source)
	}

	if !strings.HasPrefix(buf.String(), "✓ Logged out successfully") {
		t.Errorf("output = %q", buf)
	}

	buf.Reset()

	if err := execute(t, newAuthLogoutCmd(), out); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "No stored credentials found\n" {
		t.Errorf("second logout output = %q", got)
	}
}

func TestPromptErr(t *testing.T) {
	var in bytes.Buffer

	out, _ := testWriter()
	p := prompt.NewWithInput(out, &in)
	_, err := p.Line("name")

	var cliErr *clierrors.CLIError
	if !clierrors.As(promptErr("read", err), &cliErr) || cliErr.Message != "Login canceled" {
		t.Errorf("promptErr(canceled) = %v", promptErr("read", err))
	}
}
