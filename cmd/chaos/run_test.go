package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/musher-dev/chaos/internal/config"
	clierrors "github.com/musher-dev/chaos/internal/errors"
)

func TestSplitDocument(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "trailing newline", in: "one\ntwo\n", want: []string{"one", "two"}},
		{name: "crlf", in: "one\r\ntwo", want: []string{"one", "two"}},
		{name: "tabs", in: "\tx", want: []string{"    x"}},
		{name: "empty", in: "", want: []string{""}},
		{name: "blank lines kept", in: "a\n\nb\n", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, splitDocument(tt.in)); diff != "" {
				t.Errorf("splitDocument(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestReadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# notes\nbody\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	name, lines, err := readDocument([]string{path}, config.Default().Commands)
	if err != nil {
		t.Fatal(err)
	}

	if name != "notes.md" {
		t.Errorf("name = %q", name)
	}

	if diff := cmp.Diff([]string{"# notes", "body"}, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDocument_Missing(t *testing.T) {
	_, _, err := readDocument([]string{filepath.Join(t.TempDir(), "gone.txt")}, config.Default().Commands)

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || !strings.HasPrefix(cliErr.Message, "Cannot read") {
		t.Fatalf("error = %v, want FileNotReadable", err)
	}
}

func TestReadDocument_WelcomeUsesCommandNames(t *testing.T) {
	cmds := config.Default().Commands
	cmds.Hell.Name = "!chaos"

	name, lines, err := readDocument(nil, cmds)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Join(lines, "\n")

	if name != "[welcome]" || !strings.Contains(text, "!chaos") || !strings.Contains(text, "!colorscheme NAME") {
		t.Errorf("welcome = %q\n%s", name, text)
	}

	if strings.Contains(text, "%s") {
		t.Errorf("welcome has an unfilled verb:\n%s", text)
	}
}

func TestRunNeedsATerminal(t *testing.T) {
	isolateConfig(t)

	out, _ := testWriter()

	err := execute(t, newRunCmd(), out)

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitUsage {
		t.Fatalf("error = %v, want usage CLIError", err)
	}

	if !strings.Contains(cliErr.Hint, "chaos listen") {
		t.Errorf("hint = %q", cliErr.Hint)
	}
}

func TestListenNeedsAChannel(t *testing.T) {
	isolateConfig(t)

	out, _ := testWriter()

	err := execute(t, newListenCmd(), out)

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Message != "Chat channel required" {
		t.Fatalf("error = %v, want ChannelRequired", err)
	}
}

func TestDisplayChannel(t *testing.T) {
	for in, want := range map[string]string{"Rime": "#rime", "#rime": "#rime", "  ": ""} {
		if got := displayChannel(in); got != want {
			t.Errorf("displayChannel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWaitListener(t *testing.T) {
	var done sync.WaitGroup
	done.Go(func() {})

	if !waitListener(&done, time.Second) {
		t.Error("waitListener() = false for a finished listener")
	}

	release := make(chan struct{})
	defer close(release)

	var stuck sync.WaitGroup
	stuck.Go(func() { <-release })

	start := time.Now()
	if waitListener(&stuck, 50*time.Millisecond) {
		t.Error("waitListener() = true for a stuck listener")
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("waitListener() took %v, want about the grace period", elapsed)
	}
}
