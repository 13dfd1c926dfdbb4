package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/musher-dev/chaos/internal/config"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/output"
	"github.com/musher-dev/chaos/internal/terminal"
	"github.com/musher-dev/chaos/internal/testutil"
)

func testWriter() (*output.Writer, *bytes.Buffer) {
	var buf bytes.Buffer

	term := &terminal.Info{IsTTY: false, NoColor: true, Width: 80, Height: 24}

	return output.NewWriter(&buf, &buf, term), &buf
}

// isolateConfig points the config lookup at an empty directory and clears
// the environment overrides a developer machine may carry.
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)

	for _, key := range []string{"CHAOS_CONFIG", "CHAOS_CHANNEL", "CHAOS_TRANSPORT"} {
		t.Setenv(key, "")
	}

	return dir
}

func execute(t *testing.T, cmd *cobra.Command, out *output.Writer, args ...string) error {
	t.Helper()

	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetContext(out.WithContext(t.Context()))

	return cmd.Execute()
}

func TestConfigShow_JSON(t *testing.T) {
	isolateConfig(t)
	t.Setenv("CHAOS_CHANNEL", "rime")

	out, buf := testWriter()
	out.JSON = true

	if err := execute(t, newConfigShowCmd(), out); err != nil {
		t.Fatalf("config show: %v", err)
	}

	var got config.Config
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, buf)
	}

	want := config.Default()
	want.Channel = "rime"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config show mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigShow_YAMLFromFile(t *testing.T) {
	dir := isolateConfig(t)

	file := filepath.Join(dir, "stream.yaml")
	body := "channel: rime\ncommands:\n  hell:\n    duration: 15\n"

	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHAOS_CONFIG", file)

	out, buf := testWriter()

	if err := execute(t, newConfigShowCmd(), out, "--format", "yaml"); err != nil {
		t.Fatalf("config show: %v", err)
	}

	var got config.Config
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, buf)
	}

	if got.Channel != "rime" || got.Commands.Hell.Duration != 15 {
		t.Errorf("channel = %q, hell duration = %d", got.Channel, got.Commands.Hell.Duration)
	}

	if got.Commands.ColorScheme.Duration != config.DefaultColorSchemeDuration {
		t.Errorf("colorscheme duration = %d, want default", got.Commands.ColorScheme.Duration)
	}
}

func TestConfigShow_BadFormat(t *testing.T) {
	isolateConfig(t)

	out, _ := testWriter()

	err := execute(t, newConfigShowCmd(), out, "--format", "ini")

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitUsage {
		t.Fatalf("error = %v, want usage CLIError", err)
	}
}

func TestConfigValidate_Defaults_Golden(t *testing.T) {
	isolateConfig(t)

	out, buf := testWriter()

	if err := execute(t, newConfigValidateCmd(), out); err != nil {
		t.Fatalf("config validate: %v", err)
	}

	testutil.AssertGolden(t, buf.String(), "config_validate_defaults.golden")
}

func TestConfigValidate_ReportsEveryField(t *testing.T) {
	dir := isolateConfig(t)

	file := filepath.Join(dir, "bad.yaml")
	body := "transport: carrier-pigeon\ncommands:\n  hell:\n    name: '!msg'\n"

	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHAOS_CONFIG", file)

	out, buf := testWriter()

	err := execute(t, newConfigValidateCmd(), out)

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) {
		t.Fatalf("error = %v, want CLIError", err)
	}

	if cliErr.Code != clierrors.ExitConfig {
		t.Errorf("exit code = %d, want %d", cliErr.Code, clierrors.ExitConfig)
	}

	for _, want := range []string{
		`✗ [chaos] config: transport: invalid value "carrier-pigeon"`,
		`✗ [chaos] config: commands.hell.name: command "!msg" already used by commands.message`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf)
		}
	}
}

func TestConfigValidate_UnknownDefaultScheme(t *testing.T) {
	isolateConfig(t)
	t.Setenv("CHAOS_COMMANDS_COLORSCHEME_DEFAULT", "mauve")

	out, buf := testWriter()

	err := execute(t, newConfigValidateCmd(), out)

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || !strings.Contains(cliErr.Message, "mauve") {
		t.Fatalf("error = %v, want theme not found", err)
	}

	if !strings.Contains(buf.String(), "[chaos] config: commands.colorscheme.default") {
		t.Errorf("output = %q", buf)
	}
}

func TestConfigPath(t *testing.T) {
	dir := isolateConfig(t)

	out, buf := testWriter()
	out.JSON = true

	if err := execute(t, newConfigPathCmd(), out); err != nil {
		t.Fatalf("config path: %v", err)
	}

	var got ConfigPath
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	want := ConfigPath{Path: filepath.Join(dir, "chaos", "config.yaml"), Exists: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config path mismatch (-want +got):\n%s", diff)
	}
}
