package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/musher-dev/chaos/internal/config"
	"github.com/musher-dev/chaos/internal/dispatch"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/output"
	"github.com/musher-dev/chaos/internal/tui"
)

func pickBoolFlagOrEnv(flagValue bool, envKey string) bool {
	if flagValue {
		return true
	}

	v := strings.ToLower(strings.TrimSpace(os.Getenv(envKey)))

	return v == "1" || v == "true" || v == "yes"
}

func pickFlagOrEnv(flagValue, envKey, fallback string) string {
	trimmed := strings.TrimSpace(flagValue)
	if trimmed != "" {
		return trimmed
	}

	if envValue := strings.TrimSpace(os.Getenv(envKey)); envValue != "" {
		return envValue
	}

	return fallback
}

// noArgs returns a Cobra positional-arg validator that rejects any arguments
// with a clear, user-friendly message (unlike cobra.NoArgs which says "unknown command").
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &clierrors.CLIError{
			Message: fmt.Sprintf("'%s' accepts no arguments", cmd.CommandPath()),
			Hint:    fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
			Code:    clierrors.ExitUsage,
		}
	}

	return nil
}

// atMostOneArg is noArgs for commands that take one optional operand.
func atMostOneArg(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return &clierrors.CLIError{
			Message: fmt.Sprintf("'%s' accepts at most one argument, got %d", cmd.CommandPath(), len(args)),
			Hint:    fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
			Code:    clierrors.ExitUsage,
		}
	}

	return nil
}

// configFileFlag returns the --config value, falling back to CHAOS_CONFIG.
// Commands built without the root have no such flag.
func configFileFlag(cmd *cobra.Command) string {
	value, _ := cmd.Flags().GetString("config")
	return pickFlagOrEnv(value, "CHAOS_CONFIG", "")
}

// loadConfig loads and validates the configuration. Every problem is printed
// with the chaos tag before the command gives up.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	out := output.FromContext(cmd.Context())

	cfg, err := config.Load(config.Options{File: configFileFlag(cmd)})
	if err != nil {
		reportConfigErrors(out, err)
		return config.Config{}, clierrors.ConfigInvalid(err)
	}

	if _, ok := tui.LookupTheme(cfg.Commands.ColorScheme.Default); !ok {
		name := cfg.Commands.ColorScheme.Default
		reportConfigErrors(out, &config.FieldError{
			Path:   "commands.colorscheme.default",
			Reason: fmt.Sprintf("unknown color scheme %q", name),
		})

		return config.Config{}, clierrors.ThemeNotFound(name)
	}

	return cfg, nil
}

func reportConfigErrors(out *output.Writer, err error) {
	for _, e := range clierrors.Leaves(err) {
		out.Failure("%s %v", dispatch.ErrorPrefix, e)
	}
}

// displayChannel renders a channel the way Twitch names it.
func displayChannel(channel string) string {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return ""
	}

	return "#" + strings.ToLower(strings.TrimPrefix(channel, "#"))
}

// listenerGrace bounds how long a command waits for the chat goroutine
// after it has been cancelled.
const listenerGrace = 3 * time.Second

// waitListener waits for wg up to grace and reports whether it finished.
// A listener stuck in its dial is left behind.
func waitListener(wg *sync.WaitGroup, grace time.Duration) bool {
	finished := make(chan struct{})

	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return true
	case <-time.After(grace):
		return false
	}
}
