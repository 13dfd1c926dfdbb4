package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/musher-dev/chaos/internal/auth"
	clierrors "github.com/musher-dev/chaos/internal/errors"
	"github.com/musher-dev/chaos/internal/output"
	"github.com/musher-dev/chaos/internal/prompt"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Twitch chat login",
		Long: `Store, show or remove the Twitch login used to join chat. Without a login
chaos reads chat anonymously, which is enough for public channels.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		userFlag  string
		tokenFlag string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Twitch username and OAuth token",
		Long: `Store a Twitch username and chat OAuth token for the chat connection.

The token is stored in your system's keyring (macOS Keychain, Windows
Credential Manager, or Linux Secret Service), or in a file readable only by
you when no keyring is available.

CHAOS_TWITCH_USER and CHAOS_TWITCH_TOKEN take precedence over stored values.`,
		Example: `  chaos auth login
  chaos auth login --user rime`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			prompter := prompt.New(out)

			if os.Getenv("CHAOS_TWITCH_TOKEN") != "" {
				out.Info("CHAOS_TWITCH_TOKEN environment variable is set")
				out.Muted("Environment variable takes precedence over stored credentials")
				out.Println()
			}

			user, token := userFlag, tokenFlag

			if (user == "" || token == "") && !prompter.CanPrompt() {
				return clierrors.CannotPrompt("CHAOS_TWITCH_TOKEN")
			}

			var err error

			if user == "" {
				if user, err = prompter.Line("Twitch username"); err != nil {
					return promptErr("read username prompt", err)
				}
			}

			if token == "" {
				if token, err = prompter.Password("OAuth token"); err != nil {
					return promptErr("read token prompt", err)
				}
			}

			if token == "" {
				return clierrors.TokenEmpty()
			}

			if err := auth.Store(auth.Login{User: user, Token: token}); err != nil {
				return clierrors.ConfigFailed("store credentials", err)
			}

			source, _ := auth.Get()

			out.Success("Logged in as %s", user)
			out.Muted("Token stored in %s", source)

			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "Twitch username")
	cmd.Flags().StringVar(&tokenFlag, "token", "", "OAuth token for non-interactive login (prefer CHAOS_TWITCH_TOKEN to avoid shell history exposure)")

	return cmd
}

func promptErr(what string, err error) error {
	if prompt.IsCanceled(err) {
		return clierrors.New(clierrors.ExitGeneral, "Login canceled")
	}

	return fmt.Errorf("%s: %w", what, err)
}

// AuthStatus represents the chat login for JSON output.
type AuthStatus struct {
	Source    string `json:"source"`
	User      string `json:"user"`
	Anonymous bool   `json:"anonymous"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which Twitch login chat will use",
		Long:  `Show the Twitch username chaos joins chat with and where it was found. The token itself is never printed.`,
		Example: `  chaos auth status
  chaos auth status --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			source, login := auth.Get()

			if out.JSON {
				return out.PrintJSON(AuthStatus{
					Source:    string(source),
					User:      login.User,
					Anonymous: login.Empty(),
				})
			}

			if login.Empty() {
				out.Info("Not logged in; chat is read anonymously")
				return nil
			}

			out.Info("Logged in as %s", login.User)
			out.Print("Source: %s\n", source)

			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Remove the stored Twitch login",
		Long:    `Remove the Twitch login from the keyring and the credentials file. Chat is read anonymously afterwards.`,
		Example: `  chaos auth logout`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if err := auth.Delete(); err != nil {
				if errors.Is(err, auth.ErrNoCredentials) {
					out.Muted("No stored credentials found")
					return nil
				}

				return clierrors.ConfigFailed("clear credentials", err)
			}

			out.Success("Logged out successfully")

			if os.Getenv("CHAOS_TWITCH_TOKEN") != "" {
				out.Println()
				out.Warning("CHAOS_TWITCH_TOKEN environment variable is still set")
			}

			return nil
		},
	}
}
