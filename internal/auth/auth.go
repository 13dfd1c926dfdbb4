// Package auth stores the optional Twitch login used by the chat listener.
//
// Credentials are sourced in the following priority order:
//  1. Environment variables: CHAOS_TWITCH_USER and CHAOS_TWITCH_TOKEN
//  2. OS Keyring (macOS Keychain, Windows Credential Manager, Linux Secret Service)
//  3. Config file fallback: <user config dir>/chaos/twitch-token
//
// Without credentials the listener reads chat anonymously.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/musher-dev/chaos/internal/paths"
)

const (
	// keyringService is the service name used in OS keyring storage.
	keyringService = "chaos"
	// keyringToken and keyringUser are the account names in the keyring.
	keyringToken = "twitch-token"
	keyringUser  = "twitch-user"

	envToken = "CHAOS_TWITCH_TOKEN"
	envUser  = "CHAOS_TWITCH_USER"
)

// ErrNoCredentials is returned by Delete when nothing was stored.
var ErrNoCredentials = errors.New("no stored credentials found")

// CredentialSource indicates where credentials were found.
type CredentialSource string

// Credential source constants identify where credentials were loaded from.
const (
	SourceEnv     CredentialSource = "environment variable"
	SourceKeyring CredentialSource = "keyring"
	SourceFile    CredentialSource = "config file"
	SourceNone    CredentialSource = ""
)

// Login is a Twitch user and OAuth token.
type Login struct {
	User  string
	Token string
}

// Empty reports whether the login is unusable.
func (l Login) Empty() bool {
	return l.User == "" || l.Token == ""
}

// Get returns the stored login and where it came from. It returns SourceNone
// and an empty Login when nothing complete is stored.
func Get() (CredentialSource, Login) {
	// Priority 1: Environment variables
	if l := (Login{User: os.Getenv(envUser), Token: os.Getenv(envToken)}); !l.Empty() {
		return SourceEnv, l
	}

	// Priority 2: OS Keyring
	token, tokErr := keyring.Get(keyringService, keyringToken)
	user, userErr := keyring.Get(keyringService, keyringUser)

	if tokErr == nil && userErr == nil {
		if l := (Login{User: user, Token: token}); !l.Empty() {
			return SourceKeyring, l
		}
	}

	// Priority 3: Config file fallback
	if l := readCredentialsFile(); !l.Empty() {
		return SourceFile, l
	}

	return SourceNone, Login{}
}

// Store saves the login in the OS keyring, falling back to the credentials
// file when the keyring is unavailable.
func Store(l Login) error {
	if l.Empty() {
		return errors.New("user and token are both required")
	}

	l.Token = strings.TrimPrefix(l.Token, "oauth:")

	if err := keyring.Set(keyringService, keyringToken, l.Token); err == nil {
		if err := keyring.Set(keyringService, keyringUser, l.User); err == nil {
			return nil
		}

		_ = keyring.Delete(keyringService, keyringToken)
	}

	return writeCredentialsFile(l)
}

// Delete removes the stored login from the keyring and the file.
func Delete() error {
	keyringErr := keyring.Delete(keyringService, keyringToken)
	_ = keyring.Delete(keyringService, keyringUser)

	fileErr := deleteCredentialsFile()

	// Return error only if both failed and nothing was deleted
	if keyringErr != nil && fileErr != nil {
		return ErrNoCredentials
	}

	return nil
}

// credentialsFilePath returns the path to the credentials file.
func credentialsFilePath() string {
	path, err := paths.CredentialsFile()
	if err != nil {
		return ""
	}

	return filepath.Clean(path)
}

// readCredentialsFile reads "user\ntoken" from the file fallback.
func readCredentialsFile() Login {
	path := credentialsFilePath()
	if path == "" {
		return Login{}
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from controlled config directory
	if err != nil {
		return Login{}
	}

	user, token, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")

	return Login{User: strings.TrimSpace(user), Token: strings.TrimSpace(token)}
}

// writeCredentialsFile writes the login to the file fallback.
func writeCredentialsFile(l Login) error {
	path := credentialsFilePath()
	if path == "" {
		return fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Owner read/write only.
	if err := os.WriteFile(path, []byte(l.User+"\n"+l.Token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

// deleteCredentialsFile removes the credentials file.
func deleteCredentialsFile() error {
	path := credentialsFilePath()
	if path == "" {
		return fmt.Errorf("could not determine home directory")
	}

	err := os.Remove(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("credentials file not found")
	}

	if err != nil {
		return fmt.Errorf("remove credentials file: %w", err)
	}

	return nil
}
