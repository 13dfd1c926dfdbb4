// Package errors provides structured CLI error types for chaos.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for CLI errors.
const (
	ExitSuccess = 0  // Successful execution
	ExitGeneral = 1  // General error
	ExitAuth    = 2  // Authentication error
	ExitNetwork = 3  // Network/chat error
	ExitConfig  = 4  // Configuration error
	ExitUsage   = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// Leaves expands errors.Join trees into the errors they hold, so each can be
// reported on its own line. A join wrapped by another error is expanded too;
// its leaves keep the wrapper's message prefix.
func Leaves(err error) []error {
	if err == nil {
		return nil
	}

	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, Leaves(e)...)
		}

		return out
	}

	var j interface{ Unwrap() []error }
	if !errors.As(err, &j) {
		return []error{err}
	}

	inner, _ := j.(error)
	prefix := ""

	if inner != nil {
		prefix, _ = strings.CutSuffix(err.Error(), inner.Error())
	}

	leaves := Leaves(inner)
	if prefix == "" || prefix == err.Error() {
		return leaves
	}

	for i, leaf := range leaves {
		leaves[i] = &prefixedError{prefix: prefix, err: leaf}
	}

	return leaves
}

type prefixedError struct {
	prefix string
	err    error
}

func (e *prefixedError) Error() string { return e.prefix + e.err.Error() }
func (e *prefixedError) Unwrap() error { return e.err }

// --- Common error constructors ---

// NotAuthenticated returns an error indicating no Twitch token is stored.
func NotAuthenticated() *CLIError {
	return &CLIError{
		Message: "Not authenticated",
		Hint:    "Run 'chaos auth login' or set CHAOS_TWITCH_TOKEN",
		Code:    ExitAuth,
	}
}

// CannotPrompt returns an error when interactive prompts are unavailable.
func CannotPrompt(envVar string) *CLIError {
	return &CLIError{
		Message: "Cannot prompt in non-interactive mode",
		Hint:    fmt.Sprintf("Set %s environment variable instead", envVar),
		Code:    ExitUsage,
	}
}

// TokenEmpty returns an error when the entered token is empty.
func TokenEmpty() *CLIError {
	return &CLIError{
		Message: "Token cannot be empty",
		Hint:    "Paste an OAuth token from your Twitch developer console or set CHAOS_TWITCH_TOKEN",
		Code:    ExitAuth,
	}
}

// ConfigInvalid returns an error for a configuration that failed to load.
func ConfigInvalid(cause error) *CLIError {
	return &CLIError{
		Message: "Invalid configuration",
		Hint:    "Run 'chaos config validate' to list every problem",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// ConfigFailed returns an error for configuration or credential save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your chaos config directory",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// ChannelRequired returns an error when a chat channel is required but not configured.
func ChannelRequired() *CLIError {
	return &CLIError{
		Message: "Chat channel required",
		Hint:    "Set 'channel' in your config file, CHAOS_CHANNEL, or pass --channel",
		Code:    ExitConfig,
	}
}

// ThemeNotFound returns an error for an unknown colour scheme.
func ThemeNotFound(name string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Color scheme not found: %s", name),
		Hint:    "Run 'chaos themes' to see available color schemes",
		Code:    ExitConfig,
	}
}

// FileNotReadable returns an error when the file to page cannot be read.
func FileNotReadable(path string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Cannot read %s", path),
		Hint:    "Check that the file exists and is readable",
		Cause:   cause,
		Code:    ExitGeneral,
	}
}

// ChatFailed returns an error for a chat connection failure.
// It detects common error patterns and provides specific hints.
func ChatFailed(channel string, cause error) *CLIError {
	msg := fmt.Sprintf("Chat connection to #%s failed", channel)
	hint := "Check your network connection and retry"
	code := ExitNetwork

	detail := ""
	if cause != nil {
		detail = cause.Error()
	}

	switch {
	case containsAny(detail, "login authentication failed", "improperly formatted auth", "invalid nick"):
		msg = "Twitch rejected the chat login"
		hint = "Run 'chaos auth login' with a fresh token, or 'chaos auth logout' to read chat anonymously"
		code = ExitAuth
	case containsAny(detail, "no such host", "dns"):
		hint = "Check your DNS settings or network connection"
	case containsAny(detail, "timeout", "deadline exceeded"):
		msg = fmt.Sprintf("Chat connection to #%s timed out", channel)
	case containsAny(detail, "payload receiving error"):
		msg = fmt.Sprintf("Chat connection to #%s was lost", channel)
		hint = "Run with --log-level=debug for more details"
	}

	return &CLIError{
		Message: msg,
		Hint:    hint,
		Cause:   cause,
		Code:    code,
	}
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}
