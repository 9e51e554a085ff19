package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jxwalker/modman/internal/bridge"
)

// UserFriendlyError provides actionable error messages for end users
type UserFriendlyError struct {
	Message    string // User-facing message explaining what went wrong
	Suggestion string // Actionable steps to fix the issue
	Details    error  // Original error for debugging/logs
}

func (e *UserFriendlyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString("How to fix:\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *UserFriendlyError) Unwrap() error {
	return e.Details
}

// NewFriendlyError creates a user-friendly error
func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithDetails adds the underlying error details
func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

// DialError explains why the shell could not reach the backend.
func DialError(url string, err error) *UserFriendlyError {
	msg := "Cannot reach the mod manager backend"
	suggestion := fmt.Sprintf("Start the backend and check bridge.url (currently %s)\nOr run without a backend: modman tui --demo", url)

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "connection refused") {
			msg = "Backend refused the connection"
			suggestion = fmt.Sprintf("Nothing is listening on %s. Start the backend first.", url)
		}

		if strings.Contains(errStr, "no such host") {
			msg = "Cannot resolve the backend host"
			suggestion = "Check the host name in bridge.url"
		}

		if strings.Contains(errStr, "bad handshake") {
			msg = "Backend did not accept the websocket handshake"
			suggestion = "Check that bridge.url points at the websocket endpoint, not a plain HTTP page"
		}

		if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
			msg = "Connecting to the backend timed out"
			suggestion = "Increase bridge.handshake_timeout_seconds or check that the backend is responsive"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// BridgeError turns a failed backend call into what the notice shows.
// Backend-reported failures keep the backend's wording.
func BridgeError(action string, err error) *UserFriendlyError {
	var remote *bridge.RemoteError
	switch {
	case stderrors.As(err, &remote):
		return &UserFriendlyError{
			Message: fmt.Sprintf("Could not %s: %s", action, remote.Message),
			Details: err,
		}
	case stderrors.Is(err, bridge.ErrClosed):
		return &UserFriendlyError{
			Message:    fmt.Sprintf("Could not %s: the backend connection is closed", action),
			Suggestion: "Restart modman once the backend is running again",
			Details:    err,
		}
	case stderrors.Is(err, context.Canceled):
		return &UserFriendlyError{
			Message: fmt.Sprintf("Could not %s: cancelled", action),
			Details: err,
		}
	}
	return &UserFriendlyError{
		Message: fmt.Sprintf("Could not %s: %v", action, err),
		Details: err,
	}
}

// ConfigError explains why the config file at path could not be loaded.
func ConfigError(path string, err error) *UserFriendlyError {
	msg := fmt.Sprintf("Cannot load config %s: %v", path, err)
	suggestion := fmt.Sprintf("Run 'modman config validate --config %s' to check your configuration", path)

	if err != nil {
		errStr := err.Error()

		if stderrors.Is(err, fs.ErrNotExist) {
			msg = fmt.Sprintf("Config file not found: %s", path)
			suggestion = "Check --config and MODMAN_CONFIG, or unset both to use the built-in defaults"
		}

		if strings.Contains(errStr, "parse config") {
			msg = fmt.Sprintf("Config file %s is not valid YAML", path)
			suggestion = "Fix the syntax reported here:\n" + errStr
		}

		if stderrors.Is(err, fs.ErrPermission) {
			msg = fmt.Sprintf("No permission to read config %s", path)
			suggestion = "Check the file's permissions"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}
