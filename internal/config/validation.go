package config

import (
	"fmt"
	"net/url"
	"strings"

	friendlyerrors "github.com/jxwalker/modman/internal/errors"
)

// ValidationError represents a detailed config validation error
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Config validation error in '%s': %s", e.Field, e.Message)
}

// ValidateDetailed reports every problem it finds instead of stopping at the first.
func (c *Config) ValidateDetailed() []ValidationError {
	var errs []ValidationError

	if c.Version != 1 {
		errs = append(errs, ValidationError{
			Field:      "version",
			Value:      c.Version,
			Message:    fmt.Sprintf("Unsupported version: %d", c.Version),
			Suggestion: "Use version: 1",
		})
	}

	if !c.Bridge.Demo {
		raw := strings.TrimSpace(c.Bridge.URL)
		if raw == "" {
			errs = append(errs, ValidationError{
				Field:      "bridge.url",
				Message:    "Required field missing",
				Suggestion: "Point it at the backend websocket:\n  url: ws://127.0.0.1:8787/bridge\nor run without a backend:\n  demo: true",
			})
		} else if u, err := url.Parse(raw); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:      "bridge.url",
				Value:      raw,
				Message:    "Not a websocket URL",
				Suggestion: "Use a ws:// or wss:// URL with a host, e.g. ws://127.0.0.1:8787/bridge",
			})
		}
	}

	if c.Bridge.HandshakeTimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:      "bridge.handshake_timeout_seconds",
			Value:      c.Bridge.HandshakeTimeoutSeconds,
			Message:    "Must be >= 0",
			Suggestion: "Recommended: 5-30 seconds, 0 uses the dialer default",
		})
	}

	lvl := strings.ToLower(c.Logging.Level)
	validLevels := []string{"", "debug", "info", "warn", "error"}
	found := false
	for _, valid := range validLevels {
		if lvl == valid {
			found = true
			break
		}
	}
	if !found {
		errs = append(errs, ValidationError{
			Field:      "logging.level",
			Value:      c.Logging.Level,
			Message:    "Invalid log level",
			Suggestion: "Use one of: debug, info, warn, error",
		})
	}

	if c.Logging.File.Enabled && c.Logging.File.Path == "" {
		errs = append(errs, ValidationError{
			Field:      "logging.file.path",
			Message:    "File logging enabled without a path",
			Suggestion: "Set a path:\n  path: ~/.local/state/modman/modman.log",
		})
	}

	switch strings.ToLower(c.UI.Theme) {
	case "", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:      "ui.theme",
			Value:      c.UI.Theme,
			Message:    "Unknown theme",
			Suggestion: "Use one of: dark, light",
		})
	}

	if c.UI.LogLines < 0 {
		errs = append(errs, ValidationError{
			Field:      "ui.log_lines",
			Value:      c.UI.LogLines,
			Message:    "Must be >= 0",
			Suggestion: "Use 0 to keep the whole session, or e.g. 1000",
		})
	}

	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		errs = append(errs, ValidationError{
			Field:      "metrics.prometheus_textfile.path",
			Message:    "Metrics enabled without a path",
			Suggestion: "Point it at the node_exporter textfile directory:\n  path: /var/lib/node_exporter/textfile/modman.prom",
		})
	}

	return errs
}

// ValidateWithFriendlyErrors returns a user-friendly validation error
func (c *Config) ValidateWithFriendlyErrors() error {
	errs := c.ValidateDetailed()
	if len(errs) == 0 {
		return nil
	}

	var msg strings.Builder
	msg.WriteString("Configuration validation failed:\n\n")

	for i, err := range errs {
		msg.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
		if err.Value != nil {
			msg.WriteString(fmt.Sprintf("   Current value: %v\n", err.Value))
		}
		if err.Suggestion != "" {
			lines := strings.Split(err.Suggestion, "\n")
			for _, line := range lines {
				msg.WriteString(fmt.Sprintf("   → %s\n", line))
			}
		}
		msg.WriteString("\n")
	}

	return friendlyerrors.NewFriendlyError(
		"Config validation failed",
		msg.String(),
	)
}
