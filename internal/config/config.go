package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML schema. Minimal validation occurs in Validate().
type Config struct {
	Version int       `yaml:"version"`
	Bridge  Bridge    `yaml:"bridge"`
	Logging Logging   `yaml:"logging"`
	UI      UIOptions `yaml:"ui"`
	Metrics Metrics   `yaml:"metrics"`
}

type Bridge struct {
	// URL of the backend websocket, e.g. ws://127.0.0.1:8787/bridge.
	URL string `yaml:"url"`
	// Demo runs against the in-process backend instead of dialing URL.
	Demo                    bool `yaml:"demo"`
	HandshakeTimeoutSeconds int  `yaml:"handshake_timeout_seconds"`
}

type Logging struct {
	Level  string  `yaml:"level"`  // debug|info|warn|error
	Format string  `yaml:"format"` // human|json
	File   LogFile `yaml:"file"`
}

type LogFile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type UIOptions struct {
	// Theme selects the palette: dark | light.
	Theme string `yaml:"theme"`
	// LogLines caps the log panel history. 0 keeps everything.
	LogLines int `yaml:"log_lines"`
}

type Metrics struct {
	PrometheusTextfile PromTextfile `yaml:"prometheus_textfile"`
}

type PromTextfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default is used when no config file exists at the default location.
func Default() *Config {
	return &Config{
		Version: 1,
		Bridge:  Bridge{URL: "ws://127.0.0.1:8787/bridge", HandshakeTimeoutSeconds: 10},
		Logging: Logging{Level: "info", Format: "human"},
		UI:      UIOptions{Theme: "dark", LogLines: 1000},
	}
}

// DefaultPath returns ~/.config/modman/config.yml.
func DefaultPath() (string, error) {
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, ".config", "modman", "config.yml"), nil
}

// Load reads, parses, expands, and validates a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML bytes on top of the defaults, so omitted keys keep
// their default values.
func Parse(b []byte) (*Config, error) {
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve picks the config path from the flag, MODMAN_CONFIG, or the default
// location. A missing file at the default location yields Default().
func Resolve(flagPath string) (*Config, string, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("MODMAN_CONFIG"))
	}
	if path != "" {
		c, err := Load(path)
		return c, path, err
	}
	def, err := DefaultPath()
	if err != nil {
		return nil, "", errors.New("--config is required or set MODMAN_CONFIG")
	}
	c, err := Load(def)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), def, nil
		}
		return nil, def, err
	}
	return c, def, nil
}

func (c *Config) expandPaths() error {
	var err error
	if c.Logging.File.Path, err = expandTilde(c.Logging.File.Path); err != nil {
		return err
	}
	if c.Metrics.PrometheusTextfile.Path, err = expandTilde(c.Metrics.PrometheusTextfile.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if !c.Bridge.Demo && strings.TrimSpace(c.Bridge.URL) == "" {
		return errors.New("bridge.url is required unless bridge.demo is set")
	}
	if c.Bridge.HandshakeTimeoutSeconds < 0 {
		return errors.New("bridge.handshake_timeout_seconds must be >= 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "human", "json":
		// ok
	default:
		return fmt.Errorf("logging.format invalid: %s", c.Logging.Format)
	}
	if c.Logging.File.Enabled && c.Logging.File.Path == "" {
		return errors.New("logging.file.path is required when logging.file.enabled is set")
	}
	if c.UI.LogLines < 0 {
		return fmt.Errorf("ui.log_lines must be >= 0")
	}
	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		return errors.New("metrics.prometheus_textfile.path is required when enabled")
	}
	return nil
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}
