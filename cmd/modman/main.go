package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jxwalker/modman/internal/config"
	friendlyerrors "github.com/jxwalker/modman/internal/errors"
	"github.com/jxwalker/modman/internal/logging"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage(os.Stdout)
		return errors.New("no command provided")
	}

	cmd := args[0]
	switch cmd {
	case "tui":
		return handleTUI(ctx, args[1:])
	case "config":
		return handleConfig(ctx, args[1:], os.Stdout)
	case "completion":
		return handleCompletion(ctx, args[1:], os.Stdout)
	case "version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		usage(os.Stdout)
		return nil
	default:
		usage(os.Stdout)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, strings.TrimSpace(`modman - terminal mod manager

Usage:
  modman <command> [flags]

Commands:
  tui               Open the mod manager (connects to the backend bridge)
  config validate   Validate a YAML config file
  config print      Print the loaded config as JSON
  completion        Generate shell completion scripts (bash|zsh|fish)
  version           Print version
  help              Show this help

Flags:
  --config PATH     Path to YAML config file (or MODMAN_CONFIG env var; default: ~/.config/modman/config.yml)
  --log-level L     Log level: debug|info|warn|error (per command)
  --json            JSON log output (per command)

tui flags:
  --demo            Run against the built-in in-memory backend
  --url URL         Backend websocket URL (overrides bridge.url)
`))
}

func handleConfig(_ context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("config subcommand required: validate | print")
	}
	sub := args[0]
	switch sub {
	case "validate":
		return configOp(args[1:], func(c *config.Config, path string, log *logging.Logger) error {
			if err := c.ValidateWithFriendlyErrors(); err != nil {
				return err
			}
			log.Infof("config: valid (%s)", path)
			return nil
		})
	case "print":
		return configOp(args[1:], func(c *config.Config, _ string, _ *logging.Logger) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		})
	default:
		return fmt.Errorf("unknown config subcommand: %s", sub)
	}
}

func configOp(args []string, fn func(*config.Config, string, *logging.Logger) error) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	logLevel := fs.String("log-level", "info", "log level")
	jsonOut := fs.Bool("json", false, "json logs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, path, err := config.Resolve(*cfgPath)
	if err != nil {
		return friendlyerrors.ConfigError(path, err)
	}
	log := logging.New(*logLevel, *jsonOut)
	return fn(c, path, log)
}
