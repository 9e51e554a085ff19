package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jxwalker/modman/internal/bridge"
	"github.com/jxwalker/modman/internal/config"
	"github.com/jxwalker/modman/internal/dialog"
	friendlyerrors "github.com/jxwalker/modman/internal/errors"
	"github.com/jxwalker/modman/internal/logging"
	"github.com/jxwalker/modman/internal/metrics"
	"github.com/jxwalker/modman/internal/tracing"
	ui "github.com/jxwalker/modman/internal/tui"
)

const metricsInterval = 15 * time.Second

type tuiFlags struct {
	cfgPath  string
	demo     bool
	url      string
	logLevel string
	jsonOut  bool
}

func parseTUIFlags(args []string) (tuiFlags, error) {
	var f tuiFlags
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.StringVar(&f.cfgPath, "config", "", "Path to YAML config file")
	fs.BoolVar(&f.demo, "demo", false, "use the in-memory backend")
	fs.StringVar(&f.url, "url", "", "backend websocket URL")
	fs.StringVar(&f.logLevel, "log-level", "", "log level")
	fs.BoolVar(&f.jsonOut, "json", false, "json logs")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}

// loadTUIConfig resolves the config file and applies flag overrides on top.
func loadTUIConfig(f tuiFlags) (*config.Config, string, error) {
	c, path, err := config.Resolve(f.cfgPath)
	if err != nil {
		return nil, path, friendlyerrors.ConfigError(path, err)
	}
	if f.url != "" {
		c.Bridge.URL = f.url
	}
	if f.demo {
		c.Bridge.Demo = true
	}
	if f.logLevel != "" {
		c.Logging.Level = f.logLevel
	}
	if f.jsonOut {
		c.Logging.Format = "json"
	}
	if err := c.ValidateWithFriendlyErrors(); err != nil {
		return nil, path, err
	}
	return c, path, nil
}

// openLog sends logs to the configured file. Without one they are dropped,
// since the terminal belongs to the UI.
func openLog(c *config.Config) (*logging.Logger, io.Closer, error) {
	if !c.Logging.File.Enabled || c.Logging.File.Path == "" {
		return logging.Discard(), io.NopCloser(nil), nil
	}
	return logging.OpenFile(c.Logging.Level, c.Logging.Format == "json", c.Logging.File.Path)
}

func handleTUI(ctx context.Context, args []string) error {
	f, err := parseTUIFlags(args)
	if err != nil {
		return err
	}
	c, path, err := loadTUIConfig(f)
	if err != nil {
		return err
	}
	log, closer, err := openLog(c)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
		_ = closer.Close()
	}()
	log.Infof("modman %s starting (config %s)", version, path)

	tp, err := tracing.Setup(ctx, version)
	if err != nil {
		log.Warnf("tracing disabled: %v", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Warnf("tracing shutdown: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := bridge.NewBus()
	defer bus.Close()

	var (
		backend  bridge.Backend
		client   *bridge.Client
		endpoint string
	)
	if c.Bridge.Demo {
		backend = bridge.NewMemory(bus, bridge.WithPicker(dialog.New()))
		endpoint = "demo"
	} else {
		client, err = bridge.Dial(ctx, c.Bridge.URL, bus, log, bridge.DialOptions{
			HandshakeTimeout: time.Duration(c.Bridge.HandshakeTimeoutSeconds) * time.Second,
		})
		if err != nil {
			log.Errorf("dial: %v", err)
			return friendlyerrors.DialError(logging.RedactURL(c.Bridge.URL), err)
		}
		defer func() { _ = client.Close() }()
		backend = client
		endpoint = logging.RedactURL(c.Bridge.URL)
	}

	met := metrics.New(c)
	defer func() {
		if err := met.Write(); err != nil {
			log.Warnf("metrics: %v", err)
		}
	}()

	m := ui.New(ui.Options{
		Backend:  backend,
		Bus:      bus,
		Log:      log,
		Context:  ctx,
		Endpoint: endpoint,
		Theme:    c.UI.Theme,
		LogLines: c.UI.LogLines,
		Metrics:  met,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
	if client != nil {
		g.Go(func() error {
			select {
			case <-client.Done():
				if err := client.Err(); err != nil {
					log.Warnf("bridge closed: %v", err)
				}
				bus.Close()
			case <-gctx.Done():
			}
			return nil
		})
	}
	if met != nil {
		g.Go(func() error {
			t := time.NewTicker(metricsInterval)
			defer t.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					if err := met.Write(); err != nil {
						log.Warnf("metrics: %v", err)
					}
				}
			}
		})
	}
	err = g.Wait()
	log.Infof("modman exiting")
	return err
}
