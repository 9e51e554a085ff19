package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunNoCommand(t *testing.T) {
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfigPrint(t *testing.T) {
	p := writeConfig(t, strings.Join([]string{
		"version: 1",
		"bridge:",
		"  url: ws://backend.local:9000/bridge",
		"ui:",
		"  theme: light",
	}, "\n"))
	var out bytes.Buffer
	if err := handleConfig(context.Background(), []string{"print", "--config", p}, &out); err != nil {
		t.Fatalf("print: %v", err)
	}
	var got struct {
		Bridge struct{ URL string }
		UI     struct{ Theme string }
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if got.Bridge.URL != "ws://backend.local:9000/bridge" || got.UI.Theme != "light" {
		t.Errorf("got %+v", got)
	}
}

func TestConfigValidateRejectsBadScheme(t *testing.T) {
	p := writeConfig(t, "version: 1\nbridge:\n  url: http://backend.local/bridge\n")
	err := handleConfig(context.Background(), []string{"validate", "--config", p}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestConfigLoadFailuresAreFriendly(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")
	err := handleConfig(context.Background(), []string{"validate", "--config", missing}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "Config file not found") {
		t.Fatalf("missing file: %v", err)
	}

	bad := writeConfig(t, "version: 1\nbridge: [\n")
	_, _, err = loadTUIConfig(tuiFlags{cfgPath: bad})
	if err == nil || !strings.Contains(err.Error(), "not valid YAML") || !strings.Contains(err.Error(), "How to fix") {
		t.Fatalf("bad yaml: %v", err)
	}
}

func TestConfigUnknownSubcommand(t *testing.T) {
	if err := handleConfig(context.Background(), []string{"wizard"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadTUIConfigFlagOverrides(t *testing.T) {
	p := writeConfig(t, "version: 1\nbridge:\n  url: ws://a.local/bridge\n")
	f, err := parseTUIFlags([]string{"--config", p, "--demo", "--url", "wss://b.local/bridge", "--log-level", "debug", "--json"})
	if err != nil {
		t.Fatal(err)
	}
	c, path, err := loadTUIConfig(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if path != p {
		t.Errorf("path = %s", path)
	}
	if !c.Bridge.Demo || c.Bridge.URL != "wss://b.local/bridge" {
		t.Errorf("bridge = %+v", c.Bridge)
	}
	if c.Logging.Level != "debug" || c.Logging.Format != "json" {
		t.Errorf("logging = %+v", c.Logging)
	}
}

func TestLoadTUIConfigRejectsBadURLFlag(t *testing.T) {
	p := writeConfig(t, "version: 1\n")
	f, err := parseTUIFlags([]string{"--config", p, "--url", "ftp://nope"})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadTUIConfig(f); err == nil {
		t.Fatal("expected error for non-websocket url")
	}
}

func TestOpenLogWritesFile(t *testing.T) {
	p := writeConfig(t, "version: 1\n")
	f, _ := parseTUIFlags([]string{"--config", p})
	c, _, err := loadTUIConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(t.TempDir(), "logs", "modman.log")
	c.Logging.File.Enabled = true
	c.Logging.File.Path = logPath

	log, closer, err := openLog(c)
	if err != nil {
		t.Fatal(err)
	}
	log.Infof("hello")
	_ = closer.Close()
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Errorf("log = %q", b)
	}
}

func TestTUIDialFailureIsFriendly(t *testing.T) {
	p := writeConfig(t, "version: 1\nbridge:\n  url: ws://127.0.0.1:1/bridge\n  handshake_timeout_seconds: 1\n")
	err := handleTUI(context.Background(), []string{"--config", p})
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(err.Error(), "How to fix") {
		t.Errorf("err = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, sh := range []string{"bash", "zsh", "fish"} {
		var out bytes.Buffer
		if err := handleCompletion(context.Background(), []string{sh}, &out); err != nil {
			t.Fatalf("%s: %v", sh, err)
		}
		if !strings.Contains(out.String(), "modman") {
			t.Errorf("%s completion missing command name", sh)
		}
	}
	if err := handleCompletion(context.Background(), []string{"tcsh"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown shell")
	}
}
