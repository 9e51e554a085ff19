package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":  Debug,
		" WARN ": Warn,
		"error":  Error,
		"info":   Info,
		"":       Info,
		"bogus":  Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestLoggerHumanFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("warn", false, &buf)
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN\tshown 2") {
		t.Errorf("missing warn line: %q", out)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("debug", true, &buf)
	l.Errorf("boom: %s", "disk")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if rec["level"] != "error" || rec["msg"] != "boom: disk" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(Error) {
		t.Error("discard logger should not enable any level")
	}
	l.Errorf("nothing")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "modman.log")
	l, c, err := OpenFile("info", false, path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	l.Infof("hello")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "INFO\thello") {
		t.Errorf("log file missing line: %q", b)
	}
}
