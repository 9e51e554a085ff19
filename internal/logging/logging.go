package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case Debug:
		return zapcore.DebugLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a leveled printf-style logger. Human output is tab separated
// (time, LEVEL, message); JSON output has ts, level and msg keys.
type Logger struct {
	min   Level
	sugar *zap.SugaredLogger
}

// New logs to stderr, or stdout in JSON mode.
func New(level string, jsonOut bool) *Logger {
	out := io.Writer(os.Stderr)
	if jsonOut {
		out = os.Stdout
	}
	return NewWriter(level, jsonOut, out)
}

func NewWriter(level string, jsonOut bool, out io.Writer) *Logger {
	if out == nil {
		out = io.Discard
	}
	lvl := ParseLevel(level)
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	var encoder zapcore.Encoder
	if jsonOut {
		enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
		enc.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(lvl.zap()))
	return &Logger{min: lvl, sugar: zap.New(core).Sugar()}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{min: Error + 1, sugar: zap.NewNop().Sugar()}
}

// OpenFile appends to path, creating parent directories. The TUI owns the
// terminal, so interactive commands log here instead of stderr.
func OpenFile(level string, jsonOut bool, path string) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWriter(level, jsonOut, f), f, nil
}

func (l *Logger) Enabled(v Level) bool { return v >= l.min }

func (l *Logger) Debugf(format string, a ...any) { l.sugar.Debugf(format, a...) }
func (l *Logger) Infof(format string, a ...any)  { l.sugar.Infof(format, a...) }
func (l *Logger) Warnf(format string, a ...any)  { l.sugar.Warnf(format, a...) }
func (l *Logger) Errorf(format string, a ...any) { l.sugar.Errorf(format, a...) }

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.sugar.Sync() }
