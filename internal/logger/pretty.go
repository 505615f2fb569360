// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// consoleFields survive the console filter; everything else goes only to
// structured sinks.
var consoleFields = map[string]bool{
	"deal":     true,
	"strategy": true,
	"error":    true,
	"file":     true,
	"count":    true,
}

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(prettyEncoderConfig())
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// newPrettyCore writes colored, filtered lines to w.
func newPrettyCore(w io.Writer, debug bool) zapcore.Core {
	core := zapcore.NewCore(PrettyEncoder(), zapcore.AddSync(zapcore.Lock(zapcore.AddSync(w))), levelFor(debug))
	return &FieldFilterCore{core: core}
}

// CreatePrettyLogger creates a logger with user-friendly output on stdout.
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	return NewPrettyLogger(os.Stdout, debug), nil
}

// NewPrettyLogger is CreatePrettyLogger with an explicit destination.
func NewPrettyLogger(w io.Writer, debug bool) *zap.Logger {
	return zap.New(newPrettyCore(w, debug))
}

// FormatMessage rewrites well-known engine messages into short console lines.
func FormatMessage(msg string, fields ...zap.Field) string {
	switch {
	case strings.Contains(msg, "Deals loaded"):
		return fmt.Sprintf("%s📋 Loaded %s deals%s", ColorBlue, extractField(fields, "count"), ColorReset)

	case strings.Contains(msg, "Ranking started"):
		return fmt.Sprintf("%s⚡ Ranking strategies for %s%s", ColorCyan, extractField(fields, "deal"), ColorReset)

	case strings.Contains(msg, "Strategy failed"):
		return fmt.Sprintf("%s✗ %s failed%s", ColorYellow, extractField(fields, "strategy"), ColorReset)

	case strings.Contains(msg, "Ranking completed"):
		return fmt.Sprintf("%s✓ Ranking complete: best %s%s", ColorGreen, extractField(fields, "strategy"), ColorReset)

	case strings.Contains(msg, "Export written"):
		return fmt.Sprintf("%s💾 Wrote %s%s", ColorPurple, extractField(fields, "file"), ColorReset)

	default:
		return msg
	}
}

func extractField(fields []zap.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
			zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
			return fmt.Sprintf("%d", field.Integer)
		default:
			return fmt.Sprintf("%v", field.Interface)
		}
	}
	return ""
}

// FieldFilterCore wraps a zapcore.Core and keeps only consoleFields.
type FieldFilterCore struct {
	core zapcore.Core
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &FieldFilterCore{core: c.core.With(filterFields(fields))}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	clean := entry
	clean.Message = FormatMessage(entry.Message, fields...)
	if clean.Message != entry.Message {
		// the formatted line already carries what matters
		return c.core.Write(clean, nil)
	}
	return c.core.Write(clean, filterFields(fields))
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

func filterFields(fields []zapcore.Field) []zapcore.Field {
	var kept []zapcore.Field
	for _, f := range fields {
		if consoleFields[f.Key] {
			kept = append(kept, f)
		}
	}
	return kept
}

// CreateTUILoggerWithBuffer creates a logger that only writes JSON lines to
// buffer, so nothing reaches the terminal under the TUI.
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	bufferCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buffer),
		levelFor(debug),
	)
	return zap.New(bufferCore), nil
}
