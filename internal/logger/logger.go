// internal/logger/logger.go
package logger

import (
	"errors"
	"io"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options describe the host logger. An empty File disables the rotating
// JSON log.
type Options struct {
	Debug      bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds the CLI logger: pretty lines on console plus, when a file is
// configured, full structured JSON with rotation.
func New(console io.Writer, opts Options) *zap.Logger {
	cores := []zapcore.Core{newPrettyCore(console, opts.Debug)}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(rotator),
			levelFor(opts.Debug),
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// WithOperation tags every line with the operation name and a fresh
// correlation id.
func WithOperation(l *zap.Logger, operation string) *zap.Logger {
	return l.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
		zap.Time("start_time", time.Now().UTC()),
	)
}

// TrackPerformance logs how long an operation took. Use as
// defer TrackPerformance(l, "rank")().
func TrackPerformance(l *zap.Logger, operation string) func() {
	start := time.Now()
	return func() {
		l.Debug("Operation finished",
			zap.String("operation", operation),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// Sync flushes l, ignoring the errors terminals return for fsync.
func Sync(l *zap.Logger) error {
	err := l.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
