package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// ZapLogger adapts a *zap.Logger to ports.Logger.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger wraps logger. The level controls the port-level filter; the
// zap core may filter further.
func NewZapLogger(logger *zap.Logger, level zap.AtomicLevel) *ZapLogger {
	return &ZapLogger{logger: logger, level: level}
}

// NewProductionLogger builds a JSON zap logger writing to the given paths
// ("stderr", "stdout" or file paths).
func NewProductionLogger(level ports.Level, paths ...string) (*ZapLogger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	config.DisableStacktrace = true
	if len(paths) > 0 {
		config.OutputPaths = paths
		config.ErrorOutputPaths = paths
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewZapLogger(logger, config.Level), nil
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.logger.Debug(msg, zapFields(ctx, fields)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.logger.Info(msg, zapFields(ctx, fields)...)
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.logger.Warn(msg, zapFields(ctx, fields)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.logger.Error(msg, zapFields(ctx, fields)...)
}

func (l *ZapLogger) With(fields ...ports.Field) ports.Logger {
	return &ZapLogger{logger: l.logger.With(zapFields(nil, fields)...), level: l.level}
}

func (l *ZapLogger) Level() ports.Level {
	return fromZapLevel(l.level.Level())
}

func (l *ZapLogger) SetLevel(level ports.Level) {
	l.level.SetLevel(toZapLevel(level))
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// Zap returns the underlying logger.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

func zapFields(ctx context.Context, fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	if ctx != nil {
		if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
			out = append(out, zap.String("request_id", id))
		}
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func toZapLevel(level ports.Level) zapcore.Level {
	switch level {
	case ports.LevelDebug:
		return zapcore.DebugLevel
	case ports.LevelWarn:
		return zapcore.WarnLevel
	case ports.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fromZapLevel(level zapcore.Level) ports.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return ports.LevelDebug
	case level == zapcore.InfoLevel:
		return ports.LevelInfo
	case level == zapcore.WarnLevel:
		return ports.LevelWarn
	default:
		return ports.LevelError
	}
}

var _ ports.Logger = (*ZapLogger)(nil)
