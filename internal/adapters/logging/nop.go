// Package logging implements ports.Logger for the companion CLI: a discard
// logger, a human-oriented console logger and a zap-backed logger for
// structured output and log files.
package logging

import (
	"context"
	"sync/atomic"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// NopLogger discards every entry but still tracks its level.
type NopLogger struct {
	level atomic.Int32
}

// NewNopLogger returns a NopLogger at info level.
func NewNopLogger() *NopLogger {
	l := &NopLogger{}
	l.level.Store(int32(ports.LevelInfo))
	return l
}

func (l *NopLogger) Debug(context.Context, string, ...ports.Field) {}
func (l *NopLogger) Info(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Error(context.Context, string, ...ports.Field) {}

// With returns l.
func (l *NopLogger) With(...ports.Field) ports.Logger {
	return l
}

func (l *NopLogger) Level() ports.Level {
	return ports.Level(l.level.Load())
}

func (l *NopLogger) SetLevel(level ports.Level) {
	l.level.Store(int32(level))
}

var _ ports.Logger = (*NopLogger)(nil)
