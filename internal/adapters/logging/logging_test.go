package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/felixgeelhaar/companion/internal/ports"
)

func newTestConsole(buf *bytes.Buffer, opts ...ConsoleOption) *ConsoleLogger {
	base := []ConsoleOption{
		WithOutput(buf),
		WithLevel(ports.LevelDebug),
		WithTimestamp(false),
	}
	return NewConsoleLogger(append(base, opts...)...)
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNopLogger()
	ctx := context.Background()
	logger.Debug(ctx, "d")
	logger.Error(ctx, "e", ports.F("k", 1))

	assert.Same(t, logger, logger.With(ports.F("key", "value")))
	assert.Equal(t, ports.LevelInfo, logger.Level())

	logger.SetLevel(ports.LevelDebug)
	assert.Equal(t, ports.LevelDebug, logger.Level())
}

func TestConsoleLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf)

	logger.Info(context.Background(), "wizard advanced", ports.F("step", "name"), ports.F("index", 2))

	assert.Equal(t, "[INFO] wizard advanced step=name index=2\n", buf.String())
}

func TestConsoleLogger_TextQuotesSpaces(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithLevelLabel(false))

	logger.Warn(context.Background(), "submit failed", ports.Err(errors.New("connection reset")))

	assert.Equal(t, "submit failed error=\"connection reset\"\n", buf.String())
}

func TestConsoleLogger_Timestamp(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithTimestamp(true), WithLevelLabel(false))
	logger.sink.now = func() time.Time { return time.Date(2026, 3, 1, 9, 5, 7, 0, time.Local) }

	logger.Info(context.Background(), "hello")

	assert.Equal(t, "09:05:07 hello\n", buf.String())
}

func TestConsoleLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithJSONFormat(true))

	ctx := context.WithValue(context.Background(), RequestIDKey{}, "req-1")
	logger.Info(ctx, "registered", ports.F("areas", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "registered", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.InDelta(t, 3, entry["areas"], 0)
	assert.NotContains(t, entry, "time")
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithLevel(ports.LevelWarn))
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")
	assert.Equal(t, "[WARN] warn\n[ERROR] error\n", buf.String())
}

func TestConsoleLogger_WithSharesLevelButNotFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithLevelLabel(false))
	derived := logger.With(ports.F("component", "wizard"))
	ctx := context.Background()

	logger.Info(ctx, "base")
	derived.Info(ctx, "derived")
	assert.Equal(t, "base\nderived component=wizard\n", buf.String())

	buf.Reset()
	logger.SetLevel(ports.LevelError)
	derived.Info(ctx, "hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, ports.LevelError, derived.Level())
}

func TestZapLogger_Fields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core), level)

	ctx := context.WithValue(context.Background(), RequestIDKey{}, "abc")
	logger.With(ports.F("component", "api")).Warn(ctx, "retrying", ports.F("attempt", 2))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "retrying", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "api", fields["component"])
	assert.Equal(t, "abc", fields["request_id"])
	assert.EqualValues(t, 2, fields["attempt"])
}

func TestZapLogger_Level(t *testing.T) {
	t.Parallel()

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger := NewZapLogger(zap.NewNop(), level)
	assert.Equal(t, ports.LevelInfo, logger.Level())

	logger.SetLevel(ports.LevelDebug)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.Equal(t, ports.LevelDebug, logger.Level())

	logger.SetLevel(ports.LevelError)
	assert.Equal(t, ports.LevelError, logger.Level())
}

func TestNewProductionLogger_File(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/companion.log"
	logger, err := NewProductionLogger(ports.LevelInfo, path)
	require.NoError(t, err)

	logger.Debug(context.Background(), "dropped")
	logger.Info(context.Background(), "kept", ports.F("step", "phone"))
	require.NoError(t, logger.Sync())

	assert.FileExists(t, path)
}
