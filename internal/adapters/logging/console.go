package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// RequestIDKey is the context key under which a request ID may be stored.
// When present, console entries carry it as a request_id field.
type RequestIDKey struct{}

// ConsoleLogger writes entries to a terminal or any io.Writer, either as
// aligned text or as one JSON object per line.
type ConsoleLogger struct {
	sink   *consoleSink
	level  *atomic.Int32
	fields []ports.Field
}

// consoleSink is shared by a logger and every logger derived via With so
// that concurrent writers never interleave lines.
type consoleSink struct {
	mu        sync.Mutex
	out       io.Writer
	json      bool
	timestamp bool
	label     bool
	color     bool
	now       func() time.Time
}

// ConsoleOption configures a ConsoleLogger.
type ConsoleOption func(*ConsoleLogger)

// WithOutput sets the writer (default os.Stderr).
func WithOutput(w io.Writer) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.sink.out = w
	}
}

// WithLevel sets the minimum level (default info).
func WithLevel(level ports.Level) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.level.Store(int32(level))
	}
}

// WithJSONFormat switches to JSON lines.
func WithJSONFormat(enabled bool) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.sink.json = enabled
	}
}

// WithTimestamp toggles the time prefix.
func WithTimestamp(enabled bool) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.sink.timestamp = enabled
	}
}

// WithLevelLabel toggles the [LEVEL] label.
func WithLevelLabel(enabled bool) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.sink.label = enabled
	}
}

// WithColor renders level labels with terminal colors in text mode.
func WithColor(enabled bool) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.sink.color = enabled
	}
}

// NewConsoleLogger creates a ConsoleLogger.
func NewConsoleLogger(opts ...ConsoleOption) *ConsoleLogger {
	l := &ConsoleLogger{
		sink: &consoleSink{
			out:       os.Stderr,
			timestamp: true,
			label:     true,
			now:       time.Now,
		},
		level: &atomic.Int32{},
	}
	l.level.Store(int32(ports.LevelInfo))

	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a logger that shares the output and level of l.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	return &ConsoleLogger{
		sink:   l.sink,
		level:  l.level,
		fields: append(append([]ports.Field(nil), l.fields...), fields...),
	}
}

func (l *ConsoleLogger) Level() ports.Level {
	return ports.Level(l.level.Load())
}

// SetLevel changes the level for l and every logger derived from it.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.level.Store(int32(level))
}

func (l *ConsoleLogger) log(ctx context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.Level() {
		return
	}

	all := make([]ports.Field, 0, len(l.fields)+len(fields)+1)
	if ctx != nil {
		if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
			all = append(all, ports.F("request_id", id))
		}
	}
	all = append(all, l.fields...)
	all = append(all, fields...)

	var line string
	if l.sink.json {
		line = l.sink.formatJSON(level, msg, all)
	} else {
		line = l.sink.formatText(level, msg, all)
	}
	if line == "" {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.out, line+"\n")
}

func (s *consoleSink) formatJSON(level ports.Level, msg string, fields []ports.Field) string {
	entry := make(map[string]any, len(fields)+3)
	for _, f := range fields {
		entry[f.Key] = f.Value
	}
	if s.timestamp {
		entry["time"] = s.now().UTC().Format(time.RFC3339)
	}
	if s.label {
		entry["level"] = level.String()
	}
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return string(data)
}

var levelColors = map[ports.Level]lipgloss.Color{
	ports.LevelDebug: lipgloss.Color("245"),
	ports.LevelInfo:  lipgloss.Color("39"),
	ports.LevelWarn:  lipgloss.Color("214"),
	ports.LevelError: lipgloss.Color("196"),
}

func (s *consoleSink) formatText(level ports.Level, msg string, fields []ports.Field) string {
	var b strings.Builder

	if s.timestamp {
		b.WriteString(s.now().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if s.label {
		label := "[" + level.String() + "]"
		if s.color {
			label = lipgloss.NewStyle().Foreground(levelColors[level]).Bold(true).Render(label)
		}
		b.WriteString(label)
		b.WriteByte(' ')
	}
	b.WriteString(msg)

	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(f.Value))
	}
	return b.String()
}

// formatValue quotes strings containing whitespace so key=value pairs stay
// splittable.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n\"") {
		return strconv.Quote(s)
	}
	return s
}

var _ ports.Logger = (*ConsoleLogger)(nil)
