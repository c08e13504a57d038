// Package logging provides structured logging for the dataflow engine,
// built on the standard library's log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey string

// ContextKeyLogger is the context key under which a *Logger is stored.
const ContextKeyLogger contextKey = "logger"

// Logger wraps slog.Logger with engine-specific field helpers.
type Logger struct {
	logger *slog.Logger
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string
	// Output is where logs are written; defaults to os.Stdout.
	Output io.Writer
	// Pretty selects human-readable text output instead of JSON.
	Pretty bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stdout}
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Pretty {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}
	return &Logger{logger: slog.New(handler)}
}

// Noop returns a Logger that discards everything, the default for
// library consumers who haven't opted into a sink.
func Noop() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext stores the logger in ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, l)
}

// FromContext retrieves the logger stashed in ctx, or a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ContextKeyLogger).(*Logger); ok {
		return l
	}
	return Noop()
}

// WithRunID attaches a run (execution) id to every subsequent log line.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("run_id", runID))}
}

// WithNode attaches a node id and type name to every subsequent log line.
func (l *Logger) WithNode(nodeID int32, typeName string) *Logger {
	return &Logger{logger: l.logger.With(slog.Int("node_id", int(nodeID)), slog.String("node_type", typeName))}
}

// WithFields attaches arbitrary fields to every subsequent log line.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{logger: l.logger.With(args...)}
}

// Debug logs msg at debug level with structured fields.
func (l *Logger) Debug(msg string, fields map[string]interface{}) { l.log(slog.LevelDebug, msg, fields) }

// Info logs msg at info level with structured fields.
func (l *Logger) Info(msg string, fields map[string]interface{}) { l.log(slog.LevelInfo, msg, fields) }

// Warn logs msg at warn level with structured fields.
func (l *Logger) Warn(msg string, fields map[string]interface{}) { l.log(slog.LevelWarn, msg, fields) }

// Error logs msg at error level with structured fields.
func (l *Logger) Error(msg string, fields map[string]interface{}) { l.log(slog.LevelError, msg, fields) }

func (l *Logger) log(level slog.Level, msg string, fields map[string]interface{}) {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.logger.Log(context.Background(), level, msg, args...)
}
