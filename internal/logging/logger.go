package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with key/value convenience methods
type Logger struct {
	zl     zerolog.Logger
	fields []interface{} // key/value pairs added by With, in order
}

var (
	// Global logger instance
	global *Logger
)

func init() {
	global = NewDevelopment()
}

func newLogger(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		zl: zerolog.New(w).
			Level(level).
			With().
			Timestamp().
			Logger(),
	}
}

// NewProduction creates a production logger with JSON output
func NewProduction() *Logger {
	return newLogger(os.Stdout, zerolog.InfoLevel)
}

// NewDevelopment creates a development logger with pretty console output
func NewDevelopment() *Logger {
	return newLogger(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}, zerolog.DebugLevel)
}

// NewWithWriter creates a logger with custom writer
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return newLogger(w, level)
}

// SetGlobal sets the global logger instance. Component loggers created
// before the call keep the previous output.
func SetGlobal(logger *Logger) {
	global = logger
}

// Global returns the global logger instance
func Global() *Logger {
	return global
}

// Level returns the minimum level of the logger
func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}

// write appends the stored and call fields to e and sends it
func (l *Logger) write(e *zerolog.Event, msg string, fields []interface{}) {
	if e == nil {
		return
	}
	appendFields(e, l.fields)
	appendFields(e, fields)
	e.Msg(msg)
}

// appendFields adds key/value pairs. Errors are rendered with Error(),
// durations natively; a dangling key is logged under "!BADKEY".
func appendFields(e *zerolog.Event, fields []interface{}) {
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		if i+1 >= len(fields) {
			e.Interface("!BADKEY", key)
			return
		}

		switch v := fields[i+1].(type) {
		case error:
			e.Str(key, v.Error())
		case time.Duration:
			e.Dur(key, v)
		case string:
			e.Str(key, v)
		default:
			e.Interface(key, v)
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.write(l.zl.Debug(), msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.write(l.zl.Info(), msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.write(l.zl.Warn(), msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.write(l.zl.Error(), msg, fields)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.write(l.zl.Fatal(), msg, fields)
}

// With creates a child logger with additional fields
func (l *Logger) With(fields ...interface{}) *Logger {
	merged := make([]interface{}, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	if len(merged)%2 != 0 {
		merged = merged[:len(merged)-1]
	}

	return &Logger{
		zl:     l.zl,
		fields: merged,
	}
}

// WithContext returns a logger with context fields
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// Global convenience functions

// Debug logs a debug message using global logger
func Debug(msg string, fields ...interface{}) {
	global.Debug(msg, fields...)
}

// Info logs an info message using global logger
func Info(msg string, fields ...interface{}) {
	global.Info(msg, fields...)
}

// Warn logs a warning message using global logger
func Warn(msg string, fields ...interface{}) {
	global.Warn(msg, fields...)
}

// Error logs an error message using global logger
func Error(msg string, fields ...interface{}) {
	global.Error(msg, fields...)
}

// Fatal logs a fatal message and exits using global logger
func Fatal(msg string, fields ...interface{}) {
	global.Fatal(msg, fields...)
}

// With creates a child logger with additional fields using global logger
func With(fields ...interface{}) *Logger {
	return global.With(fields...)
}
