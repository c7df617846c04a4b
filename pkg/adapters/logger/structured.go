package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/user/centerstage/pkg/ports"
)

// StructuredLogger writes one JSON object per message through logrus.
// Messages are not translated so that log processors see stable text.
type StructuredLogger struct {
	entry *logrus.Entry
}

// NewStructured creates a JSON logger writing to out.
func NewStructured(level ports.LogLevel, out io.Writer) *StructuredLogger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetLevel(toLogrusLevel(level))

	return &StructuredLogger{entry: logrus.NewEntry(base)}
}

// Debug logs a debug message.
func (l *StructuredLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debug(format(msg, args))
}

// Info logs an informational message.
func (l *StructuredLogger) Info(msg string, args ...interface{}) {
	l.entry.Info(format(msg, args))
}

// Warn logs a warning message.
func (l *StructuredLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warn(format(msg, args))
}

// Error logs an error message.
func (l *StructuredLogger) Error(msg string, args ...interface{}) {
	l.entry.Error(format(msg, args))
}

// WithComponent returns a logger that tags every entry with a component field.
func (l *StructuredLogger) WithComponent(component string) ports.Logger {
	return &StructuredLogger{entry: l.entry.WithFields(logrus.Fields{"component": component})}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func toLogrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LevelDebug:
		return logrus.DebugLevel
	case ports.LevelWarn:
		return logrus.WarnLevel
	case ports.LevelError:
		return logrus.ErrorLevel
	case ports.LevelQuiet:
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

var _ ports.Logger = (*StructuredLogger)(nil)
