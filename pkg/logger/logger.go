// Package logger provides context-aware structured logging on top of
// logrus, with a global fallback entry and helpers to configure level and
// format from CLI flags.
package logger

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// G retrieves the logger entry attached to a context.
	G = FromContext
	// L is the global fallback entry used when a context carries no logger.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// WithLogger attaches a logger entry to ctx, retrievable via FromContext.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// FromContext returns the logger entry stored in ctx, falling back to the
// global entry with the context attached.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L.WithContext(ctx)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = textFormatter()
	return l
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		TimestampFormat: time.RFC3339Nano,
		FullTimestamp:   true,
	}
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "logLevel",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
}

// SetLevel sets the global log level from its string form.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	L.Logger.SetLevel(parsed)
	return nil
}

// SetFormat switches the global logger between "json" and "text" output.
func SetFormat(format string) {
	if format == "json" {
		L.Logger.SetFormatter(jsonFormatter())
		return
	}
	L.Logger.SetFormatter(textFormatter())
}

// SetOutput redirects the global logger output.
func SetOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}
