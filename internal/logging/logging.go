// Package logging configures logrus and carries a request scoped entry
// through context.Context.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Init configures the standard logrus logger. format is "json" or "text".
func Init(level, format string) error {
	return Configure(logrus.StandardLogger(), os.Stdout, level, format)
}

// Configure applies level, format and output to l.
func Configure(l *logrus.Logger, out io.Writer, level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	l.SetOutput(out)
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// ToContext stores entry in ctx.
func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored by ToContext, or one on the
// standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && e != nil {
			return e
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
