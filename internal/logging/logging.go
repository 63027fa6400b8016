// Package logging builds the structured logger shared by the server and
// the CLI.
package logging

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// RequestIDKey is the log field holding the request ID.
const RequestIDKey = "request_id"

// New creates a logger writing to w with the given level and format, which
// is json or text.
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)
	if err := SetLevel(l, level); err != nil {
		return nil, err
	}
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return l, nil
}

// SetLevel parses and applies a level name.
func SetLevel(l *logrus.Logger, level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(lv)
	return nil
}

type ctxkey struct{}

// WithRequestID attaches a request ID to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey{}, id)
}

// RequestID returns the request ID attached to ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey{}).(string)
	return id
}

// Entry returns an entry carrying the request ID from ctx.
func Entry(ctx context.Context, l *logrus.Logger) *logrus.Entry {
	e := logrus.NewEntry(l).WithContext(ctx)
	if id := RequestID(ctx); id != "" {
		e = e.WithField(RequestIDKey, id)
	}
	return e
}
