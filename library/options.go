package library

import (
	"io"
	"log/slog"
	"time"
)

// Option configures services, the reporter and the manager.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	now       func() time.Time
	reportDir string
}

func buildOptions(opts []Option) options {
	o := options{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		reportDir: ".",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now, e.g. to pin borrow and report dates in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithReportDir sets the directory report files are written to.
func WithReportDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.reportDir = dir
		}
	}
}
