package store_test

import (
	"context"
	"log/slog"
	"sync"
)

// logSpy is a slog.Handler that captures records for assertions.
type logSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

func (s *logSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *logSpy) Enabled(context.Context, slog.Level) bool { return true }

// Attributes added through With are not needed by the tests.
func (s *logSpy) WithAttrs([]slog.Attr) slog.Handler { return s }
func (s *logSpy) WithGroup(string) slog.Handler      { return s }

func (s *logSpy) hasErrorLog(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Level == slog.LevelError && r.Message == message {
			return true
		}
	}
	return false
}
