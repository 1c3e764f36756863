// Package store persists homogeneous collections of records, one serialized
// array per backend, and hands out sequential integer ids.
//
// Every operation reads the whole collection, works on it in memory and, for
// mutations, writes the whole collection back. A Store serialises its own
// calls; two Stores sharing one backend are not coordinated and may hand out
// duplicate ids or lose updates.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is a collection of T records kept in a Backend.
type Store[T any] struct {
	mu      sync.Mutex
	backend Backend
	idOf    func(T) int64
	withID  func(T, int64) T
	lastID  int64
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger read faults are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New opens a store over backend. idOf extracts a record's id; withID
// returns a copy of a record carrying the given id. An untouched backend is
// initialised with an empty collection.
func New[T any](backend Backend, idOf func(T) int64, withID func(T, int64) T, opts ...Option) (*Store[T], error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[T]{
		backend: backend,
		idOf:    idOf,
		withID:  withID,
		logger:  o.logger.With("store", backend.Location()),
	}

	if _, err := backend.Load(); errors.Is(err, ErrNoData) {
		if err := s.write([]T{}); err != nil {
			return nil, err
		}
	}

	for _, rec := range s.read() {
		if id := idOf(rec); id > s.lastID {
			s.lastID = id
		}
	}
	return s, nil
}

// Create assigns the next id to rec, appends it and rewrites the collection.
// When the write fails the id is handed out again by the next Create.
func (s *Store[T]) Create(rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.read()
	s.lastID++
	stored := s.withID(rec, s.lastID)
	records = append(records, stored)

	if err := s.write(records); err != nil {
		s.lastID--
		var zero T
		return zero, err
	}
	return stored, nil
}

// FindByID returns the first record whose id equals id.
func (s *Store[T]) FindByID(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.read() {
		if s.idOf(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every record in stored order. The slice belongs to the
// caller.
func (s *Store[T]) FindAll() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// UpdateByID replaces the record with the given id by updater's result,
// keeping its position. The id is re-applied to the replacement.
func (s *Store[T]) UpdateByID(id int64, updater func(T) T) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records := s.read()
	for i, rec := range records {
		if s.idOf(rec) != id {
			continue
		}
		updated := s.withID(updater(rec), id)
		records[i] = updated
		if err := s.write(records); err != nil {
			return zero, true, err
		}
		return updated, true, nil
	}
	return zero, false, nil
}

// read never fails: an unreadable or undecodable collection is logged and
// treated as empty.
func (s *Store[T]) read() []T {
	data, err := s.backend.Load()
	if err != nil {
		s.logger.Error("read records failed", "error", err)
		return []T{}
	}
	var records []T
	if err := codec.Unmarshal(data, &records); err != nil {
		s.logger.Error("decode records failed", "error", err)
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

func (s *Store[T]) write(records []T) error {
	data, err := codec.MarshalIndent(records, "", "  ")
	if err != nil {
		return &WriteError{Location: s.backend.Location(), Err: fmt.Errorf("encode: %w", err)}
	}
	if err := s.backend.Save(data); err != nil {
		s.logger.Error("write records failed", "error", err)
		return &WriteError{Location: s.backend.Location(), Err: err}
	}
	return nil
}
