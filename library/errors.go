package library

import (
	"errors"
	"fmt"
)

// Entity names a kind of catalog record in errors.
type Entity string

const (
	EntityAuthor     Entity = "author"
	EntityCollection Entity = "collection"
	EntityBook       Entity = "book"
)

var (
	ErrNotFound     = errors.New("entity does not exist")
	ErrValidation   = errors.New("referenced entity not found")
	ErrInvalidState = errors.New("invalid state")
	ErrInput        = errors.New("invalid input")
	ErrIntegrity    = errors.New("catalog integrity fault")
	ErrReportWrite  = errors.New("report write failed")
)

// NotFoundError reports a lookup of an id that is not stored.
type NotFoundError struct {
	Entity Entity
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d does not exist", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a reference to an id that is not stored.
type ValidationError struct {
	Entity Entity
	ID     int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("referenced %s with ID %d does not exist", e.Entity, e.ID)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidStateError reports a transition the book's state does not allow.
type InvalidStateError struct {
	BookID int64
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("book %d: %s", e.BookID, e.Reason)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InputError reports a malformed request.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInput }
