package library

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthorStore is the persistence AuthorService needs.
type AuthorStore interface {
	Add(Author) (Author, error)
	FindByID(id int64) (Author, bool)
	FindAll() []Author
}

// CollectionStore is the persistence CollectionService needs.
type CollectionStore interface {
	Add(Collection) (Collection, error)
	FindByID(id int64) (Collection, bool)
	FindAll() []Collection
}

// BookStore is the persistence BookService needs.
type BookStore interface {
	Add(Book) (Book, error)
	FindByID(id int64) (Book, bool)
	FindAll() []Book
	Update(Book) (Book, bool, error)
}

// AddAuthorCommand carries the input of AuthorService.Add.
type AddAuthorCommand struct {
	Name string `validate:"required,max=200"`
}

// AddCollectionCommand carries the input of CollectionService.Add.
type AddCollectionCommand struct {
	Name string `validate:"required,max=200"`
}

// AddBookCommand carries the input of BookService.Add. The referenced ids
// are checked against the stores, not here.
type AddBookCommand struct {
	Title           string `validate:"required,max=300"`
	AuthorID        int64
	CollectionID    int64
	PublicationYear int `validate:"gte=0,lte=9999"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateCommand maps the first struct validation failure to an InputError.
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Reason: err.Error()}
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &InputError{Field: field, Reason: "cannot be empty"}
	case "max":
		return &InputError{Field: field, Reason: fmt.Sprintf("must be at most %s characters", fe.Param())}
	case "gte", "lte":
		return &InputError{Field: field, Reason: "must be between 0 and 9999"}
	default:
		return &InputError{Field: field, Reason: fmt.Sprintf("failed %q check", fe.Tag())}
	}
}

// ------------------ Authors ------------------

type AuthorService struct {
	authors AuthorStore
	logger  *slog.Logger
}

func NewAuthorService(authors AuthorStore, opts ...Option) *AuthorService {
	o := buildOptions(opts)
	return &AuthorService{authors: authors, logger: o.logger}
}

// Add stores a new author named name.
func (s *AuthorService) Add(name string) (Author, error) {
	cmd := AddAuthorCommand{Name: strings.TrimSpace(name)}
	if err := validateCommand(cmd); err != nil {
		return Author{}, err
	}
	created, err := s.authors.Add(Author{Name: cmd.Name})
	if err != nil {
		s.logger.Warn("add author failed", "error", err)
		return Author{}, fmt.Errorf("add author: %w", err)
	}
	s.logger.Debug("author added", "id", created.ID)
	return created, nil
}

func (s *AuthorService) GetAll() []Author { return s.authors.FindAll() }

func (s *AuthorService) GetByID(id int64) (Author, error) {
	a, ok := s.authors.FindByID(id)
	if !ok {
		return Author{}, &NotFoundError{Entity: EntityAuthor, ID: id}
	}
	return a, nil
}

// ------------------ Collections ------------------

type CollectionService struct {
	collections CollectionStore
	logger      *slog.Logger
}

func NewCollectionService(collections CollectionStore, opts ...Option) *CollectionService {
	o := buildOptions(opts)
	return &CollectionService{collections: collections, logger: o.logger}
}

// Add stores a new collection named name.
func (s *CollectionService) Add(name string) (Collection, error) {
	cmd := AddCollectionCommand{Name: strings.TrimSpace(name)}
	if err := validateCommand(cmd); err != nil {
		return Collection{}, err
	}
	created, err := s.collections.Add(Collection{Name: cmd.Name})
	if err != nil {
		s.logger.Warn("add collection failed", "error", err)
		return Collection{}, fmt.Errorf("add collection: %w", err)
	}
	s.logger.Debug("collection added", "id", created.ID)
	return created, nil
}

func (s *CollectionService) GetAll() []Collection { return s.collections.FindAll() }

func (s *CollectionService) GetByID(id int64) (Collection, error) {
	c, ok := s.collections.FindByID(id)
	if !ok {
		return Collection{}, &NotFoundError{Entity: EntityCollection, ID: id}
	}
	return c, nil
}

// ------------------ Books ------------------

type BookService struct {
	books       BookStore
	authors     AuthorStore
	collections CollectionStore
	logger      *slog.Logger
	now         func() time.Time
}

func NewBookService(books BookStore, authors AuthorStore, collections CollectionStore, opts ...Option) *BookService {
	o := buildOptions(opts)
	return &BookService{
		books:       books,
		authors:     authors,
		collections: collections,
		logger:      o.logger,
		now:         o.now,
	}
}

// Add stores a new unborrowed book. Both referenced ids must resolve before
// anything is written.
func (s *BookService) Add(cmd AddBookCommand) (Book, error) {
	cmd.Title = strings.TrimSpace(cmd.Title)
	if err := validateCommand(cmd); err != nil {
		return Book{}, err
	}
	if _, ok := s.authors.FindByID(cmd.AuthorID); !ok {
		s.logger.Warn("add book rejected", "missing", EntityAuthor, "id", cmd.AuthorID)
		return Book{}, &ValidationError{Entity: EntityAuthor, ID: cmd.AuthorID}
	}
	if _, ok := s.collections.FindByID(cmd.CollectionID); !ok {
		s.logger.Warn("add book rejected", "missing", EntityCollection, "id", cmd.CollectionID)
		return Book{}, &ValidationError{Entity: EntityCollection, ID: cmd.CollectionID}
	}

	created, err := s.books.Add(NewBook(cmd.Title, cmd.AuthorID, cmd.CollectionID, cmd.PublicationYear))
	if err != nil {
		s.logger.Warn("add book failed", "error", err)
		return Book{}, fmt.Errorf("add book: %w", err)
	}
	s.logger.Debug("book added", "id", created.ID)
	return created, nil
}

func (s *BookService) GetAll() []Book { return s.books.FindAll() }

func (s *BookService) GetByID(id int64) (Book, error) {
	b, ok := s.books.FindByID(id)
	if !ok {
		return Book{}, &NotFoundError{Entity: EntityBook, ID: id}
	}
	return b, nil
}

// Borrow moves the book from available to borrowed and persists it. This is
// the only path that changes a book's borrowing state.
func (s *BookService) Borrow(id int64) (Book, error) {
	b, ok := s.books.FindByID(id)
	if !ok {
		return Book{}, &NotFoundError{Entity: EntityBook, ID: id}
	}
	borrowed, err := b.Borrow(s.now())
	if err != nil {
		s.logger.Warn("borrow rejected", "id", id, "error", err)
		return Book{}, err
	}
	updated, ok, err := s.books.Update(borrowed)
	if err != nil {
		s.logger.Warn("borrow failed", "id", id, "error", err)
		return Book{}, fmt.Errorf("borrow book %d: %w", id, err)
	}
	if !ok {
		return Book{}, &NotFoundError{Entity: EntityBook, ID: id}
	}
	s.logger.Debug("book borrowed", "id", id, "borrowed_at", updated.BorrowedAt.String())
	return updated, nil
}
