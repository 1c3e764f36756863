package library

import (
	"log/slog"

	"library-catalog/store"
)

func authorID(a Author) int64         { return a.ID }
func collectionID(c Collection) int64 { return c.ID }
func bookID(b Book) int64             { return b.ID }

// AuthorRepository stores authors.
type AuthorRepository struct {
	store *store.Store[Author]
}

func NewAuthorRepository(backend store.Backend, logger *slog.Logger) (*AuthorRepository, error) {
	s, err := store.New(backend, authorID, Author.WithID, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &AuthorRepository{store: s}, nil
}

func (r *AuthorRepository) Add(a Author) (Author, error)     { return r.store.Create(a) }
func (r *AuthorRepository) FindByID(id int64) (Author, bool) { return r.store.FindByID(id) }
func (r *AuthorRepository) FindAll() []Author                { return r.store.FindAll() }

// CollectionRepository stores collections.
type CollectionRepository struct {
	store *store.Store[Collection]
}

func NewCollectionRepository(backend store.Backend, logger *slog.Logger) (*CollectionRepository, error) {
	s, err := store.New(backend, collectionID, Collection.WithID, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &CollectionRepository{store: s}, nil
}

func (r *CollectionRepository) Add(c Collection) (Collection, error) { return r.store.Create(c) }
func (r *CollectionRepository) FindByID(id int64) (Collection, bool) { return r.store.FindByID(id) }
func (r *CollectionRepository) FindAll() []Collection                { return r.store.FindAll() }

// BookRepository stores books, including their borrowing state.
type BookRepository struct {
	store *store.Store[Book]
}

func NewBookRepository(backend store.Backend, logger *slog.Logger) (*BookRepository, error) {
	s, err := store.New(backend, bookID, Book.WithID, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &BookRepository{store: s}, nil
}

func (r *BookRepository) Add(b Book) (Book, error)       { return r.store.Create(b) }
func (r *BookRepository) FindByID(id int64) (Book, bool) { return r.store.FindByID(id) }
func (r *BookRepository) FindAll() []Book                { return r.store.FindAll() }

// Update replaces the stored book with the same id by b. It reports false
// when no such book is stored.
func (r *BookRepository) Update(b Book) (Book, bool, error) {
	if b.ID == 0 {
		return Book{}, false, &InputError{Field: "id", Reason: "book id is required for update"}
	}
	return r.store.UpdateByID(b.ID, func(Book) Book { return b })
}
