package library

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	repos
	authors     *AuthorService
	collections *CollectionService
	books       *BookService
}

func tempServices(t *testing.T) services {
	t.Helper()
	r := tempRepos(t)
	clock := WithClock(func() time.Time { return fixedNow })
	return services{
		repos:       r,
		authors:     NewAuthorService(r.authors, clock),
		collections: NewCollectionService(r.collections, clock),
		books:       NewBookService(r.books, r.authors, r.collections, clock),
	}
}

func TestAddAuthorAndCollection(t *testing.T) {
	s := tempServices(t)

	a, err := s.authors.Add("  Ursula K. Le Guin ")
	require.NoError(t, err)
	assert.Equal(t, Author{ID: 1, Name: "Ursula K. Le Guin"}, a)

	c, err := s.collections.Add("Fantasy")
	require.NoError(t, err)
	assert.Equal(t, Collection{ID: 1, Name: "Fantasy"}, c)

	got, err := s.authors.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.Equal(t, []Collection{c}, s.collections.GetAll())
}

func TestAddRejectsBlankNames(t *testing.T) {
	s := tempServices(t)

	_, err := s.authors.Add("   ")
	assert.ErrorIs(t, err, ErrInput)
	_, err = s.collections.Add("")
	assert.ErrorIs(t, err, ErrInput)

	var ierr *InputError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "name", ierr.Field)

	assert.Empty(t, s.authors.GetAll())
	assert.Empty(t, s.collections.GetAll())
}

func TestGetByIDNotFound(t *testing.T) {
	s := tempServices(t)

	_, err := s.authors.GetByID(4)
	assert.EqualError(t, err, "author with ID 4 does not exist")
	_, err = s.collections.GetByID(5)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.books.GetByID(6)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, EntityBook, nf.Entity)
	assert.Equal(t, int64(6), nf.ID)
}

func TestAddBookValidatesReferences(t *testing.T) {
	s := tempServices(t)
	a, err := s.authors.Add("Frank Herbert")
	require.NoError(t, err)
	c, err := s.collections.Add("Sci-Fi")
	require.NoError(t, err)

	tests := []struct {
		name   string
		cmd    AddBookCommand
		entity Entity
		id     int64
	}{
		{"missing author", AddBookCommand{Title: "Dune", AuthorID: 99, CollectionID: c.ID, PublicationYear: 1965}, EntityAuthor, 99},
		{"missing collection", AddBookCommand{Title: "Dune", AuthorID: a.ID, CollectionID: 42, PublicationYear: 1965}, EntityCollection, 42},
		{"author checked first", AddBookCommand{Title: "Dune", AuthorID: 7, CollectionID: 8, PublicationYear: 1965}, EntityAuthor, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.books.Add(tt.cmd)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.entity, verr.Entity)
			assert.Equal(t, tt.id, verr.ID)
			assert.Empty(t, s.books.GetAll())
		})
	}
}

func TestAddBookRejectsBadInput(t *testing.T) {
	s := tempServices(t)
	_, _ = s.authors.Add("A")
	_, _ = s.collections.Add("C")

	_, err := s.books.Add(AddBookCommand{Title: " ", AuthorID: 1, CollectionID: 1, PublicationYear: 2000})
	assert.ErrorIs(t, err, ErrInput)
	_, err = s.books.Add(AddBookCommand{Title: "T", AuthorID: 1, CollectionID: 1, PublicationYear: -5})
	assert.ErrorIs(t, err, ErrInput)
	assert.Empty(t, s.books.GetAll())
}

func TestAddBookCreatesUnborrowed(t *testing.T) {
	s := tempServices(t)
	_, _ = s.authors.Add("Frank Herbert")
	_, _ = s.collections.Add("Sci-Fi")

	b, err := s.books.Add(AddBookCommand{Title: "Dune", AuthorID: 1, CollectionID: 1, PublicationYear: 1965})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 1, Title: "Dune", AuthorID: 1, CollectionID: 1, PublicationYear: 1965}, b)
}

func TestBorrowTwice(t *testing.T) {
	s := tempServices(t)
	_, _ = s.authors.Add("Frank Herbert")
	_, _ = s.collections.Add("Sci-Fi")
	b, err := s.books.Add(AddBookCommand{Title: "Dune", AuthorID: 1, CollectionID: 1, PublicationYear: 1965})
	require.NoError(t, err)

	borrowed, err := s.books.Borrow(b.ID)
	require.NoError(t, err)
	assert.True(t, borrowed.IsBorrowed)
	assert.Equal(t, "2026-10-19", borrowed.BorrowedAt.String())
	afterFirst := s.books.GetAll()

	_, err = s.books.Borrow(b.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, afterFirst, s.books.GetAll())
}

func TestBorrowUnknownBook(t *testing.T) {
	s := tempServices(t)

	_, err := s.books.Borrow(3)
	assert.ErrorIs(t, err, ErrNotFound)
}

// failingBooks wraps a BookStore and fails every write.
type failingBooks struct {
	BookStore
	err error
}

func (f failingBooks) Update(Book) (Book, bool, error) { return Book{}, true, f.err }

func TestBorrowWriteFailure(t *testing.T) {
	s := tempServices(t)
	_, _ = s.authors.Add("A")
	_, _ = s.collections.Add("C")
	b, err := s.books.Add(AddBookCommand{Title: "T", AuthorID: 1, CollectionID: 1})
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	svc := NewBookService(failingBooks{BookStore: s.repos.books, err: diskFull}, s.repos.authors, s.repos.collections)
	_, err = svc.Borrow(b.ID)
	assert.ErrorIs(t, err, diskFull)

	stored, err := s.books.GetByID(b.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBorrowed)
}
