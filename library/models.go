package library

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Author is a person books are attributed to.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (a Author) WithID(id int64) Author { return Author{ID: id, Name: a.Name} }

func (a Author) String() string {
	return fmt.Sprintf("Author{id=%d, name='%s'}", a.ID, a.Name)
}

// Collection groups books on a shelf, e.g. "Sci-Fi".
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c Collection) WithID(id int64) Collection { return Collection{ID: id, Name: c.Name} }

func (c Collection) String() string {
	return fmt.Sprintf("Collection{id=%d, name='%s'}", c.ID, c.Name)
}

// Book references its author and collection by id. BorrowedAt is set if
// and only if IsBorrowed is true.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	AuthorID        int64  `json:"authorId"`
	CollectionID    int64  `json:"collectionId"`
	PublicationYear int    `json:"publicationYear"`
	BorrowedAt      *Date  `json:"borrowedAt"`
	IsBorrowed      bool   `json:"isBorrowed"`
}

// NewBook returns an unborrowed book without an id.
func NewBook(title string, authorID, collectionID int64, year int) Book {
	return Book{
		Title:           title,
		AuthorID:        authorID,
		CollectionID:    collectionID,
		PublicationYear: year,
	}
}

func (b Book) WithID(id int64) Book {
	return Book{
		ID:              id,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		CollectionID:    b.CollectionID,
		PublicationYear: b.PublicationYear,
		BorrowedAt:      b.BorrowedAt,
		IsBorrowed:      b.IsBorrowed,
	}
}

// Borrow returns the borrowed version of b, stamped with the day of at.
// A book can be borrowed once; there is no return.
func (b Book) Borrow(at time.Time) (Book, error) {
	if b.IsBorrowed {
		return Book{}, &InvalidStateError{BookID: b.ID, Reason: "book is already borrowed"}
	}
	day := DateOf(at)
	return Book{
		ID:              b.ID,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		CollectionID:    b.CollectionID,
		PublicationYear: b.PublicationYear,
		BorrowedAt:      &day,
		IsBorrowed:      true,
	}, nil
}

func (b Book) String() string {
	borrowedAt := "null"
	if b.BorrowedAt != nil {
		borrowedAt = b.BorrowedAt.String()
	}
	return fmt.Sprintf("Book{id=%d, title='%s', authorId=%d, collectionId=%d, year=%d, borrowedAt=%s, isBorrowed=%t}",
		b.ID, b.Title, b.AuthorID, b.CollectionID, b.PublicationYear, borrowedAt, b.IsBorrowed)
}
