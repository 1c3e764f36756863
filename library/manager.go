package library

import (
	"fmt"
	"os"
	"path/filepath"

	"library-catalog/store"
)

// LibraryManager is a thin façade over the services, keeping CLI code simple.
type LibraryManager struct {
	authors     *AuthorService
	collections *CollectionService
	books       *BookService
	reporter    *Reporter
	closeFn     func() error
}

// NewLibraryManager opens the record stores selected by cfg and wires the
// services on top of them.
func NewLibraryManager(cfg Config, opts ...Option) (*LibraryManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	var (
		authorsB, collectionsB, booksB store.Backend
		closeFn                        = func() error { return nil }
	)
	switch cfg.Driver {
	case DriverSQLite:
		db, err := store.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		authorsB, collectionsB, booksB = db.Bucket("authors"), db.Bucket("collections"), db.Bucket("books")
		closeFn = db.Close
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		authorsB = store.NewFileBackend(filepath.Join(cfg.DataDir, AuthorsFile))
		collectionsB = store.NewFileBackend(filepath.Join(cfg.DataDir, CollectionsFile))
		booksB = store.NewFileBackend(filepath.Join(cfg.DataDir, BooksFile))
	}

	authors, err := NewAuthorRepository(authorsB, o.logger)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("open authors: %w", err)
	}
	collections, err := NewCollectionRepository(collectionsB, o.logger)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("open collections: %w", err)
	}
	books, err := NewBookRepository(booksB, o.logger)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("open books: %w", err)
	}

	if cfg.ReportDir != "" {
		opts = append(opts, WithReportDir(cfg.ReportDir))
	}
	return &LibraryManager{
		authors:     NewAuthorService(authors, opts...),
		collections: NewCollectionService(collections, opts...),
		books:       NewBookService(books, authors, collections, opts...),
		reporter:    NewReporter(collections, books, authors, opts...),
		closeFn:     closeFn,
	}, nil
}

// Close releases the underlying database, if any.
func (lm *LibraryManager) Close() error { return lm.closeFn() }

// ------------------ Author helpers ------------------

func (lm *LibraryManager) AddAuthor(name string) (Author, error) { return lm.authors.Add(name) }
func (lm *LibraryManager) ListAuthors() []Author                 { return lm.authors.GetAll() }
func (lm *LibraryManager) GetAuthor(id int64) (Author, error)    { return lm.authors.GetByID(id) }

// ------------------ Collection helpers ------------------

func (lm *LibraryManager) AddCollection(name string) (Collection, error) {
	return lm.collections.Add(name)
}
func (lm *LibraryManager) ListCollections() []Collection              { return lm.collections.GetAll() }
func (lm *LibraryManager) GetCollection(id int64) (Collection, error) { return lm.collections.GetByID(id) }

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title string, authorID, collectionID int64, year int) (Book, error) {
	return lm.books.Add(AddBookCommand{
		Title:           title,
		AuthorID:        authorID,
		CollectionID:    collectionID,
		PublicationYear: year,
	})
}

func (lm *LibraryManager) ListBooks() []Book              { return lm.books.GetAll() }
func (lm *LibraryManager) GetBook(id int64) (Book, error) { return lm.books.GetByID(id) }

// ------------------ Circulation ------------------

// BorrowBook marks the book as borrowed today.
func (lm *LibraryManager) BorrowBook(id int64) (Book, error) { return lm.books.Borrow(id) }

// ------------------ Reporting ------------------

// GenerateReports writes today's report file and returns the reports; see
// Reporter.Generate.
func (lm *LibraryManager) GenerateReports() (Report, error) { return lm.reporter.Generate() }

// ------------------ Utilities ------------------

// PrettyBook formats a book for lists, resolving its author and collection
// names from the given lookups.
func PrettyBook(b Book, authorName, collectionName string) string {
	status := "available"
	if b.IsBorrowed {
		status = "borrowed " + b.BorrowedAt.String()
	}
	return fmt.Sprintf("%-5d %-30s %-25s %-20s %-6d %s", b.ID, b.Title, authorName, collectionName, b.PublicationYear, status)
}
