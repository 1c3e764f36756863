package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const titleColumnWidth = 30

// BookReport is one row of a collection report.
type BookReport struct {
	Title      string
	AuthorName string
}

// CollectionReport lists the books of one collection.
type CollectionReport struct {
	CollectionName string
	Books          []BookReport
}

// Report is the outcome of one report run.
type Report struct {
	GeneratedAt time.Time
	Path        string
	Collections []CollectionReport
}

// Reporter joins collections, books and authors into per-collection reports.
type Reporter struct {
	collections CollectionStore
	books       BookStore
	authors     AuthorStore
	dir         string
	logger      *slog.Logger
	now         func() time.Time
}

func NewReporter(collections CollectionStore, books BookStore, authors AuthorStore, opts ...Option) *Reporter {
	o := buildOptions(opts)
	return &Reporter{
		collections: collections,
		books:       books,
		authors:     authors,
		dir:         o.reportDir,
		logger:      o.logger,
		now:         o.now,
	}
}

// Build returns one report per collection, in stored collection order, each
// listing its books in stored book order. Books of unknown collections are
// left out; a book whose author is missing fails the whole build.
func (r *Reporter) Build() ([]CollectionReport, error) {
	collections := r.collections.FindAll()
	books := r.books.FindAll()
	authors := r.authors.FindAll()

	authorNames := make(map[int64]string, len(authors))
	for _, a := range authors {
		authorNames[a.ID] = a.Name
	}
	byCollection := make(map[int64][]Book)
	for _, b := range books {
		byCollection[b.CollectionID] = append(byCollection[b.CollectionID], b)
	}

	reports := make([]CollectionReport, 0, len(collections))
	for _, c := range collections {
		rows := make([]BookReport, 0, len(byCollection[c.ID]))
		for _, b := range byCollection[c.ID] {
			name, ok := authorNames[b.AuthorID]
			if !ok {
				return nil, fmt.Errorf("%w: book %d: %w", ErrIntegrity, b.ID, &NotFoundError{Entity: EntityAuthor, ID: b.AuthorID})
			}
			rows = append(rows, BookReport{Title: displayTitle(b), AuthorName: name})
		}
		reports = append(reports, CollectionReport{CollectionName: c.Name, Books: rows})
	}
	return reports, nil
}

// Generate builds the reports and writes them to the report file of the
// current day, replacing an earlier run of the same day. The reports are
// returned even when writing the file fails.
func (r *Reporter) Generate() (Report, error) {
	reports, err := r.Build()
	if err != nil {
		r.logger.Error("build reports failed", "error", err)
		return Report{}, err
	}

	now := r.now()
	rep := Report{
		GeneratedAt: now,
		Path:        filepath.Join(r.dir, ReportFileName(now)),
		Collections: reports,
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.logger.Error("create report dir failed", "dir", r.dir, "error", err)
		return rep, fmt.Errorf("%w: %w", ErrReportWrite, err)
	}
	if err := os.WriteFile(rep.Path, []byte(RenderReport(reports, now)), 0o644); err != nil {
		r.logger.Error("write report failed", "path", rep.Path, "error", err)
		return rep, fmt.Errorf("%w: %s: %w", ErrReportWrite, rep.Path, err)
	}
	r.logger.Info("report written", "path", rep.Path, "collections", len(reports))
	return rep, nil
}

// ReportFileName is report_<YYYY-MM-DD>.txt for the day of t.
func ReportFileName(t time.Time) string {
	return "report_" + t.Format(dateLayout) + ".txt"
}

// RenderReport lays the reports out as plain text: a dated title, then per
// collection a header and a Title | Author table.
func RenderReport(reports []CollectionReport, date time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Library Report - %s\n\n", date.Format(dateLayout))
	for _, rep := range reports {
		header := "Collection: " + rep.CollectionName
		sb.WriteString(header + "\n")
		sb.WriteString(strings.Repeat("-", len(header)) + "\n")
		fmt.Fprintf(&sb, "  %-*s | %s\n", titleColumnWidth, "Title", "Author")
		fmt.Fprintf(&sb, "  %-*s | %s\n", titleColumnWidth, strings.Repeat("-", titleColumnWidth), strings.Repeat("-", len("Author")))
		for _, b := range rep.Books {
			fmt.Fprintf(&sb, "  %-*s | %s\n", titleColumnWidth, b.Title, b.AuthorName)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func displayTitle(b Book) string {
	if b.BorrowedAt == nil {
		return b.Title
	}
	return fmt.Sprintf("%s (borrowed: %s)", b.Title, b.BorrowedAt.String())
}
