package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedShelves stores the Sci-Fi/Fantasy catalog used by the report tests.
func seedShelves(t *testing.T, r repos) {
	t.Helper()
	for _, name := range []string{"Frank Herbert", "William Gibson", "J.R.R. Tolkien"} {
		_, err := r.authors.Add(Author{Name: name})
		require.NoError(t, err)
	}
	for _, name := range []string{"Sci-Fi", "Fantasy"} {
		_, err := r.collections.Add(Collection{Name: name})
		require.NoError(t, err)
	}
	for _, b := range []Book{
		NewBook("Dune", 1, 1, 1965),
		NewBook("Neuromancer", 2, 1, 1984),
		NewBook("The Lord of the Rings", 3, 2, 1954),
	} {
		_, err := r.books.Add(b)
		require.NoError(t, err)
	}
}

func newTestReporter(r repos, dir string) *Reporter {
	return NewReporter(r.collections, r.books, r.authors,
		WithClock(func() time.Time { return fixedNow }),
		WithReportDir(dir),
	)
}

func TestBuildGroupsByCollection(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)

	reports, err := newTestReporter(r, t.TempDir()).Build()
	require.NoError(t, err)
	assert.Equal(t, []CollectionReport{
		{CollectionName: "Sci-Fi", Books: []BookReport{
			{Title: "Dune", AuthorName: "Frank Herbert"},
			{Title: "Neuromancer", AuthorName: "William Gibson"},
		}},
		{CollectionName: "Fantasy", Books: []BookReport{
			{Title: "The Lord of the Rings", AuthorName: "J.R.R. Tolkien"},
		}},
	}, reports)
}

func TestBuildEmptyCollection(t *testing.T) {
	r := tempRepos(t)
	_, err := r.collections.Add(Collection{Name: "Poetry"})
	require.NoError(t, err)

	reports, err := newTestReporter(r, t.TempDir()).Build()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Poetry", reports[0].CollectionName)
	assert.Empty(t, reports[0].Books)
}

func TestBuildSkipsOrphanBooks(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)
	_, err := r.books.Add(NewBook("Lost", 1, 77, 2000))
	require.NoError(t, err)

	reports, err := newTestReporter(r, t.TempDir()).Build()
	require.NoError(t, err)
	for _, rep := range reports {
		for _, b := range rep.Books {
			assert.NotEqual(t, "Lost", b.Title)
		}
	}
}

func TestBuildMissingAuthor(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)
	_, err := r.books.Add(NewBook("Anonymous", 42, 1, 2000))
	require.NoError(t, err)

	_, err = newTestReporter(r, t.TempDir()).Build()
	require.ErrorIs(t, err, ErrIntegrity)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, EntityAuthor, nf.Entity)
	assert.Equal(t, int64(42), nf.ID)
}

func TestBuildMarksBorrowedBooks(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)
	dune, ok := r.books.FindByID(1)
	require.True(t, ok)
	borrowed, err := dune.Borrow(fixedNow)
	require.NoError(t, err)
	_, _, err = r.books.Update(borrowed)
	require.NoError(t, err)

	reports, err := newTestReporter(r, t.TempDir()).Build()
	require.NoError(t, err)
	assert.Equal(t, "Dune (borrowed: 2026-10-19)", reports[0].Books[0].Title)
}

func TestRenderReport(t *testing.T) {
	reports := []CollectionReport{
		{CollectionName: "Sci-Fi", Books: []BookReport{
			{Title: "Dune", AuthorName: "Frank Herbert"},
		}},
		{CollectionName: "Empty"},
	}

	want := "Library Report - 2026-10-19\n" +
		"\n" +
		"Collection: Sci-Fi\n" +
		"------------------\n" +
		"  Title                          | Author\n" +
		"  ------------------------------ | ------\n" +
		"  Dune                           | Frank Herbert\n" +
		"\n" +
		"Collection: Empty\n" +
		"-----------------\n" +
		"  Title                          | Author\n" +
		"  ------------------------------ | ------\n" +
		"\n"
	assert.Equal(t, want, RenderReport(reports, fixedNow))
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "report_2026-10-19.txt", ReportFileName(fixedNow))
}

func TestGenerateWritesFile(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)
	dir := filepath.Join(t.TempDir(), "reports")

	rep, err := newTestReporter(r, dir).Generate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_2026-10-19.txt"), rep.Path)
	assert.Equal(t, fixedNow, rep.GeneratedAt)
	require.Len(t, rep.Collections, 2)

	raw, err := os.ReadFile(rep.Path)
	require.NoError(t, err)
	assert.Equal(t, RenderReport(rep.Collections, fixedNow), string(raw))
	assert.Contains(t, string(raw), "  Neuromancer                    | William Gibson\n")
}

func TestGenerateOverwritesSameDay(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)
	dir := t.TempDir()
	reporter := newTestReporter(r, dir)

	_, err := reporter.Generate()
	require.NoError(t, err)
	_, err = r.collections.Add(Collection{Name: "Poetry"})
	require.NoError(t, err)
	rep, err := reporter.Generate()
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	raw, err := os.ReadFile(rep.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Collection: Poetry\n")
}

func TestGenerateWriteFailureKeepsReports(t *testing.T) {
	r := tempRepos(t)
	seedShelves(t, r)
	// A regular file where the report directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	rep, err := newTestReporter(r, blocker).Generate()
	require.ErrorIs(t, err, ErrReportWrite)
	assert.Len(t, rep.Collections, 2)
}
