package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/library"
)

type cliEnv struct {
	dataDir   string
	reportDir string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	for _, k := range []string{"LIBRARY_DATA_DIR", "LIBRARY_STORAGE_DRIVER", "LIBRARY_SQLITE_PATH", "LIBRARY_REPORT_DIR", "LIBRARY_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return cliEnv{dataDir: filepath.Join(dir, "data"), reportDir: filepath.Join(dir, "reports")}
}

// run executes one command line against the env's directories.
func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root, closeCatalog := newRootCommand()
	defer closeCatalog()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--data-dir", e.dataDir, "--report-dir", e.reportDir))
	err := root.Execute()
	return out.String(), err
}

func TestCLICatalogFlow(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "author", "add", "Frank Herbert")
	require.NoError(t, err)
	assert.Contains(t, out, "Author created: Author{id=1, name='Frank Herbert'}")

	_, err = env.run(t, "", "collection", "add", "Sci-Fi")
	require.NoError(t, err)

	out, err = env.run(t, "", "book", "add", "--title", "Dune", "--author", "1", "--collection", "1", "--year", "1965")
	require.NoError(t, err)
	assert.Contains(t, out, "Book created: Book{id=1, title='Dune'")

	out, err = env.run(t, "", "book", "borrow", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Borrowed 'Dune' on ")

	_, err = env.run(t, "", "book", "borrow", "1")
	assert.ErrorIs(t, err, library.ErrInvalidState)

	out, err = env.run(t, "", "book", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Frank Herbert")
	assert.Contains(t, out, "Sci-Fi")

	out, err = env.run(t, "", "author", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Frank Herbert")

	out, err = env.run(t, "", "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Collection: Sci-Fi")
	entries, err := os.ReadDir(env.reportDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCLIErrors(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "author", "get", "3")
	assert.ErrorIs(t, err, library.ErrNotFound)

	_, err = env.run(t, "", "collection", "get", "x")
	assert.ErrorIs(t, err, library.ErrInput)

	_, err = env.run(t, "", "author", "add", " ")
	assert.ErrorIs(t, err, library.ErrInput)

	_, err = env.run(t, "", "book", "add", "--title", "Dune", "--author", "1", "--collection", "1")
	assert.ErrorIs(t, err, library.ErrValidation)

	_, err = env.run(t, "", "--driver", "postgres", "author", "list")
	assert.Error(t, err)
}

func TestCLIDefaultsToShell(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "1\n1\nUrsula K. Le Guin\n9\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Author created: Author{id=1, name='Ursula K. Le Guin'}")
	assert.Contains(t, out, "Goodbye!")

	out, err = env.run(t, "", "author", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ursula K. Le Guin")
}

func TestCLISQLiteDriver(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "--driver", "sqlite", "collection", "add", "Poetry")
	require.NoError(t, err)
	out, err := env.run(t, "", "--driver", "sqlite", "collection", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Poetry")

	_, err = os.Stat(filepath.Join(env.dataDir, "library.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dataDir, library.CollectionsFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
