package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverFile   = "file"   // one JSON file per entity (default)
	DriverSQLite = "sqlite" // one SQLite database, one bucket per entity
)

// Default record file names, relative to Config.DataDir.
const (
	AuthorsFile     = "Authors.json"
	CollectionsFile = "Collections.json"
	BooksFile       = "Books.json"
)

// Config selects where the catalog keeps its records and reports.
type Config struct {
	DataDir    string
	Driver     string
	SQLitePath string
	ReportDir  string
	LogLevel   string
}

// DefaultConfig keeps everything in the working directory.
func DefaultConfig() Config {
	return Config{
		DataDir:   ".",
		Driver:    DriverFile,
		ReportDir: ".",
		LogLevel:  "warn",
	}
}

// LoadConfig reads an optional .env file, then the environment:
//
//	LIBRARY_DATA_DIR        directory of the record files (default .)
//	LIBRARY_STORAGE_DRIVER  file|sqlite (default file)
//	LIBRARY_SQLITE_PATH     sqlite database (default <data dir>/library.db)
//	LIBRARY_REPORT_DIR      directory of report files (default .)
//	LIBRARY_LOG_LEVEL       debug|info|warn|error (default warn)
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := DefaultConfig()
	if v := os.Getenv("LIBRARY_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LIBRARY_STORAGE_DRIVER"); v != "" {
		cfg.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("LIBRARY_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("LIBRARY_REPORT_DIR"); v != "" {
		cfg.ReportDir = v
	}
	if v := os.Getenv("LIBRARY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown drivers and log levels. An empty driver means
// DriverFile.
func (c Config) Validate() error {
	switch c.Driver {
	case "", DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; empty means warn.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return lvl, nil
}

// DatabasePath is the SQLite file used by the sqlite driver.
func (c Config) DatabasePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "library.db")
}
