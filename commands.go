package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"library-catalog/library"
)

// app carries the state shared by the command tree: flag values, the
// resolved configuration and the open catalog.
type app struct {
	dataDir   string
	driver    string
	reportDir string
	logLevel  string

	logger *slog.Logger
	mgr    *library.LibraryManager
}

// newRootCommand builds the command tree. The returned func closes the
// catalog opened by whichever command ran.
func newRootCommand() (*cobra.Command, func() error) {
	a := &app{}

	root := &cobra.Command{
		Use:   "library",
		Short: "Manage a small library catalog of authors, collections and books",
		Long: `library keeps authors, collections and books in JSON record files (or a
SQLite database) and writes a plain-text report per collection.

Run without a sub-command to start the interactive menu.

Environment:
  LIBRARY_DATA_DIR, LIBRARY_STORAGE_DRIVER, LIBRARY_SQLITE_PATH,
  LIBRARY_REPORT_DIR, LIBRARY_LOG_LEVEL (a .env file is read first)`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
		RunE:              a.runShell,
	}

	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory of the record files (overrides LIBRARY_DATA_DIR)")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "Storage driver: file or sqlite (overrides LIBRARY_STORAGE_DRIVER)")
	root.PersistentFlags().StringVar(&a.reportDir, "report-dir", "", "Directory of report files (overrides LIBRARY_REPORT_DIR)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides LIBRARY_LOG_LEVEL)")

	root.AddCommand(
		a.authorCommand(),
		a.collectionCommand(),
		a.bookCommand(),
		&cobra.Command{
			Use:   "report",
			Short: "Write today's report file and print it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return writeReports(printer{w: cmd.OutOrStdout()}, a.mgr)
			},
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive menu",
			Args:  cobra.NoArgs,
			RunE:  a.runShell,
		},
	)
	return root, a.close
}

// open resolves the configuration (environment, then flags) and opens the
// catalog.
func (a *app) open(cmd *cobra.Command, args []string) error {
	cfg, err := library.LoadConfig()
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.driver != "" {
		cfg.Driver = a.driver
	}
	if a.reportDir != "" {
		cfg.ReportDir = a.reportDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	a.mgr, err = library.NewLibraryManager(cfg, library.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	a.logger.Debug("catalog opened", "driver", cfg.Driver, "data_dir", cfg.DataDir)
	return nil
}

func (a *app) close() error {
	if a.mgr == nil {
		return nil
	}
	err := a.mgr.Close()
	a.mgr = nil
	return err
}

func (a *app) runShell(cmd *cobra.Command, args []string) error {
	newShell(a.mgr, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger).Run()
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, &library.InputError{Field: "id", Reason: fmt.Sprintf("invalid number: '%s'", arg)}
	}
	return id, nil
}

// ------------------ Authors ------------------

func (a *app) authorCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "author", Short: "Add, list and view authors"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add an author",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				author, err := a.mgr.AddAuthor(args[0])
				if err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.Success("Author created: %s", author)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all authors",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				printAuthors(printer{w: cmd.OutOrStdout()}, a.mgr.ListAuthors())
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one author",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				author, err := a.mgr.GetAuthor(id)
				if err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.Line("Author: id=%d, name=%s", author.ID, author.Name)
				return nil
			},
		},
	)
	return cmd
}

// ------------------ Collections ------------------

func (a *app) collectionCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "collection", Short: "Add, list and view collections"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.mgr.AddCollection(args[0])
				if err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.Success("Collection created: %s", c)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all collections",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				printCollections(printer{w: cmd.OutOrStdout()}, a.mgr.ListCollections())
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				c, err := a.mgr.GetCollection(id)
				if err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.Line("Collection: id=%d, name=%s", c.ID, c.Name)
				return nil
			},
		},
	)
	return cmd
}

// ------------------ Books ------------------

func (a *app) bookCommand() *cobra.Command {
	var (
		title        string
		authorID     int64
		collectionID int64
		year         int
	)

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a book to a collection",
		Example: `  library book add --title Dune --author 1 --collection 1 --year 1965`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.mgr.AddBook(title, authorID, collectionID, year)
			if err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.Success("Book created: %s", b)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "Book title (required)")
	add.Flags().Int64Var(&authorID, "author", 0, "Author id (required)")
	add.Flags().Int64Var(&collectionID, "collection", 0, "Collection id (required)")
	add.Flags().IntVar(&year, "year", 0, "Publication year")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("author")
	_ = add.MarkFlagRequired("collection")

	cmd := &cobra.Command{Use: "book", Short: "Add, list, view and borrow books"}
	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "list",
			Short: "List all books with their author, collection and status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				printBooks(printer{w: cmd.OutOrStdout()}, a.mgr)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one book",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return printBook(printer{w: cmd.OutOrStdout()}, a.mgr, id)
			},
		},
		&cobra.Command{
			Use:   "borrow <id>",
			Short: "Mark a book as borrowed today",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				b, err := a.mgr.BorrowBook(id)
				if err != nil {
					return err
				}
				printer{w: cmd.OutOrStdout()}.Success("Borrowed '%s' on %s", b.Title, b.BorrowedAt)
				return nil
			},
		},
	)
	return cmd
}
