package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"library-catalog/library"
)

// shell is the numbered menu loop over a reader and a writer. Prompts and
// menus are printed only when a person is typing.
type shell struct {
	mgr         *library.LibraryManager
	sc          *bufio.Scanner
	out         printer
	interactive bool
	logger      *slog.Logger
}

func newShell(mgr *library.LibraryManager, in io.Reader, out io.Writer, logger *slog.Logger) *shell {
	return &shell{
		mgr:         mgr,
		sc:          bufio.NewScanner(in),
		out:         printer{w: out},
		interactive: isTerminal(in),
		logger:      logger.With("session", uuid.NewString()),
	}
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type menuItem struct {
	key   string
	label string
}

var (
	mainMenu = []menuItem{{"1", "Authors"}, {"2", "Collections"}, {"3", "Books"}, {"4", "Reports"}, {"0", "Exit"}}
	subMenu  = []menuItem{{"1", "Add"}, {"2", "List all"}, {"3", "View by id"}, {"9", "Back"}}
	bookMenu = []menuItem{{"1", "Add book"}, {"2", "List all books"}, {"3", "View book by id"}, {"4", "Borrow a book"}, {"9", "Back"}}
)

// Run loops until the user exits or the input ends.
func (s *shell) Run() {
	s.logger.Debug("shell started", "interactive", s.interactive)
	defer s.logger.Debug("shell ended")

	if s.interactive {
		s.out.Section("Library Catalog")
		s.out.Muted("Pick a number and press Enter. Empty input cancels a prompt.")
	}
	for {
		s.showMenu("Main menu", mainMenu)
		choice, ok := s.readLine("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			s.entityMenu("Authors", subMenu, s.addAuthor, s.listAuthors, s.viewAuthor, nil)
		case "2":
			s.entityMenu("Collections", subMenu, s.addCollection, s.listCollections, s.viewCollection, nil)
		case "3":
			s.entityMenu("Books", bookMenu, s.addBook, s.listBooks, s.viewBook, s.borrowBook)
		case "4":
			s.generateReports()
		case "0":
			s.out.Line("Goodbye!")
			return
		case "":
		default:
			s.out.Error("Unknown option '%s'", choice)
		}
	}
}

func (s *shell) entityMenu(title string, items []menuItem, add, list, view, borrow func()) {
	for {
		s.showMenu(title, items)
		choice, ok := s.readLine("> ")
		if !ok {
			return
		}
		switch {
		case choice == "1":
			add()
		case choice == "2":
			list()
		case choice == "3":
			view()
		case choice == "4" && borrow != nil:
			borrow()
		case choice == "9":
			return
		case choice == "":
		default:
			s.out.Error("Unknown option '%s'", choice)
		}
	}
}

func (s *shell) showMenu(title string, items []menuItem) {
	if !s.interactive {
		return
	}
	s.out.Section(title)
	for _, it := range items {
		s.out.Line("  %s) %s", it.key, it.label)
	}
}

// ------------------ Input helpers ------------------

func (s *shell) readLine(prompt string) (string, bool) {
	if s.interactive {
		fmt.Fprint(s.out.w, prompt)
	}
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// readInt64 reads a number. Empty input cancels.
func (s *shell) readInt64(prompt string) (int64, bool) {
	text, ok := s.readLine(prompt)
	if !ok {
		return 0, false
	}
	if text == "" {
		s.out.Line("Cancelled")
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		s.out.Error("Invalid number: '%s'", text)
		return 0, false
	}
	return n, true
}

func (s *shell) readInt(prompt string) (int, bool) {
	n, ok := s.readInt64(prompt)
	return int(n), ok
}

// ------------------ Authors ------------------

func (s *shell) addAuthor() {
	name, ok := s.readLine("Name: ")
	if !ok {
		return
	}
	a, err := s.mgr.AddAuthor(name)
	if err != nil {
		s.out.Error("Failed to create author: %v", err)
		return
	}
	s.out.Success("Author created: %s", a)
}

func (s *shell) listAuthors() {
	printAuthors(s.out, s.mgr.ListAuthors())
}

func (s *shell) viewAuthor() {
	id, ok := s.readInt64("Author id: ")
	if !ok {
		return
	}
	a, err := s.mgr.GetAuthor(id)
	if err != nil {
		s.out.Error("%v", err)
		return
	}
	s.out.Line("Author: id=%d, name=%s", a.ID, a.Name)
}

// ------------------ Collections ------------------

func (s *shell) addCollection() {
	name, ok := s.readLine("Name: ")
	if !ok {
		return
	}
	c, err := s.mgr.AddCollection(name)
	if err != nil {
		s.out.Error("Failed to create collection: %v", err)
		return
	}
	s.out.Success("Collection created: %s", c)
}

func (s *shell) listCollections() {
	printCollections(s.out, s.mgr.ListCollections())
}

func (s *shell) viewCollection() {
	id, ok := s.readInt64("Collection id: ")
	if !ok {
		return
	}
	c, err := s.mgr.GetCollection(id)
	if err != nil {
		s.out.Error("%v", err)
		return
	}
	s.out.Line("Collection: id=%d, name=%s", c.ID, c.Name)
}

// ------------------ Books ------------------

func (s *shell) addBook() {
	if s.interactive {
		s.out.Info("To add a book you need to provide title, author id and collection id.")
		printAuthors(s.out, s.mgr.ListAuthors())
		printCollections(s.out, s.mgr.ListCollections())
	}

	title, ok := s.readLine("Title: ")
	if !ok {
		return
	}
	if title == "" {
		s.out.Error("Title cannot be empty")
		return
	}
	authorID, ok := s.readInt64("Author id: ")
	if !ok {
		return
	}
	collectionID, ok := s.readInt64("Collection id: ")
	if !ok {
		return
	}
	year, ok := s.readInt("Publication year: ")
	if !ok {
		return
	}

	b, err := s.mgr.AddBook(title, authorID, collectionID, year)
	if err != nil {
		s.out.Error("Failed to create book: %v", err)
		return
	}
	s.out.Success("Book created: %s", b)
}

func (s *shell) listBooks() {
	printBooks(s.out, s.mgr)
}

func (s *shell) viewBook() {
	id, ok := s.readInt64("Book id: ")
	if !ok {
		return
	}
	if err := printBook(s.out, s.mgr, id); err != nil {
		s.out.Error("%v", err)
	}
}

func (s *shell) borrowBook() {
	id, ok := s.readInt64("Book id to borrow: ")
	if !ok {
		return
	}
	b, err := s.mgr.BorrowBook(id)
	if err != nil {
		s.out.Error("Failed to borrow book: %v", err)
		return
	}
	s.out.Success("Borrowed '%s' on %s", b.Title, b.BorrowedAt)
}

// ------------------ Reports ------------------

func (s *shell) generateReports() {
	if err := writeReports(s.out, s.mgr); err != nil {
		s.out.Error("Failed to generate reports: %v", err)
	}
}

// ------------------ Shared rendering ------------------

func printAuthors(out printer, authors []library.Author) {
	if len(authors) == 0 {
		out.Info("No authors found.")
		return
	}
	rows := make([][]string, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, []string{strconv.FormatInt(a.ID, 10), a.Name})
	}
	out.Table([]string{"ID", "Name"}, rows)
}

func printCollections(out printer, collections []library.Collection) {
	if len(collections) == 0 {
		out.Info("No collections found.")
		return
	}
	rows := make([][]string, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name})
	}
	out.Table([]string{"ID", "Name"}, rows)
}

// nameIndex maps author and collection ids to names for book listings.
func nameIndex(mgr *library.LibraryManager) (authors, collections map[int64]string) {
	authors = make(map[int64]string)
	for _, a := range mgr.ListAuthors() {
		authors[a.ID] = a.Name
	}
	collections = make(map[int64]string)
	for _, c := range mgr.ListCollections() {
		collections[c.ID] = c.Name
	}
	return authors, collections
}

func nameOr(names map[int64]string, id int64) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "<unknown>"
}

func printBooks(out printer, mgr *library.LibraryManager) {
	books := mgr.ListBooks()
	if len(books) == 0 {
		out.Info("No books found.")
		return
	}
	authors, collections := nameIndex(mgr)
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		status := "available"
		if b.IsBorrowed {
			status = "borrowed " + b.BorrowedAt.String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			nameOr(authors, b.AuthorID),
			nameOr(collections, b.CollectionID),
			strconv.Itoa(b.PublicationYear),
			status,
		})
	}
	out.Table([]string{"ID", "Title", "Author", "Collection", "Year", "Status"}, rows)
}

func printBook(out printer, mgr *library.LibraryManager, id int64) error {
	b, err := mgr.GetBook(id)
	if err != nil {
		return err
	}
	authors, collections := nameIndex(mgr)
	out.Line("%s", library.PrettyBook(b, nameOr(authors, b.AuthorID), nameOr(collections, b.CollectionID)))
	return nil
}

// writeReports runs a report and prints it. When only the file write fails
// the reports are still shown before the error is returned.
func writeReports(out printer, mgr *library.LibraryManager) error {
	rep, err := mgr.GenerateReports()
	if err != nil && !errors.Is(err, library.ErrReportWrite) {
		return err
	}
	if len(rep.Collections) == 0 {
		out.Info("No collections found.")
	} else {
		fmt.Fprint(out.w, library.RenderReport(rep.Collections, rep.GeneratedAt))
	}
	if err != nil {
		return err
	}
	out.Success("Report written to %s", rep.Path)
	return nil
}
