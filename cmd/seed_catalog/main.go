package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"library-catalog/library"
)

// seedBook is one catalog entry: title, author, collection, year.
type seedBook struct {
	title      string
	author     string
	collection string
	year       int
}

var catalog = []seedBook{
	{"Dune", "Frank Herbert", "Sci-Fi", 1965},
	{"Children of Dune", "Frank Herbert", "Sci-Fi", 1976},
	{"Neuromancer", "William Gibson", "Sci-Fi", 1984},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "Sci-Fi", 1969},
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "Fantasy", 1968},
	{"The Fellowship of the Ring", "J.R.R. Tolkien", "Fantasy", 1954},
	{"The Two Towers", "J.R.R. Tolkien", "Fantasy", 1954},
	{"The Return of the King", "J.R.R. Tolkien", "Fantasy", 1955},
	{"Animal Farm", "George Orwell", "Classics", 1945},
	{"1984", "George Orwell", "Classics", 1949},
	{"The Three Musketeers", "Alexandre Dumas", "Classics", 1844},
	{"Romeo and Juliet", "William Shakespeare", "Classics", 1597},
}

func main() {
	cfg, err := library.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty catalog.
	fmt.Println("Cleaning up existing record files...")
	var stale []string
	if cfg.Driver == library.DriverSQLite {
		db := cfg.DatabasePath()
		stale = []string{db, db + "-shm", db + "-wal"}
	} else {
		for _, name := range []string{library.AuthorsFile, library.CollectionsFile, library.BooksFile} {
			stale = append(stale, filepath.Join(cfg.DataDir, name))
		}
	}
	for _, file := range stale {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Cleanup complete.")

	manager, err := library.NewLibraryManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	authorIDs := map[string]int64{}
	collectionIDs := map[string]int64{}
	successCount := 0
	errorCount := 0

	for _, sb := range catalog {
		fmt.Printf("Seeding: %s by %s... ", sb.title, sb.author)

		authorID, ok := authorIDs[sb.author]
		if !ok {
			a, err := manager.AddAuthor(sb.author)
			if err != nil {
				fmt.Printf("ERROR - %v\n", err)
				errorCount++
				continue
			}
			authorID = a.ID
			authorIDs[sb.author] = authorID
		}

		collectionID, ok := collectionIDs[sb.collection]
		if !ok {
			c, err := manager.AddCollection(sb.collection)
			if err != nil {
				fmt.Printf("ERROR - %v\n", err)
				errorCount++
				continue
			}
			collectionID = c.ID
			collectionIDs[sb.collection] = collectionID
		}

		b, err := manager.AddBook(sb.title, authorID, collectionID, sb.year)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}

		fmt.Printf("SUCCESS (ID: %d)\n", b.ID)
		successCount++
	}

	fmt.Printf("\nSeeding complete!\n")
	fmt.Printf("Authors: %d, Collections: %d\n", len(authorIDs), len(collectionIDs))
	fmt.Printf("Successfully seeded: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nSeeded books:")
		fmt.Printf("%-3s %-40s %-25s %-10s\n", "ID", "Title", "Author", "Collection")
		fmt.Println(strings.Repeat("-", 82))
		names := map[int64]string{}
		for name, id := range authorIDs {
			names[id] = name
		}
		shelves := map[int64]string{}
		for name, id := range collectionIDs {
			shelves[id] = name
		}
		for _, b := range manager.ListBooks() {
			fmt.Printf("%-3d %-40s %-25s %-10s\n", b.ID, truncateString(b.Title, 40), truncateString(names[b.AuthorID], 25), shelves[b.CollectionID])
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
