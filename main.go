package main

import "os"

func main() {
	root, closeCatalog := newRootCommand()
	err := root.Execute()
	if cerr := closeCatalog(); err == nil {
		err = cerr
	}
	if err != nil {
		printer{w: os.Stderr}.Error("%v", err)
		os.Exit(1)
	}
}
