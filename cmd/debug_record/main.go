package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"catalog-sync/feature/catalog/rdf"
)

var idPattern = regexp.MustCompile(`(\d+)`)

// Prints the parsed form of a single RDF record file.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: debug_record <path/to/pgN.rdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	id := 0
	if m := idPattern.FindString(filepath.Base(path)); m != "" {
		id, _ = strconv.Atoi(m)
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rec, err := rdf.Parse(id, f)
	if err != nil {
		log.Fatal(err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
	fmt.Printf("\nformats: %d, subjects: %d, authors: %d\n", len(rec.Formats), len(rec.Subjects), len(rec.Authors))
}
