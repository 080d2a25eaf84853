package review

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcanaland/mtgcalc/internal/card"
)

// Entry is one reviewed card
type Entry struct {
	Name   string
	Number string
	Rating string
	Notes  []string
	Color  string      // Color group header the entry appeared under
	Rarity card.Rarity // Filled in by reconciliation
}

// colorGroups are the section headers recognized in freeform reviews
var colorGroups = []string{
	"white", "blue", "black", "red", "green",
	"multicolored", "colorless", "artifacts", "lands",
}

// ParseFile parses a review document, choosing the parser by file extension
func ParseFile(path string) ([]Entry, error) {
	var parse func(io.Reader) ([]Entry, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parse = ParseCSV
	case ".txt":
		parse = ParseText
	default:
		return nil, fmt.Errorf("%w: %s (expected .csv or .txt)", ErrUnrecognizedReviewFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open review: %w", err)
	}
	defer file.Close()

	entries, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse review %s: %w", path, err)
	}
	return entries, nil
}

// ParseCSV reads a tabular review: column 0 is the card name, column 1 the rating.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []Entry
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedReviewFormat, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns, need name and rating",
				ErrUnrecognizedReviewFormat, row, len(record))
		}
		entries = append(entries, Entry{
			Name:   strings.TrimSpace(record[0]),
			Rating: strings.TrimSpace(record[1]),
		})
	}
	return entries, nil
}

// ParseText reads a freeform review. Color group headers ("Red:") set the
// group for following cards; numbered lines ("3 - Lightning Bolt - 4.5")
// open a card; any other line is a note on the open card.
func ParseText(r io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		group   string
		open    *Entry
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if g, ok := colorHeader(line); ok {
			group = g
			continue
		}

		if e, ok := cardLine(line); ok {
			if open != nil {
				entries = append(entries, *open)
			}
			e.Color = group
			open = &e
			continue
		}

		if open != nil {
			open.Notes = append(open.Notes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review: %w", err)
	}

	if open != nil {
		entries = append(entries, *open)
	}
	return entries, nil
}

// colorHeader recognizes lines such as "Black:" or "Multicolored: gold cards"
func colorHeader(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, g := range colorGroups {
		if strings.HasPrefix(lower, g+":") {
			return g, true
		}
	}
	return "", false
}

// cardLine recognizes "<number> - <name> - <rating>" using 2 or 3 dashes
func cardLine(line string) (Entry, bool) {
	dashes := strings.Count(line, "-")
	if dashes != 2 && dashes != 3 {
		return Entry{}, false
	}

	// Prefer the spaced delimiter so hyphenated names survive
	parts := strings.Split(line, " - ")
	if len(parts) != 3 {
		parts = strings.SplitN(line, "-", 3)
	}
	number := strings.TrimSpace(parts[0])
	if !isDecimal(number) {
		return Entry{}, false
	}

	return Entry{
		Number: number,
		Name:   strings.TrimSpace(parts[1]),
		Rating: strings.TrimSpace(parts[2]),
	}, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
