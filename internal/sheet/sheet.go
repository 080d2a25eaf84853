package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arcanaland/mtgcalc/internal/card"
)

// Group names, in output order
const (
	Black     = "Black"
	Blue      = "Blue"
	Green     = "Green"
	Red       = "Red"
	White     = "White"
	Multi     = "Multi"
	Lands     = "Lands"
	Colorless = "Colorless"
)

// Order is the section order of a cheat sheet
var Order = []string{Black, Blue, Green, Red, White, Multi, Lands}

// colorSymbols maps mana symbols to their group
var colorSymbols = []struct {
	symbol rune
	group  string
}{
	{'B', Black},
	{'U', Blue},
	{'G', Green},
	{'R', Red},
	{'W', White},
}

// Grouping holds cards bucketed for output
type Grouping struct {
	Groups map[string][]card.Card
	// Colorless holds cards whose mana cost names no color; they are not
	// part of the standard sections.
	Colorless []card.Card
}

// Group buckets cards by the colors in their mana cost
func Group(cards []card.Card) Grouping {
	g := Grouping{Groups: make(map[string][]card.Card, len(Order))}

	for _, c := range cards {
		group := GroupOf(c)
		if group == Colorless {
			g.Colorless = append(g.Colorless, c)
			continue
		}
		g.Groups[group] = append(g.Groups[group], c)
	}

	return g
}

// GroupOf returns the group a card belongs to
func GroupOf(c card.Card) string {
	if c.ManaCost == "" {
		return Lands
	}

	found := ""
	for _, cs := range colorSymbols {
		if !strings.ContainsRune(c.ManaCost, cs.symbol) {
			continue
		}
		if found != "" {
			return Multi
		}
		found = cs.group
	}

	if found == "" {
		return Colorless
	}
	return found
}

// Flatten returns every grouped card, the colorless ones included
func (g Grouping) Flatten() []card.Card {
	var out []card.Card
	for _, name := range Order {
		out = append(out, g.Groups[name]...)
	}
	return append(out, g.Colorless...)
}

// WriteCSV writes one section per group: a header row with the group name,
// a (name, rating, rarity) row per card sorted by name, then a blank row.
func WriteCSV(w io.Writer, g Grouping, includeColorless bool) error {
	writer := csv.NewWriter(w)

	sections := Order
	if includeColorless {
		sections = append(append([]string{}, Order...), Colorless)
	}

	for _, name := range sections {
		cards := g.Groups[name]
		if name == Colorless {
			cards = g.Colorless
		}

		sorted := make([]card.Card, len(cards))
		copy(sorted, cards)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

		if err := writer.Write([]string{name}); err != nil {
			return fmt.Errorf("error writing %s header: %w", name, err)
		}
		for _, c := range sorted {
			if err := writer.Write([]string{c.Name, c.Rating, string(c.Rarity)}); err != nil {
				return fmt.Errorf("error writing %s: %w", c.Name, err)
			}
		}
		if err := writer.Write([]string{""}); err != nil {
			return fmt.Errorf("error writing separator: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
