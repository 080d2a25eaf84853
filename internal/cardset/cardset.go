package cardset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcanaland/mtgcalc/internal/card"
)

// FaceSeparator joins the halves of split and flip card names
const FaceSeparator = "//"

// Index is the fetched card list keyed by lowercased card name.
// Split and flip cards are also reachable by the name of their first half.
type Index struct {
	cards  []card.Card
	byName map[string]int
}

// NewIndex builds an index over cards. When two cards share a name the later one
// replaces the earlier one in its position, so every name maps to exactly one card.
// A first-half alias never shadows a card's own name.
func NewIndex(cards []card.Card) *Index {
	x := &Index{
		cards:  make([]card.Card, 0, len(cards)),
		byName: make(map[string]int, len(cards)),
	}

	for _, c := range cards {
		name := normalize(c.Name)
		if i, ok := x.byName[name]; ok {
			x.cards[i] = c
			continue
		}
		x.byName[name] = len(x.cards)
		x.cards = append(x.cards, c)
	}

	// Add first-half aliases for split and flip cards
	for i, c := range x.cards {
		name := normalize(c.Name)
		if !strings.Contains(name, FaceSeparator) {
			continue
		}
		first := strings.TrimSpace(strings.SplitN(name, FaceSeparator, 2)[0])
		if first == "" {
			continue
		}
		if _, taken := x.byName[first]; !taken {
			x.byName[first] = i
		}
	}

	return x
}

// GetCard gets a card by name, case-insensitively
func (x *Index) GetCard(name string) (card.Card, bool) {
	i, ok := x.byName[normalize(name)]
	if !ok {
		return card.Card{}, false
	}
	return x.cards[i], true
}

// Names returns every lookup key, aliases included, sorted
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.byName))
	for n := range x.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Cards returns the distinct indexed cards in their original order
func (x *Index) Cards() []card.Card {
	out := make([]card.Card, len(x.cards))
	copy(out, x.cards)
	return out
}

// Len returns the number of distinct cards
func (x *Index) Len() int {
	return len(x.cards)
}

// SetRating replaces the rating of the card reachable under name
func (x *Index) SetRating(name, rating string) error {
	i, ok := x.byName[normalize(name)]
	if !ok {
		return fmt.Errorf("card not found: %s", name)
	}
	x.cards[i] = x.cards[i].WithRating(rating)
	return nil
}

// SameCard reports whether two names resolve to the same card
func (x *Index) SameCard(a, b string) bool {
	i, okA := x.byName[normalize(a)]
	j, okB := x.byName[normalize(b)]
	return okA && okB && i == j
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
