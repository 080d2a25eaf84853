package card

import "strings"

// Rarity is the printed rarity tier of a card
type Rarity string

const (
	Common   Rarity = "common"
	Uncommon Rarity = "uncommon"
	Rare     Rarity = "rare"
	Mythic   Rarity = "mythic"
	Special  Rarity = "special"
	Bonus    Rarity = "bonus"
)

// Rarities returns the booster tiers from lowest to highest
func Rarities() []Rarity {
	return []Rarity{Common, Uncommon, Rare, Mythic}
}

// Card represents a single card face as printed in a set
type Card struct {
	Name     string   // Face name (or flavor name for special guests)
	Rarity   Rarity   // Rarity tier
	Price    *float64 // USD price, nil when the API has none
	ManaCost string   // Mana cost tokens, e.g. {1}{R}{R}; empty for lands
	TypeLine string   // Full type line
	Rating   string   // Review rating, empty until a review is applied
	SetCode  string   // Set the card was fetched from
}

// Type returns the first word of the type line
func (c Card) Type() string {
	fields := strings.Fields(c.TypeLine)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Value returns the card's price, or 0 when it has none
func (c Card) Value() float64 {
	if c.Price == nil {
		return 0
	}
	return *c.Price
}

// WithRating returns a copy of the card carrying the given rating
func (c Card) WithRating(rating string) Card {
	c.Rating = rating
	return c
}

// Set represents a released card set
type Set struct {
	Name       string
	Code       string
	CardCount  int
	ReleasedAt string
	SetType    string
	Block      string
	SearchURI  string
}
