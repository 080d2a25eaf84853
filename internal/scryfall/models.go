package scryfall

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/arcanaland/mtgcalc/internal/card"
)

var (
	// ErrNetwork reports a failed request: transport error or non-2xx status.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedResponse reports a response that does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// Unwrap lets API errors match ErrNetwork.
func (e *APIError) Unwrap() error {
	return ErrNetwork
}

// cardPage is one page of a paginated card search.
type cardPage struct {
	Object   string     `json:"object"`
	HasMore  bool       `json:"has_more"`
	NextPage string     `json:"next_page,omitempty"`
	Data     *[]rawCard `json:"data"`
}

// setList is the response of the sets endpoint.
type setList struct {
	Object string    `json:"object"`
	Data   *[]rawSet `json:"data"`
}

// rawCard holds the card fields mtgcalc reads from a Scryfall card object.
type rawCard struct {
	Name       string    `json:"name"`
	FlavorName string    `json:"flavor_name,omitempty"`
	Rarity     string    `json:"rarity"`
	ManaCost   *string   `json:"mana_cost,omitempty"`
	TypeLine   string    `json:"type_line"`
	Set        string    `json:"set"`
	Prices     rawPrices `json:"prices"`
	CardFaces  []rawFace `json:"card_faces,omitempty"`
}

// rawFace represents one face of a multi-faced card.
type rawFace struct {
	Name     string `json:"name"`
	ManaCost string `json:"mana_cost"`
	TypeLine string `json:"type_line"`
}

// rawPrices holds the USD prices; the API sends them as nullable strings.
type rawPrices struct {
	USD     *string `json:"usd"`
	USDFoil *string `json:"usd_foil"`
}

// rawSet holds the set fields mtgcalc reads from a Scryfall set object.
type rawSet struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	CardCount  int    `json:"card_count"`
	ReleasedAt string `json:"released_at"`
	SetType    string `json:"set_type"`
	Block      string `json:"block"`
	SearchURI  string `json:"search_uri"`
}

// mapCard converts a raw card into one Card per face. Records without a
// top-level mana cost but with faces are double-faced and split; each face
// keeps everything except its own name and mana cost.
func mapCard(rc rawCard) ([]card.Card, error) {
	name := rc.Name
	if rc.FlavorName != "" {
		name = rc.FlavorName
	}
	if name == "" {
		return nil, fmt.Errorf("%w: card record missing name", ErrMalformedResponse)
	}
	if rc.Rarity == "" {
		return nil, fmt.Errorf("%w: card %q missing rarity", ErrMalformedResponse, name)
	}

	price, err := rc.Prices.price()
	if err != nil {
		return nil, fmt.Errorf("%w: card %q: %v", ErrMalformedResponse, name, err)
	}

	base := card.Card{
		Name:     name,
		Rarity:   card.Rarity(rc.Rarity),
		Price:    price,
		TypeLine: rc.TypeLine,
		SetCode:  rc.Set,
	}

	if rc.ManaCost == nil && len(rc.CardFaces) > 0 {
		cards := make([]card.Card, 0, len(rc.CardFaces))
		for i, face := range rc.CardFaces {
			if face.Name == "" {
				return nil, fmt.Errorf("%w: card %q face %d missing name", ErrMalformedResponse, name, i)
			}
			c := base
			c.Name = face.Name
			c.ManaCost = face.ManaCost
			if c.TypeLine == "" {
				c.TypeLine = face.TypeLine
			}
			if c.TypeLine == "" {
				return nil, fmt.Errorf("%w: card %q missing type line", ErrMalformedResponse, face.Name)
			}
			cards = append(cards, c)
		}
		return cards, nil
	}

	if base.TypeLine == "" {
		return nil, fmt.Errorf("%w: card %q missing type line", ErrMalformedResponse, name)
	}
	if rc.ManaCost != nil {
		base.ManaCost = *rc.ManaCost
	}
	return []card.Card{base}, nil
}

// price returns the USD price, falling back to the foil price.
func (p rawPrices) price() (*float64, error) {
	for _, s := range []*string{p.USD, p.USDFoil} {
		if s == nil || *s == "" {
			continue
		}
		v, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q", *s)
		}
		return &v, nil
	}
	return nil, nil
}

func mapSet(rs rawSet) (card.Set, error) {
	if rs.Code == "" {
		return card.Set{}, fmt.Errorf("%w: set record missing code", ErrMalformedResponse)
	}
	if rs.Name == "" {
		return card.Set{}, fmt.Errorf("%w: set %q missing name", ErrMalformedResponse, rs.Code)
	}
	if rs.SetType == "" {
		return card.Set{}, fmt.Errorf("%w: set %q missing set_type", ErrMalformedResponse, rs.Code)
	}
	return card.Set{
		Name:       rs.Name,
		Code:       rs.Code,
		CardCount:  rs.CardCount,
		ReleasedAt: rs.ReleasedAt,
		SetType:    rs.SetType,
		Block:      rs.Block,
		SearchURI:  rs.SearchURI,
	}, nil
}
