package booster

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/arcanaland/mtgcalc/internal/card"
)

var (
	ErrEmptyRarityPool  = errors.New("rarity pool out of stock")
	ErrPackSizeMismatch = errors.New("pack slots do not add up to pack size")
	ErrInvalidLayout    = errors.New("invalid pack layout")
)

// Buckets maps a rarity tier to the cards printed at that rarity
type Buckets map[card.Rarity][]card.Card

// GroupByRarity partitions cards by rarity, keeping their order
func GroupByRarity(cards []card.Card) Buckets {
	b := make(Buckets)
	for _, c := range cards {
		b[c.Rarity] = append(b[c.Rarity], c)
	}
	return b
}

// Layout describes the slots of a pack
type Layout struct {
	Commons      int // Drawn without replacement
	Uncommons    int // Drawn without replacement
	Rares        int // Rare or mythic
	Wildcards    int // Any rarity, drawn with replacement
	PackSize     int
	MythicChance int // Percent chance a rare slot upgrades to mythic
}

// PlayBooster returns the play booster layout: 6 commons, 3 uncommons,
// 1 rare or mythic and 2 wildcards.
func PlayBooster() Layout {
	return Layout{
		Commons:      6,
		Uncommons:    3,
		Rares:        1,
		Wildcards:    2,
		PackSize:     14,
		MythicChance: 13,
	}
}

// Validate checks the slot counts against the pack size
func (l Layout) Validate() error {
	if l.Commons < 0 || l.Uncommons < 0 || l.Rares < 0 || l.Wildcards < 0 {
		return fmt.Errorf("%w: slot counts must not be negative", ErrInvalidLayout)
	}
	if l.MythicChance < 0 || l.MythicChance > 100 {
		return fmt.Errorf("%w: mythic chance %d outside 0-100", ErrInvalidLayout, l.MythicChance)
	}
	if total := l.Commons + l.Uncommons + l.Rares + l.Wildcards; total != l.PackSize {
		return fmt.Errorf("%w: %d slots for a pack of %d", ErrPackSizeMismatch, total, l.PackSize)
	}
	return nil
}

// NewRand returns a generator seeded with seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Simulator opens packs using an injected random generator
type Simulator struct {
	layout Layout
	rng    *rand.Rand
}

// New creates a simulator for layout
func New(layout Layout, rng *rand.Rand) (*Simulator, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random generator", ErrInvalidLayout)
	}
	return &Simulator{layout: layout, rng: rng}, nil
}

// Layout returns the simulator's pack layout
func (s *Simulator) Layout() Layout {
	return s.layout
}

// Open draws one pack from b. The buckets are never modified.
func (s *Simulator) Open(b Buckets) ([]card.Card, error) {
	if err := s.checkPools(b); err != nil {
		return nil, err
	}

	pack := make([]card.Card, 0, s.layout.PackSize)

	commons, err := s.drawDistinct(b, card.Common, s.layout.Commons)
	if err != nil {
		return nil, err
	}
	pack = append(pack, commons...)

	uncommons, err := s.drawDistinct(b, card.Uncommon, s.layout.Uncommons)
	if err != nil {
		return nil, err
	}
	pack = append(pack, uncommons...)

	for i := 0; i < s.layout.Rares; i++ {
		c, err := s.drawOne(b, s.rareTier())
		if err != nil {
			return nil, err
		}
		pack = append(pack, c)
	}

	for i := 0; i < s.layout.Wildcards; i++ {
		c, err := s.drawOne(b, s.wildcardTier())
		if err != nil {
			return nil, err
		}
		pack = append(pack, c)
	}

	return pack, nil
}

// OpenBox opens packs packs from b
func (s *Simulator) OpenBox(b Buckets, packs int) ([][]card.Card, error) {
	box := make([][]card.Card, 0, packs)
	for i := 0; i < packs; i++ {
		pack, err := s.Open(b)
		if err != nil {
			return nil, fmt.Errorf("pack %d: %w", i+1, err)
		}
		box = append(box, pack)
	}
	return box, nil
}

// checkPools fails when any tier the layout can reach has too few cards,
// whatever the random rolls turn out to be
func (s *Simulator) checkPools(b Buckets) error {
	l := s.layout
	upper := l.Rares + l.Wildcards
	need := map[card.Rarity]int{
		card.Common:   max(l.Commons, min(l.Wildcards, 1)),
		card.Uncommon: max(l.Uncommons, min(l.Wildcards, 1)),
		card.Rare:     min(upper, 1),
	}
	if l.MythicChance > 0 {
		need[card.Mythic] = min(upper, 1)
	}

	for _, r := range card.Rarities() {
		if n := need[r]; len(b[r]) < n {
			return fmt.Errorf("%w: need %d %s cards, have %d", ErrEmptyRarityPool, n, r, len(b[r]))
		}
	}
	return nil
}

// drawDistinct picks n different cards of rarity r from a private copy of its bucket
func (s *Simulator) drawDistinct(b Buckets, r card.Rarity, n int) ([]card.Card, error) {
	if n == 0 {
		return nil, nil
	}
	pool := b[r]
	if len(pool) < n {
		return nil, fmt.Errorf("%w: need %d %s cards, have %d", ErrEmptyRarityPool, n, r, len(pool))
	}

	work := make([]card.Card, len(pool))
	copy(work, pool)

	drawn := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		j := s.rng.IntN(len(work))
		drawn = append(drawn, work[j])
		last := len(work) - 1
		work[j] = work[last]
		work = work[:last]
	}
	return drawn, nil
}

// drawOne picks a single card of rarity r, with replacement
func (s *Simulator) drawOne(b Buckets, r card.Rarity) (card.Card, error) {
	pool := b[r]
	if len(pool) == 0 {
		return card.Card{}, fmt.Errorf("%w: no %s cards", ErrEmptyRarityPool, r)
	}
	return pool[s.rng.IntN(len(pool))], nil
}

func (s *Simulator) rareTier() card.Rarity {
	if s.rng.IntN(100) < s.layout.MythicChance {
		return card.Mythic
	}
	return card.Rare
}

// wildcardTier rolls 0-10: 9 is a rare slot, 6-8 and 10 uncommon, 0-5 common
func (s *Simulator) wildcardTier() card.Rarity {
	roll := s.rng.IntN(11)
	switch {
	case roll == 9:
		return s.rareTier()
	case roll >= 6:
		return card.Uncommon
	default:
		return card.Common
	}
}
