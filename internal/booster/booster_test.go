package booster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/mtgcalc/internal/card"
)

func makeCards(r card.Rarity, n int, price float64) []card.Card {
	cards := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		p := price
		cards = append(cards, card.Card{
			Name:   fmt.Sprintf("%s %02d", r, i),
			Rarity: r,
			Price:  &p,
		})
	}
	return cards
}

// standardBuckets returns 20 commons, 10 uncommons, 5 rares and 2 mythics
func standardBuckets() Buckets {
	var cards []card.Card
	cards = append(cards, makeCards(card.Common, 20, 0.05)...)
	cards = append(cards, makeCards(card.Uncommon, 10, 0.25)...)
	cards = append(cards, makeCards(card.Rare, 5, 1.00)...)
	cards = append(cards, makeCards(card.Mythic, 2, 10.00)...)
	return GroupByRarity(cards)
}

func newSimulator(t *testing.T, seed uint64) *Simulator {
	t.Helper()
	s, err := New(PlayBooster(), NewRand(seed))
	require.NoError(t, err)
	return s
}

func TestGroupByRarity(t *testing.T) {
	b := standardBuckets()

	assert.Len(t, b[card.Common], 20)
	assert.Len(t, b[card.Uncommon], 10)
	assert.Len(t, b[card.Rare], 5)
	assert.Len(t, b[card.Mythic], 2)
	assert.Equal(t, "common 00", b[card.Common][0].Name, "input order is kept")
}

func TestOpen_PackSizeAndDistinctSlots(t *testing.T) {
	b := standardBuckets()

	for seed := uint64(0); seed < 200; seed++ {
		pack, err := newSimulator(t, seed).Open(b)
		require.NoError(t, err)
		require.Len(t, pack, 14)

		commons := map[string]bool{}
		for _, c := range pack[:6] {
			assert.Equal(t, card.Common, c.Rarity)
			assert.False(t, commons[c.Name], "seed %d: common %s drawn twice", seed, c.Name)
			commons[c.Name] = true
		}

		uncommons := map[string]bool{}
		for _, c := range pack[6:9] {
			assert.Equal(t, card.Uncommon, c.Rarity)
			assert.False(t, uncommons[c.Name], "seed %d: uncommon %s drawn twice", seed, c.Name)
			uncommons[c.Name] = true
		}

		assert.Contains(t, []card.Rarity{card.Rare, card.Mythic}, pack[9].Rarity)
	}
}

func TestOpen_DoesNotMutateBuckets(t *testing.T) {
	b := standardBuckets()
	before := standardBuckets()

	s := newSimulator(t, 7)
	for i := 0; i < 50; i++ {
		_, err := s.Open(b)
		require.NoError(t, err)
	}

	assert.Equal(t, before, b)
}

func TestOpen_SameSeedSamePack(t *testing.T) {
	b := standardBuckets()

	first, err := newSimulator(t, 42).Open(b)
	require.NoError(t, err)
	second, err := newSimulator(t, 42).Open(b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOpen_ExactlyEnoughCommons(t *testing.T) {
	var cards []card.Card
	cards = append(cards, makeCards(card.Common, 6, 0)...)
	cards = append(cards, makeCards(card.Uncommon, 3, 0)...)
	cards = append(cards, makeCards(card.Rare, 1, 0)...)
	cards = append(cards, makeCards(card.Mythic, 1, 0)...)

	pack, err := newSimulator(t, 1).Open(GroupByRarity(cards))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, c := range pack[:6] {
		names[c.Name] = true
	}
	assert.Len(t, names, 6, "all six commons must appear once")
}

func TestOpen_EmptyRarityPool(t *testing.T) {
	tests := []struct {
		name    string
		buckets func() Buckets
	}{
		{"no commons", func() Buckets {
			b := standardBuckets()
			delete(b, card.Common)
			return b
		}},
		{"too few commons", func() Buckets {
			b := standardBuckets()
			b[card.Common] = b[card.Common][:5]
			return b
		}},
		{"no uncommons", func() Buckets {
			b := standardBuckets()
			b[card.Uncommon] = nil
			return b
		}},
		{"no rares", func() Buckets {
			b := standardBuckets()
			delete(b, card.Rare)
			delete(b, card.Mythic)
			return b
		}},
		{"no mythics", func() Buckets {
			b := standardBuckets()
			delete(b, card.Mythic)
			return b
		}},
		{"no rares but mythics", func() Buckets {
			b := standardBuckets()
			b[card.Rare] = nil
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSimulator(t, 3).Open(tt.buckets())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyRarityPool), "got %v", err)
		})
	}
}

func TestOpen_EmptyMythicPoolFailsForEverySeed(t *testing.T) {
	b := standardBuckets()
	delete(b, card.Mythic)

	for seed := uint64(0); seed < 50; seed++ {
		_, err := newSimulator(t, seed).Open(b)
		assert.True(t, errors.Is(err, ErrEmptyRarityPool), "seed %d: got %v", seed, err)
	}
}

func TestOpen_NoMythicsNeededWhenChanceIsZero(t *testing.T) {
	layout := PlayBooster()
	layout.MythicChance = 0
	s, err := New(layout, NewRand(9))
	require.NoError(t, err)

	b := standardBuckets()
	delete(b, card.Mythic)

	pack, err := s.Open(b)
	require.NoError(t, err)
	assert.Len(t, pack, 14)
}

func TestOpen_MythicAlwaysWhenChanceIs100(t *testing.T) {
	layout := PlayBooster()
	layout.MythicChance = 100
	s, err := New(layout, NewRand(5))
	require.NoError(t, err)

	pack, err := s.Open(standardBuckets())
	require.NoError(t, err)
	assert.Equal(t, card.Mythic, pack[9].Rarity)
}

func TestWildcardTierDistribution(t *testing.T) {
	layout := PlayBooster()
	layout.MythicChance = 0
	s, err := New(layout, NewRand(11))
	require.NoError(t, err)

	counts := map[card.Rarity]int{}
	const rolls = 11000
	for i := 0; i < rolls; i++ {
		counts[s.wildcardTier()]++
	}

	// 6 of 11 faces are common, 4 uncommon, 1 rare
	assert.InDelta(t, 6000, counts[card.Common], 300)
	assert.InDelta(t, 4000, counts[card.Uncommon], 300)
	assert.InDelta(t, 1000, counts[card.Rare], 150)
	assert.Zero(t, counts[card.Mythic])
}

func TestLayoutValidate(t *testing.T) {
	assert.NoError(t, PlayBooster().Validate())

	mismatch := PlayBooster()
	mismatch.PackSize = 15
	assert.True(t, errors.Is(mismatch.Validate(), ErrPackSizeMismatch))

	negative := PlayBooster()
	negative.Wildcards = -1
	negative.PackSize = 9
	assert.True(t, errors.Is(negative.Validate(), ErrInvalidLayout))

	chance := PlayBooster()
	chance.MythicChance = 101
	assert.True(t, errors.Is(chance.Validate(), ErrInvalidLayout))

	_, err := New(mismatch, NewRand(1))
	assert.True(t, errors.Is(err, ErrPackSizeMismatch))

	_, err = New(PlayBooster(), nil)
	assert.Error(t, err)
}

func TestOpenBox(t *testing.T) {
	box, err := newSimulator(t, 9).OpenBox(standardBuckets(), 36)
	require.NoError(t, err)
	require.Len(t, box, 36)
	for _, pack := range box {
		assert.Len(t, pack, 14)
	}
}
