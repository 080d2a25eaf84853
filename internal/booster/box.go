package booster

import (
	"fmt"

	"github.com/arcanaland/mtgcalc/internal/card"
)

// BoxOptions controls a box value estimate
type BoxOptions struct {
	Boxes        int     // Boxes to open and average over
	PacksPerBox  int     // Packs in one box
	MinCardValue float64 // Cards worth less are counted as bulk (zero)
}

// BoxStats is the result of opening one or more boxes
type BoxStats struct {
	Boxes        int
	Packs        int
	TotalValue   float64
	AverageValue float64 // Per box
	Distribution map[card.Rarity]int
}

// EstimateBoxValue opens opts.Boxes boxes and averages their card value
func EstimateBoxValue(s *Simulator, b Buckets, opts BoxOptions) (BoxStats, error) {
	if opts.Boxes <= 0 {
		return BoxStats{}, fmt.Errorf("box count must be positive, got %d", opts.Boxes)
	}
	if opts.PacksPerBox <= 0 {
		return BoxStats{}, fmt.Errorf("packs per box must be positive, got %d", opts.PacksPerBox)
	}

	stats := BoxStats{
		Boxes:        opts.Boxes,
		Distribution: make(map[card.Rarity]int),
	}

	for i := 0; i < opts.Boxes; i++ {
		box, err := s.OpenBox(b, opts.PacksPerBox)
		if err != nil {
			return BoxStats{}, fmt.Errorf("box %d: %w", i+1, err)
		}
		for _, pack := range box {
			stats.Packs++
			for _, c := range pack {
				stats.Distribution[c.Rarity]++
				if v := c.Value(); v >= opts.MinCardValue {
					stats.TotalValue += v
				}
			}
		}
	}

	stats.AverageValue = stats.TotalValue / float64(opts.Boxes)
	return stats, nil
}

// PackValue sums the value of every card in pack
func PackValue(pack []card.Card) float64 {
	var total float64
	for _, c := range pack {
		total += c.Value()
	}
	return total
}
