package review

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/arcanaland/mtgcalc/internal/card"
	"github.com/arcanaland/mtgcalc/internal/cardset"
)

// DefaultThreshold is the largest edit distance accepted as a typo
const DefaultThreshold = 4

// Match is a review entry resolved to a card
type Match struct {
	Entry        Entry
	Card         card.Card // Card with the entry's rating applied
	ReviewedName string    // Name as written in the review
	Distance     int       // 0 for exact matches
}

// Fuzzy reports whether the match needed the edit distance fallback
func (m Match) Fuzzy() bool {
	return m.Distance > 0
}

// Ambiguity is a review entry equally close to more than one card
type Ambiguity struct {
	Entry      Entry
	Candidates []string
	Distance   int
}

// Report holds the reconciliation results
type Report struct {
	Found     []Match
	NotFound  []Entry
	Ambiguous []Ambiguity
}

// Err returns an error wrapping ErrAmbiguousFuzzyMatch when any entry was ambiguous
func (r Report) Err() error {
	if len(r.Ambiguous) == 0 {
		return nil
	}
	details := make([]string, 0, len(r.Ambiguous))
	for _, a := range r.Ambiguous {
		details = append(details, fmt.Sprintf("%q matches %s", a.Entry.Name, strings.Join(a.Candidates, ", ")))
	}
	return fmt.Errorf("%w: %s", ErrAmbiguousFuzzyMatch, strings.Join(details, "; "))
}

// Reconciler matches review entries to fetched cards
type Reconciler struct {
	Threshold int
	Distance  func(a, b string) int
	logger    *zap.Logger
}

// NewReconciler creates a reconciler using Levenshtein distance
func NewReconciler(threshold int, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		Threshold: threshold,
		Distance:  levenshtein.ComputeDistance,
		logger:    logger,
	}
}

// Reconcile resolves every entry against index by exact name, then by the
// closest name within Threshold edits. Resolved entries write their rating
// onto the card in index.
func (rc *Reconciler) Reconcile(entries []Entry, index *cardset.Index) Report {
	var report Report
	names := index.Names()

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			report.NotFound = append(report.NotFound, e)
			continue
		}

		key := strings.ToLower(strings.TrimSpace(e.Name))
		distance := 0

		if _, ok := index.GetCard(key); !ok {
			candidates, best := rc.closest(key, names, index)
			switch {
			case len(candidates) == 0:
				report.NotFound = append(report.NotFound, e)
				continue
			case len(candidates) > 1:
				rc.logger.Warn("Ambiguous review entry",
					zap.String("name", e.Name),
					zap.Strings("candidates", candidates),
					zap.Int("distance", best))
				report.Ambiguous = append(report.Ambiguous, Ambiguity{
					Entry:      e,
					Candidates: candidates,
					Distance:   best,
				})
				continue
			}
			key = candidates[0]
			distance = best
		}

		m, err := rc.apply(e, key, distance, index)
		if err != nil {
			rc.logger.Error("Could not apply review entry", zap.String("name", e.Name), zap.Error(err))
			report.NotFound = append(report.NotFound, e)
			continue
		}
		report.Found = append(report.Found, m)
	}

	return report
}

// closest returns the names at the smallest distance within the threshold,
// one per distinct card
func (rc *Reconciler) closest(key string, names []string, index *cardset.Index) ([]string, int) {
	best := rc.Threshold + 1
	var candidates []string

	for _, n := range names {
		d := rc.Distance(key, n)
		if d > rc.Threshold || d > best {
			continue
		}
		if d < best {
			best = d
			candidates = candidates[:0]
		}
		duplicate := false
		for _, c := range candidates {
			if index.SameCard(c, n) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			candidates = append(candidates, n)
		}
	}

	return candidates, best
}

// apply writes the entry's rating onto the card under key
func (rc *Reconciler) apply(e Entry, key string, distance int, index *cardset.Index) (Match, error) {
	if err := index.SetRating(key, e.Rating); err != nil {
		return Match{}, err
	}
	c, ok := index.GetCard(key)
	if !ok {
		return Match{}, fmt.Errorf("card not found: %s", key)
	}

	reviewed := e.Name
	e.Name = c.Name
	e.Rarity = c.Rarity

	if distance > 0 {
		rc.logger.Debug("Fuzzy matched review entry",
			zap.String("reviewed", reviewed),
			zap.String("card", c.Name),
			zap.Int("distance", distance))
	}

	return Match{
		Entry:        e,
		Card:         c,
		ReviewedName: reviewed,
		Distance:     distance,
	}, nil
}
