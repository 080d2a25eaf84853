package review

import "errors"

var (
	ErrUnrecognizedReviewFormat = errors.New("unrecognized review format")
	ErrAmbiguousFuzzyMatch      = errors.New("ambiguous fuzzy match")
)
