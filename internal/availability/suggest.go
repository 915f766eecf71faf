package availability

import (
	"math"
	"sort"
	"strings"

	"github.com/beatbook/dj-agency-backend/internal/dj"
)

// Scoring weights for alternate-DJ suggestions.
const (
	specialtyMatchPoints = 40
	ratingBasePoints     = 30
	ratingPenaltyPerStar = 6

	priceNearPoints    = 30 // within 20% of the original rate
	priceClosePoints   = 15 // within 50%
	priceFarPoints     = 5
	priceUnknownPoints = 15 // original rate unknown

	maxSuggestions = 10
)

// Suggestion is one ranked alternate DJ.
type Suggestion struct {
	DJ    *dj.DJ
	Score float64
}

// RankSuggestions scores candidate DJs against the originally requested one
// and returns the top ten. The scoring is a plain weighted sum so results
// are exactly reproducible: specialty match is worth 40 points, rating
// proximity up to 30, and price proximity up to 30.
func RankSuggestions(original *dj.DJ, candidates []*dj.DJ) []Suggestion {
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ID == original.ID {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			DJ:    cand,
			Score: scoreCandidate(original, cand),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		ri, rj := suggestions[i].DJ.Rating, suggestions[j].DJ.Rating
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri > *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return suggestions[i].DJ.Name < suggestions[j].DJ.Name
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func scoreCandidate(original, cand *dj.DJ) float64 {
	var score float64

	if original.Specialty != nil && cand.Specialty != nil &&
		strings.EqualFold(*original.Specialty, *cand.Specialty) {
		score += specialtyMatchPoints
	}

	if original.Rating != nil && cand.Rating != nil {
		closeness := ratingBasePoints - math.Abs(*original.Rating-*cand.Rating)*ratingPenaltyPerStar
		if closeness > 0 {
			score += closeness
		}
	}

	score += priceScore(original.HourlyRate, cand.HourlyRate)
	return score
}

func priceScore(original, cand *float64) float64 {
	if original == nil || *original == 0 {
		return priceUnknownPoints
	}
	if cand == nil {
		return priceFarPoints
	}
	ratio := math.Abs(*cand-*original) / *original
	switch {
	case ratio <= 0.2:
		return priceNearPoints
	case ratio <= 0.5:
		return priceClosePoints
	default:
		return priceFarPoints
	}
}
