package availability

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatbook/dj-agency-backend/internal/dj"
)

func makeDJ(id, name string, specialty *string, rating, rate *float64) *dj.DJ {
	return &dj.DJ{
		ID:         id,
		Name:       name,
		Specialty:  specialty,
		Rating:     rating,
		HourlyRate: rate,
		IsActive:   true,
	}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestRankSuggestions(t *testing.T) {
	house := strPtr("house")
	techno := strPtr("techno")

	t.Run("specialty match is worth exactly 40 points", func(t *testing.T) {
		original := makeDJ("a", "A", house, f64Ptr(4.5), f64Ptr(100))
		b := makeDJ("b", "B", house, f64Ptr(4.5), f64Ptr(100))
		c := makeDJ("c", "C", techno, f64Ptr(4.5), f64Ptr(100))

		ranked := RankSuggestions(original, []*dj.DJ{b, c})
		require.Len(t, ranked, 2)

		assert.Equal(t, "b", ranked[0].DJ.ID)
		assert.Equal(t, "c", ranked[1].DJ.ID)
		assert.InDelta(t, 40.0, ranked[0].Score-ranked[1].Score, 1e-9)
	})

	t.Run("scoring is deterministic", func(t *testing.T) {
		original := makeDJ("a", "A", house, f64Ptr(4.0), f64Ptr(100))
		candidates := []*dj.DJ{
			makeDJ("b", "B", house, f64Ptr(3.5), f64Ptr(110)),
			makeDJ("c", "C", techno, f64Ptr(4.0), f64Ptr(200)),
		}

		first := RankSuggestions(original, candidates)
		second := RankSuggestions(original, candidates)
		require.Equal(t, first, second)

		// B: 40 (specialty) + 27 (rating diff 0.5) + 30 (within 20%).
		assert.InDelta(t, 97.0, first[0].Score, 1e-9)
		// C: 0 + 30 + 5 (rate 100% off).
		assert.InDelta(t, 35.0, first[1].Score, 1e-9)
	})

	t.Run("rating distance caps at zero points", func(t *testing.T) {
		original := makeDJ("a", "A", nil, f64Ptr(5.0), nil)
		far := makeDJ("b", "B", nil, f64Ptr(0.0), nil)

		ranked := RankSuggestions(original, []*dj.DJ{far})
		require.Len(t, ranked, 1)
		// Rating closeness would be 30 - 5*6 = 0; price unknown adds 15.
		assert.InDelta(t, 15.0, ranked[0].Score, 1e-9)
	})

	t.Run("unknown original rate scores candidates 15 on price", func(t *testing.T) {
		original := makeDJ("a", "A", nil, nil, nil)
		cand := makeDJ("b", "B", nil, nil, f64Ptr(500))

		ranked := RankSuggestions(original, []*dj.DJ{cand})
		require.Len(t, ranked, 1)
		assert.InDelta(t, 15.0, ranked[0].Score, 1e-9)
	})

	t.Run("price bands", func(t *testing.T) {
		original := makeDJ("a", "A", nil, nil, f64Ptr(100))

		cases := []struct {
			rate  float64
			score float64
		}{
			{100, 30}, // exact
			{119, 30}, // within 20%
			{145, 15}, // within 50%
			{300, 5},  // far off
		}
		for _, tc := range cases {
			ranked := RankSuggestions(original, []*dj.DJ{makeDJ("b", "B", nil, nil, f64Ptr(tc.rate))})
			require.Len(t, ranked, 1)
			assert.InDelta(t, tc.score, ranked[0].Score, 1e-9, "rate %v", tc.rate)
		}
	})

	t.Run("original dj is excluded from results", func(t *testing.T) {
		original := makeDJ("a", "A", house, nil, nil)
		ranked := RankSuggestions(original, []*dj.DJ{original, makeDJ("b", "B", house, nil, nil)})
		require.Len(t, ranked, 1)
		assert.Equal(t, "b", ranked[0].DJ.ID)
	})

	t.Run("returns at most ten suggestions", func(t *testing.T) {
		original := makeDJ("a", "A", house, f64Ptr(4.5), f64Ptr(100))

		var candidates []*dj.DJ
		for i := 0; i < 15; i++ {
			candidates = append(candidates, makeDJ(
				fmt.Sprintf("dj-%02d", i), fmt.Sprintf("DJ %02d", i), house, f64Ptr(4.5), f64Ptr(100),
			))
		}

		ranked := RankSuggestions(original, candidates)
		assert.Len(t, ranked, 10)
	})

	t.Run("ties break by rating descending with nulls last", func(t *testing.T) {
		original := makeDJ("a", "A", nil, nil, nil)
		low := makeDJ("b", "B", nil, f64Ptr(3.0), nil)
		high := makeDJ("c", "C", nil, f64Ptr(4.8), nil)
		unrated := makeDJ("d", "D", nil, nil, nil)

		// All three score the same 15 price-unknown points.
		ranked := RankSuggestions(original, []*dj.DJ{unrated, low, high})
		require.Len(t, ranked, 3)
		assert.Equal(t, "c", ranked[0].DJ.ID)
		assert.Equal(t, "b", ranked[1].DJ.ID)
		assert.Equal(t, "d", ranked[2].DJ.ID)
	})
}
