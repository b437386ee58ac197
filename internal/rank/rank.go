// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores ResearchItems and orders them. The composite score
// mixes the search model's relevance, a recency decay across the window,
// and engagement normalized within each platform so Reddit votes and X
// likes, which differ by orders of magnitude, are comparable.
package rank

import (
	"math"
	"sort"
	"time"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/pkg/types"
)

// DefaultHalfLifeDays is the age at which the recency weight halves.
const DefaultHalfLifeDays = 14.0

// UnknownEngagementPenalty is subtracted, in score points, from items whose
// engagement could not be verified or reported.
const UnknownEngagementPenalty = 5.0

// Weights are the composite score's component weights. They are expected
// to sum to 1.
type Weights struct {
	Relevance  float64
	Recency    float64
	Engagement float64
}

// DefaultWeights favours engagement, then recency, then relevance.
var DefaultWeights = Weights{Relevance: 0.25, Recency: 0.30, Engagement: 0.45}

// Scorer computes composite scores. Build one with NewScorer: zero Weights,
// HalfLifeDays and Normalizer fall back to the defaults, but Window must be
// set or every item counts as published at the window's end.
type Scorer struct {
	Window       dates.Window
	Weights      Weights
	HalfLifeDays float64
	Normalizer   EngagementNormalizer
}

// NewScorer returns a Scorer with default weights and normalization.
func NewScorer(window dates.Window) *Scorer {
	return &Scorer{Window: window, Weights: DefaultWeights, HalfLifeDays: DefaultHalfLifeDays, Normalizer: LogMinMax{}}
}

// Score returns a copy of items with Score set on every item. Scores lie in
// [0, 100] and are rounded to two decimals. No item is dropped.
func (s *Scorer) Score(items []types.ResearchItem) []types.ResearchItem {
	w := s.Weights
	if w == (Weights{}) {
		w = DefaultWeights
	}
	norm := s.Normalizer
	if norm == nil {
		norm = LogMinMax{}
	}
	eng := norm.Normalize(items)

	out := make([]types.ResearchItem, len(items))
	for i, it := range items {
		v := 100 * (w.Relevance*clamp01(it.Relevance) +
			w.Recency*s.Recency(it.Date) +
			w.Engagement*eng[i])
		if it.Engagement.Confidence == types.EngagementUnknown {
			v -= UnknownEngagementPenalty
		}
		it.Score = round2(math.Max(0, math.Min(100, v)))
		out[i] = it
	}
	return out
}

// Recency returns the weight of an item published on t: 1 at the window's
// end, halving every HalfLifeDays. It decreases monotonically with age and
// never reaches zero.
func (s *Scorer) Recency(t time.Time) float64 {
	hl := s.HalfLifeDays
	if hl <= 0 {
		hl = DefaultHalfLifeDays
	}
	return math.Pow(0.5, s.Window.AgeDays(t)/hl)
}

// Rank scores items and sorts them by descending score, breaking ties by
// id order so identical input always yields identical output.
func (s *Scorer) Rank(items []types.ResearchItem) []types.ResearchItem {
	out := s.Score(items)
	Sort(out)
	return out
}

// Sort orders scored items in place by descending score, then by id.
func Sort(items []types.ResearchItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return types.LessID(items[i].ID, items[j].ID)
	})
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
