// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/pkg/types"
)

var (
	now    = time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	window = dates.NewWindow(now, 30)
)

func forumItem(id string, score int, daysAgo int) types.ResearchItem {
	return types.ResearchItem{
		ID:         id,
		Platform:   types.PlatformForum,
		URL:        "https://www.reddit.com/r/a/comments/" + id,
		Date:       window.To.AddDate(0, 0, -daysAgo),
		Relevance:  0.8,
		Engagement: types.Engagement{Score: score, Confidence: types.EngagementVerified},
	}
}

func microItem(id string, likes int, daysAgo int) types.ResearchItem {
	return types.ResearchItem{
		ID:         id,
		Platform:   types.PlatformMicroblog,
		URL:        "https://x.com/u/status/" + id,
		Date:       window.To.AddDate(0, 0, -daysAgo),
		Relevance:  0.8,
		Engagement: types.Engagement{Likes: likes, Confidence: types.EngagementReported},
	}
}

func ids(items []types.ResearchItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRankOrdersByEngagement(t *testing.T) {
	items := []types.ResearchItem{
		forumItem("R1", 10, 3),
		forumItem("R2", 50, 3),
		forumItem("R3", 200, 3),
		forumItem("R4", 5, 3),
		forumItem("R5", 500, 3),
	}
	got := NewScorer(window).Rank(items)
	assert.Equal(t, []string{"R5", "R3", "R2", "R1", "R4"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRankDeterministic(t *testing.T) {
	items := []types.ResearchItem{
		forumItem("R1", 10, 1),
		forumItem("R2", 10, 1),
		forumItem("R10", 10, 1),
		forumItem("R3", 300, 20),
		microItem("X1", 1000, 2),
		microItem("X2", 1000, 2),
		microItem("X3", 4, 29),
	}
	s := NewScorer(window)
	want := s.Rank(items)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]types.ResearchItem(nil), items...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := s.Rank(shuffled)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("rank not deterministic (-want +got):\n%s", diff)
		}
	}

	// Tied items fall back to numeric id order.
	pos := make(map[string]int)
	for i, it := range want {
		pos[it.ID] = i
	}
	assert.Less(t, pos["R1"], pos["R2"])
	assert.Less(t, pos["R2"], pos["R10"])
	assert.Less(t, pos["X1"], pos["X2"])
}

func TestRankNeverDropsAndPopulatesScore(t *testing.T) {
	items := []types.ResearchItem{forumItem("R1", 0, 0), microItem("X1", 0, 30)}
	got := NewScorer(window).Rank(items)
	require.Len(t, got, 2)
	for _, it := range got {
		assert.Greater(t, it.Score, 0.0)
		assert.LessOrEqual(t, it.Score, 100.0)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	items := []types.ResearchItem{forumItem("R2", 1, 1), forumItem("R1", 100, 1)}
	NewScorer(window).Rank(items)
	assert.Equal(t, "R2", items[0].ID)
	assert.Zero(t, items[0].Score)
}

func TestRecencyDecay(t *testing.T) {
	s := NewScorer(window)
	assert.InDelta(t, 1.0, s.Recency(window.To), 1e-9)
	assert.InDelta(t, 0.5, s.Recency(window.To.AddDate(0, 0, -14)), 1e-9)

	prev := 2.0
	for d := 0; d <= 30; d++ {
		r := s.Recency(window.To.AddDate(0, 0, -d))
		assert.Less(t, r, prev, "day %d", d)
		assert.Greater(t, r, 0.0, "day %d", d)
		prev = r
	}
}

func TestRecencyRaisesScore(t *testing.T) {
	got := NewScorer(window).Score([]types.ResearchItem{forumItem("R1", 10, 1), forumItem("R2", 10, 29)})
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestUnknownEngagementPenalty(t *testing.T) {
	known := forumItem("R1", 10, 5)
	unknown := forumItem("R2", 10, 5)
	unknown.Engagement.Confidence = types.EngagementUnknown

	got := NewScorer(window).Score([]types.ResearchItem{known, unknown})
	assert.InDelta(t, UnknownEngagementPenalty, got[0].Score-got[1].Score, 0.011)
}

func TestLogMinMax(t *testing.T) {
	items := []types.ResearchItem{
		forumItem("R1", 10, 0),
		forumItem("R2", 1000, 0),
		microItem("X1", 50000, 0),
		microItem("X2", 5, 0),
		microItem("X3", 500, 0),
	}
	got := LogMinMax{}.Normalize(items)
	assert.InDelta(t, 0, got[0], 1e-9)
	assert.InDelta(t, 1, got[1], 1e-9)
	assert.InDelta(t, 1, got[2], 1e-9)
	assert.InDelta(t, 0, got[3], 1e-9)
	assert.Greater(t, got[4], 0.0)
	assert.Less(t, got[4], 1.0)
}

func TestLogMinMaxFlatPlatform(t *testing.T) {
	got := LogMinMax{}.Normalize([]types.ResearchItem{forumItem("R1", 10, 0), microItem("X1", 3, 0), microItem("X2", 3, 0)})
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, got)
}

type constNormalizer float64

func (c constNormalizer) Normalize(items []types.ResearchItem) []float64 {
	out := make([]float64, len(items))
	for i := range out {
		out[i] = float64(c)
	}
	return out
}

func TestSwappableNormalizer(t *testing.T) {
	s := NewScorer(window)
	s.Normalizer = constNormalizer(1)
	s.Weights = Weights{Engagement: 1}
	got := s.Score([]types.ResearchItem{forumItem("R1", 0, 0)})
	assert.Equal(t, 100.0, got[0].Score)
}

func TestMagnitudeMonotonic(t *testing.T) {
	assert.Less(t, Magnitude(forumItem("R1", 5, 0)), Magnitude(forumItem("R2", 6, 0)))
	assert.Less(t, Magnitude(microItem("X1", 5, 0)), Magnitude(microItem("X2", 6, 0)))
	assert.Zero(t, Magnitude(types.ResearchItem{Platform: "other"}))
}

func TestScorerWithWindowMatchesNewScorer(t *testing.T) {
	items := []types.ResearchItem{forumItem("R1", 10, 2), forumItem("R2", 300, 20), microItem("X1", 50, 5)}
	want := NewScorer(window).Score(items)
	got := (&Scorer{Window: window}).Score(items)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scores differ (-want +got):\n%s", diff)
	}
}
