// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/last30days/pkg/types"
)

func item(id, url, title string, score float64) types.ResearchItem {
	p, _, _ := types.ParseItemID(id)
	return types.ResearchItem{ID: id, Platform: p, URL: url, Title: title, Score: score}
}

func repIDs(r Result) []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.ID
	}
	return out
}

func TestDedupeExactURL(t *testing.T) {
	items := []types.ResearchItem{
		item("X1", "https://x.com/a/status/1", "token bucket per tenant", 80),
		item("X3", "https://x.com/b/status/2", "unrelated post about queues", 60),
		item("X2", "https://x.com/a/status/1", "completely different text", 55),
	}
	res := Deduper{}.Dedupe(items)

	assert.Equal(t, []string{"X1", "X3"}, repIDs(res))
	assert.Equal(t, []string{"X2"}, res.Items[0].MergedIDs)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "X1", res.Duplicates[0].DuplicateOf)
}

func TestDedupeRepresentativeIsHighestScore(t *testing.T) {
	items := []types.ResearchItem{
		item("X2", "https://x.com/a/status/1", "post", 40),
		item("X1", "https://x.com/a/status/1", "post", 90),
	}
	res := Deduper{}.Dedupe(items)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "X1", res.Items[0].ID)
	assert.Equal(t, 90.0, res.Items[0].Score)
	assert.Equal(t, "X1", res.Duplicates[0].DuplicateOf)
}

func TestDedupeTieBreaksByID(t *testing.T) {
	items := []types.ResearchItem{
		item("R10", "https://www.reddit.com/r/a/comments/1", "same", 50),
		item("R2", "https://www.reddit.com/r/a/comments/1", "same", 50),
		item("X1", "https://www.reddit.com/r/a/comments/1", "same", 50),
	}
	res := Deduper{}.Dedupe(items)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "R2", res.Items[0].ID)
	assert.Equal(t, []string{"R10", "X1"}, res.Items[0].MergedIDs)
}

func TestDedupeNearDuplicateText(t *testing.T) {
	items := []types.ResearchItem{
		item("R1", "https://www.reddit.com/r/a/comments/1", "We moved our API rate limiter from Redis INCR to a sliding window log", 70),
		item("X1", "https://x.com/u/status/9", "We moved our API rate limiter from Redis INCR to a sliding-window log!", 65),
		item("X2", "https://x.com/v/status/3", "Sliding window counters versus token buckets explained", 60),
	}
	res := Deduper{}.Dedupe(items)
	assert.Equal(t, []string{"R1", "X2"}, repIDs(res))
	assert.Equal(t, []string{"X1"}, res.Items[0].MergedIDs)
}

func TestDedupeShortExcerptsMatchOnlyByURL(t *testing.T) {
	items := []types.ResearchItem{
		item("X1", "https://x.com/u/status/1", "rate limits", 10),
		item("X2", "https://x.com/u/status/2", "rate limits", 9),
	}
	res := Deduper{}.Dedupe(items)
	assert.Len(t, res.Items, 2)
}

func TestDedupeTransitive(t *testing.T) {
	items := []types.ResearchItem{
		item("R1", "https://a.example/1", "alpha beta gamma delta epsilon", 10),
		item("R2", "https://a.example/2", "alpha beta gamma delta zeta", 30),
		item("R3", "https://a.example/2", "nothing alike here at all", 20),
	}
	// R1 and R2 share 4 of 6 tokens; R2 and R3 share a URL.
	res := Deduper{Threshold: 0.6}.Dedupe(items)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "R2", res.Items[0].ID)
	assert.Equal(t, []string{"R1", "R3"}, res.Items[0].MergedIDs)
	for _, d := range res.Duplicates {
		assert.Equal(t, "R2", d.DuplicateOf)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	items := []types.ResearchItem{
		item("R1", "https://www.reddit.com/r/a/comments/1", "Sliding window vs token bucket for public APIs", 88),
		item("X1", "https://x.com/u/status/1", "Sliding window vs token bucket for public APIs!!", 75),
		item("X2", "https://x.com/u/status/2", "Honor Retry-After in your backoff loop", 60),
		item("X3", "https://x.com/u/status/2", "dup by url", 50),
		item("R2", "https://www.reddit.com/r/b/comments/2", "Nginx limit_req burst tuning notes", 40),
	}
	once := Deduper{}.Dedupe(items)
	twice := Deduper{}.Dedupe(once.Items)

	if diff := cmp.Diff(once.Items, twice.Items); diff != "" {
		t.Fatalf("second pass changed output (-once +twice):\n%s", diff)
	}
	assert.Empty(t, twice.Duplicates)
}

func TestDedupeStable(t *testing.T) {
	items := []types.ResearchItem{
		item("X1", "https://x.com/u/status/1", "a", 10),
		item("X2", "https://x.com/u/status/1", "b", 10),
		item("R1", "https://www.reddit.com/r/a/comments/1", "c", 5),
	}
	first := Deduper{}.Dedupe(items)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Deduper{}.Dedupe(items)); diff != "" {
			t.Fatalf("unstable:\n%s", diff)
		}
	}
}

func TestDedupeNoChains(t *testing.T) {
	items := []types.ResearchItem{
		item("R1", "https://a.example/1", "x", 10),
		item("R2", "https://a.example/1", "y", 20),
		item("R3", "https://a.example/1", "z", 30),
	}
	res := Deduper{}.Dedupe(items)
	reps := make(map[string]types.ResearchItem)
	for _, r := range res.Items {
		assert.Empty(t, r.DuplicateOf)
		reps[r.ID] = r
	}
	for _, d := range res.Duplicates {
		_, ok := reps[d.DuplicateOf]
		assert.True(t, ok, "%s points at non-representative %s", d.ID, d.DuplicateOf)
	}
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	items := []types.ResearchItem{
		item("X1", "https://x.com/u/status/1", "a", 10),
		item("X2", "https://x.com/u/status/1", "b", 5),
	}
	Deduper{}.Dedupe(items)
	assert.Empty(t, items[1].DuplicateOf)
	assert.Empty(t, items[0].MergedIDs)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Café crème recipes", "cafe CREME recipes"))
	assert.Equal(t, 1.0, Similarity("the rate of the limiter", "rate limiter"))
	assert.Equal(t, 0.0, Similarity("", ""))
	assert.InDelta(t, 0.5, Similarity("alpha beta gamma", "alpha beta delta"), 1e-9)
}
