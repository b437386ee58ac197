// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"

	"github.com/pdiddy/last30days/pkg/types"
)

// EngagementNormalizer maps each item's engagement to [0, 1]. The result is
// index-aligned with items.
type EngagementNormalizer interface {
	Normalize(items []types.ResearchItem) []float64
}

// flatEngagement is assigned when a platform's magnitudes cannot be spread,
// either because it has a single item or all items tie.
const flatEngagement = 0.5

// LogMinMax compresses raw counts with log1p, combines them into one
// magnitude per item, then min-max scales magnitudes within each platform.
type LogMinMax struct{}

// Normalize implements EngagementNormalizer.
func (LogMinMax) Normalize(items []types.ResearchItem) []float64 {
	mags := make([]float64, len(items))
	lo := make(map[types.Platform]float64)
	hi := make(map[types.Platform]float64)
	for i, it := range items {
		m := Magnitude(it)
		mags[i] = m
		if v, ok := lo[it.Platform]; !ok || m < v {
			lo[it.Platform] = m
		}
		if v, ok := hi[it.Platform]; !ok || m > v {
			hi[it.Platform] = m
		}
	}

	out := make([]float64, len(items))
	for i, it := range items {
		span := hi[it.Platform] - lo[it.Platform]
		if span <= 0 {
			out[i] = flatEngagement
			continue
		}
		out[i] = (mags[i] - lo[it.Platform]) / span
	}
	return out
}

// Magnitude is the platform-specific engagement magnitude of an item.
// Forum: 0.55·ln(1+score) + 0.40·ln(1+comments) + 0.05·upvote ratio·10.
// Microblog: 0.55·ln(1+likes) + 0.25·ln(1+reposts) + 0.15·ln(1+replies) +
// 0.05·ln(1+quotes). Views are not counted; the search tool reports them
// inconsistently.
func Magnitude(it types.ResearchItem) float64 {
	e := it.Engagement
	switch it.Platform {
	case types.PlatformForum:
		return 0.55*log1p(e.Score) + 0.40*log1p(e.NumComments) + 0.05*e.UpvoteRatio*10
	case types.PlatformMicroblog:
		return 0.55*log1p(e.Likes) + 0.25*log1p(e.Reposts) + 0.15*log1p(e.Replies) + 0.05*log1p(e.Quotes)
	default:
		return 0
	}
}

func log1p(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log1p(float64(n))
}
