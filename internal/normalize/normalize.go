// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps provider RawItems onto ResearchItems. It rejects
// items that cannot be cited or fall outside the recency window, and
// assigns per-platform sequential ids in discovery order. Normalize has no
// side effects.
package normalize

import (
	"strings"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/provider"
	"github.com/pdiddy/last30days/pkg/types"
)

// MaxExcerpt bounds title_or_excerpt, in runes.
const MaxExcerpt = 280

// Rejection reasons.
const (
	ReasonMissingURL    = "missing_url"
	ReasonMissingDate   = "missing_date"
	ReasonOutsideWindow = "outside_window"
)

// Rejection records one dropped item.
type Rejection struct {
	Platform types.Platform `json:"platform"`
	URL      string         `json:"url,omitempty"`
	Reason   string         `json:"reason"`
}

// Result holds the accepted items, in input order, and the rejections.
type Result struct {
	Items    []types.ResearchItem
	Rejected []Rejection
}

// RejectedBy counts rejections per reason.
func (r Result) RejectedBy() map[string]int {
	out := make(map[string]int)
	for _, rej := range r.Rejected {
		out[rej.Reason]++
	}
	return out
}

// Normalize converts raw into ResearchItems. Items with no usable URL, no
// parseable date, or a date outside window are rejected. Accepted items are
// numbered per platform (R1, R2, ... X1, X2, ...) in input order; rejected
// items do not consume a sequence number.
func Normalize(raw []provider.RawItem, window dates.Window) Result {
	res := Result{Items: make([]types.ResearchItem, 0, len(raw))}
	seq := make(map[types.Platform]int)

	for _, r := range raw {
		canon, ok := CanonicalURL(r.URL)
		if !ok {
			res.Rejected = append(res.Rejected, Rejection{Platform: r.Platform, URL: r.URL, Reason: ReasonMissingURL})
			continue
		}
		day, ok := dates.ParseDate(r.Date)
		if !ok {
			res.Rejected = append(res.Rejected, Rejection{Platform: r.Platform, URL: canon, Reason: ReasonMissingDate})
			continue
		}
		if !window.Contains(day) {
			res.Rejected = append(res.Rejected, Rejection{Platform: r.Platform, URL: canon, Reason: ReasonOutsideWindow})
			continue
		}

		seq[r.Platform]++
		item := types.ResearchItem{
			ID:             types.FormatItemID(r.Platform, seq[r.Platform]),
			Platform:       r.Platform,
			Title:          Excerpt(headline(r), MaxExcerpt),
			URL:            canon,
			Community:      r.Community,
			Engagement:     r.Engagement,
			Date:           day,
			DateConfidence: types.DateReported,
			Summary:        summary(r),
			Relevance:      r.Relevance,
			TopComments:    r.TopComments,
		}
		if r.DateVerified {
			item.DateConfidence = types.DateVerified
		}
		if item.Engagement.Confidence == "" {
			item.Engagement.Confidence = types.EngagementUnknown
		}
		res.Items = append(res.Items, item)
	}
	return res
}

func headline(r provider.RawItem) string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return strings.TrimSpace(r.Text)
}

// summary is the model's relevance claim, falling back to the item text.
func summary(r provider.RawItem) string {
	if s := strings.TrimSpace(r.WhyRelevant); s != "" {
		return s
	}
	if s := strings.TrimSpace(r.Text); s != "" {
		return s
	}
	return strings.TrimSpace(r.Title)
}

// Excerpt collapses whitespace and bounds s to n runes, ending a truncated
// excerpt with an ellipsis.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
