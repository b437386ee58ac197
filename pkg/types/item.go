// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the last30days pipeline.
// ResearchItem is the unit of evidence that flows from normalization through
// ranking and dedupe to the emitted report; RunResult owns one run's items
// and metadata.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Platform identifies the community a ResearchItem was discovered on.
type Platform string

const (
	// PlatformForum is Reddit, searched through the OpenAI web_search tool.
	PlatformForum Platform = "reddit"

	// PlatformMicroblog is X, searched through the xAI x_search tool.
	PlatformMicroblog Platform = "x"
)

// Platforms lists every platform in id-ordering precedence.
var Platforms = []Platform{PlatformForum, PlatformMicroblog}

// IDPrefix returns the per-platform item id prefix ("R" or "X").
func (p Platform) IDPrefix() string {
	switch p {
	case PlatformForum:
		return "R"
	case PlatformMicroblog:
		return "X"
	default:
		return "?"
	}
}

// Label returns a display name for the platform.
func (p Platform) Label() string {
	switch p {
	case PlatformForum:
		return "Reddit"
	case PlatformMicroblog:
		return "X"
	default:
		return string(p)
	}
}

// rank orders platforms for deterministic tie-breaks.
func (p Platform) rank() int {
	for i, q := range Platforms {
		if p == q {
			return i
		}
	}
	return len(Platforms)
}

// EngagementConfidence records how trustworthy an Engagement bundle is.
type EngagementConfidence string

const (
	// EngagementVerified means counts were fetched from the platform itself.
	EngagementVerified EngagementConfidence = "verified"

	// EngagementReported means counts came from the microblog search tool,
	// which reads them from the platform and is not re-fetched.
	EngagementReported EngagementConfidence = "reported"

	// EngagementEstimated means the search model guessed the counts.
	EngagementEstimated EngagementConfidence = "estimated"

	// EngagementUnknown means enrichment failed; any counts are the model's
	// unverified estimate.
	EngagementUnknown EngagementConfidence = "unknown"
)

// Engagement is the platform-native popularity signal. Forum items use
// Score, NumComments and UpvoteRatio; microblog items use Likes, Reposts,
// Replies, Quotes and Views.
type Engagement struct {
	Score       int     `json:"score,omitempty" yaml:"score,omitempty"`
	NumComments int     `json:"num_comments,omitempty" yaml:"num_comments,omitempty"`
	UpvoteRatio float64 `json:"upvote_ratio,omitempty" yaml:"upvote_ratio,omitempty"`

	Likes   int `json:"likes,omitempty" yaml:"likes,omitempty"`
	Reposts int `json:"reposts,omitempty" yaml:"reposts,omitempty"`
	Replies int `json:"replies,omitempty" yaml:"replies,omitempty"`
	Quotes  int `json:"quotes,omitempty" yaml:"quotes,omitempty"`
	Views   int `json:"views,omitempty" yaml:"views,omitempty"`

	Confidence EngagementConfidence `json:"confidence" yaml:"confidence"`
}

// Comment is a top-level forum comment captured during enrichment.
type Comment struct {
	Author  string `json:"author" yaml:"author"`
	Score   int    `json:"score" yaml:"score"`
	Excerpt string `json:"excerpt" yaml:"excerpt"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DateConfidence records where an item's date came from.
type DateConfidence string

const (
	// DateVerified is a date read from the platform during enrichment.
	DateVerified DateConfidence = "verified"

	// DateReported is a date reported by the search model.
	DateReported DateConfidence = "reported"
)

// ResearchItem is one piece of research evidence.
type ResearchItem struct {
	// ID is unique within a run: platform prefix plus discovery sequence (R1, X3).
	ID string `json:"id" yaml:"id"`

	Platform Platform `json:"platform" yaml:"platform"`

	// Title is the thread title or the post excerpt, bounded in length.
	Title string `json:"title_or_excerpt" yaml:"title_or_excerpt"`

	// URL is the canonical link to the source content.
	URL string `json:"url" yaml:"url"`

	// Community is the subreddit for forum items and the author handle for
	// microblog items.
	Community string `json:"community,omitempty" yaml:"community,omitempty"`

	Engagement Engagement `json:"engagement" yaml:"engagement"`

	// Date is the publication day; always inside the run's recency window.
	Date           time.Time      `json:"recency" yaml:"recency"`
	DateConfidence DateConfidence `json:"date_confidence" yaml:"date_confidence"`

	// Summary is the excerpt or claim text reported by the search model.
	Summary string `json:"raw_model_summary" yaml:"raw_model_summary"`

	// Relevance is the search model's own 0-1 relevance judgment.
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// Score is the composite rank score, set only by the ranker.
	Score float64 `json:"score" yaml:"score"`

	// DuplicateOf points at the representative item; set only by dedupe.
	DuplicateOf string `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`

	// MergedIDs lists the ids collapsed into this representative.
	MergedIDs []string `json:"merged_ids,omitempty" yaml:"merged_ids,omitempty"`

	TopComments []Comment `json:"top_comments,omitempty" yaml:"top_comments,omitempty"`
}

// FormatItemID builds the id for the seq-th (1-based) item of a platform.
func FormatItemID(p Platform, seq int) string {
	return p.IDPrefix() + strconv.Itoa(seq)
}

// ParseItemID splits an id into its platform and sequence number.
func ParseItemID(id string) (Platform, int, error) {
	if len(id) < 2 {
		return "", 0, fmt.Errorf("invalid item id %q", id)
	}
	seq, err := strconv.Atoi(id[1:])
	if err != nil || seq < 1 {
		return "", 0, fmt.Errorf("invalid item id %q", id)
	}
	for _, p := range Platforms {
		if strings.EqualFold(p.IDPrefix(), id[:1]) {
			return p, seq, nil
		}
	}
	return "", 0, fmt.Errorf("invalid item id %q: unknown platform prefix", id)
}

// LessID orders ids by platform precedence, then numerically by sequence, so
// R2 sorts before R10 and every forum id before any microblog id. Malformed
// ids sort last, lexically.
func LessID(a, b string) bool {
	pa, sa, errA := ParseItemID(a)
	pb, sb, errB := ParseItemID(b)
	switch {
	case errA != nil && errB != nil:
		return a < b
	case errA != nil:
		return false
	case errB != nil:
		return true
	}
	if pa != pb {
		return pa.rank() < pb.rank()
	}
	return sa < sb
}
