// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Mode describes which platforms contributed to a run.
type Mode string

const (
	ModeBoth          Mode = "both"
	ModeForumOnly     Mode = "forum-only"
	ModeMicroblogOnly Mode = "microblog-only"
	ModeNone          Mode = "none"
)

// ModeFor maps a pair of platform flags to a Mode.
func ModeFor(forum, microblog bool) Mode {
	switch {
	case forum && microblog:
		return ModeBoth
	case forum:
		return ModeForumOnly
	case microblog:
		return ModeMicroblogOnly
	default:
		return ModeNone
	}
}

// ModelsUsed names the search model queried for each platform. An empty
// field means the platform was not searched.
type ModelsUsed struct {
	Forum     string `json:"reddit,omitempty" yaml:"reddit,omitempty"`
	Microblog string `json:"x,omitempty" yaml:"x,omitempty"`
}

// RunStats holds per-stage counts for one run.
type RunStats struct {
	Fetched    map[Platform]int `json:"fetched" yaml:"fetched"`
	Rejected   int              `json:"rejected" yaml:"rejected"`
	Enriched   int              `json:"enriched" yaml:"enriched"`
	Unenriched int              `json:"unenriched" yaml:"unenriched"`
	Duplicates int              `json:"duplicates" yaml:"duplicates"`
}

// RunResult is the complete output of one run: the ranked, deduplicated
// items plus metadata the downstream synthesis step uses to caveat its
// confidence. It is built once and not modified after emission.
type RunResult struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Topic       string    `json:"topic" yaml:"topic"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	FromDate    string    `json:"from_date" yaml:"from_date"`
	ToDate      string    `json:"to_date" yaml:"to_date"`

	Items []ResearchItem `json:"items" yaml:"items"`

	Mode         Mode       `json:"mode" yaml:"mode"`
	ModelsUsed   ModelsUsed `json:"models_used" yaml:"models_used"`
	CoverageNote string     `json:"coverage_note" yaml:"coverage_note"`

	// ProviderErrors maps a platform to the error that removed it from coverage.
	ProviderErrors map[Platform]string `json:"provider_errors,omitempty" yaml:"provider_errors,omitempty"`

	Stats RunStats `json:"stats" yaml:"stats"`
}

// ItemsFor returns the items of one platform, in ranked order.
func (r RunResult) ItemsFor(p Platform) []ResearchItem {
	var out []ResearchItem
	for _, it := range r.Items {
		if it.Platform == p {
			out = append(out, it)
		}
	}
	return out
}
