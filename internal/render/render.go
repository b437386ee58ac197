// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes a RunResult in its textual forms: the compact
// display printed after a run, the full Markdown report, the reusable
// context snippet, and JSON and YAML encodings.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/last30days/pkg/types"
)

// contextSourceCount is how many top items the context snippet cites.
const contextSourceCount = 5

// JSON writes res as indented JSON.
func JSON(w io.Writer, res types.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// YAML writes res as YAML.
func YAML(w io.Writer, res types.RunResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}

// Compact writes the short display form: one block per item, best first.
func Compact(w io.Writer, res types.RunResult) {
	fmt.Fprintf(w, "## Research Results: %s\n\n", res.Topic)
	fmt.Fprintf(w, "**Date range:** %s to %s\n", res.FromDate, res.ToDate)
	fmt.Fprintf(w, "**Mode:** %s\n", res.Mode)
	if m := models(res.ModelsUsed); m != "" {
		fmt.Fprintf(w, "**Models:** %s\n", m)
	}
	fmt.Fprintf(w, "**Coverage:** %s\n", res.CoverageNote)
	for _, p := range types.Platforms {
		if msg, ok := res.ProviderErrors[p]; ok {
			fmt.Fprintf(w, "**%s error:** %s\n", p.Label(), msg)
		}
	}
	fmt.Fprintln(w)

	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for _, it := range res.Items {
		fmt.Fprintf(w, "**%s** (score:%.0f) %s (%s) %s\n",
			it.ID, it.Score, source(it), it.Date.Format("2006-01-02"), Engagement(it))
		fmt.Fprintf(w, "  %s\n", it.Title)
		fmt.Fprintf(w, "  %s\n", it.URL)
		if it.Summary != "" && it.Summary != it.Title {
			fmt.Fprintf(w, "  *%s*\n", truncate(it.Summary, 200))
		}
		if len(it.MergedIDs) > 0 {
			fmt.Fprintf(w, "  also: %s\n", strings.Join(it.MergedIDs, ", "))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d items", len(res.Items))
	if res.Stats.Duplicates > 0 {
		fmt.Fprintf(w, " (%d duplicates merged)", res.Stats.Duplicates)
	}
	fmt.Fprintln(w)
}

// Markdown writes the full report: metadata, then each platform's items
// with engagement, evidence text, and top comments.
func Markdown(w io.Writer, res types.RunResult) {
	fmt.Fprintf(w, "# %s - Last 30 Days Research Report\n\n", res.Topic)
	fmt.Fprintf(w, "**Generated:** %s\n", res.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "**Date Range:** %s to %s\n", res.FromDate, res.ToDate)
	fmt.Fprintf(w, "**Mode:** %s\n", res.Mode)
	fmt.Fprintf(w, "**Run:** %s\n\n", res.RunID)

	fmt.Fprintln(w, "## Coverage")
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.CoverageNote)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Models Used")
	fmt.Fprintln(w)
	if res.ModelsUsed.Forum != "" {
		fmt.Fprintf(w, "- **Reddit:** %s\n", res.ModelsUsed.Forum)
	}
	if res.ModelsUsed.Microblog != "" {
		fmt.Fprintf(w, "- **X:** %s\n", res.ModelsUsed.Microblog)
	}
	fmt.Fprintln(w)

	for _, p := range types.Platforms {
		items := res.ItemsFor(p)
		msg, failed := res.ProviderErrors[p]
		if len(items) == 0 && !failed {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", threadsHeading(p))
		if failed {
			fmt.Fprintf(w, "**ERROR:** %s\n\n", msg)
		}
		if len(items) == 0 {
			fmt.Fprintln(w, "*No items in range.*")
			fmt.Fprintln(w)
			continue
		}
		for _, it := range items {
			markdownItem(w, it)
		}
	}

	fmt.Fprintln(w, "## Stats")
	fmt.Fprintln(w)
	for _, p := range types.Platforms {
		if n, ok := res.Stats.Fetched[p]; ok {
			fmt.Fprintf(w, "- %s fetched: %d\n", p.Label(), n)
		}
	}
	fmt.Fprintf(w, "- Rejected at normalization: %d\n", res.Stats.Rejected)
	fmt.Fprintf(w, "- Engagement verified: %d, unverified: %d\n", res.Stats.Enriched, res.Stats.Unenriched)
	fmt.Fprintf(w, "- Duplicates merged: %d\n", res.Stats.Duplicates)
}

func markdownItem(w io.Writer, it types.ResearchItem) {
	fmt.Fprintf(w, "### %s: %s\n\n", it.ID, it.Title)
	fmt.Fprintf(w, "- **Source:** %s\n", source(it))
	fmt.Fprintf(w, "- **URL:** %s\n", it.URL)
	fmt.Fprintf(w, "- **Date:** %s (%s)\n", it.Date.Format("2006-01-02"), it.DateConfidence)
	fmt.Fprintf(w, "- **Score:** %.2f\n", it.Score)
	fmt.Fprintf(w, "- **Engagement:** %s (%s)\n", Engagement(it), it.Engagement.Confidence)
	if len(it.MergedIDs) > 0 {
		fmt.Fprintf(w, "- **Also reported as:** %s\n", strings.Join(it.MergedIDs, ", "))
	}
	if it.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", it.Summary)
	}
	if len(it.TopComments) > 0 {
		fmt.Fprintln(w, "\n**Top comments:**")
		for _, c := range it.TopComments {
			fmt.Fprintf(w, "- (%d) u/%s: %s\n", c.Score, c.Author, c.Excerpt)
		}
	}
	fmt.Fprintln(w)
}

// ContextSnippet writes a short Markdown snippet meant to be pasted into
// later prompts: the topic, coverage caveat, and the top sources.
func ContextSnippet(w io.Writer, res types.RunResult) {
	fmt.Fprintf(w, "# Context: %s (Last 30 Days)\n\n", res.Topic)
	fmt.Fprintf(w, "*Generated %s, %s to %s. %s*\n\n",
		res.GeneratedAt.UTC().Format("2006-01-02"), res.FromDate, res.ToDate, res.CoverageNote)

	fmt.Fprintln(w, "## Key Sources")
	fmt.Fprintln(w)
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "*No sources found.*")
		return
	}
	n := min(contextSourceCount, len(res.Items))
	for _, it := range res.Items[:n] {
		fmt.Fprintf(w, "- [%s] %s: %s (%s)\n", it.ID, source(it), truncate(it.Title, 120), it.URL)
		if it.Summary != "" && it.Summary != it.Title {
			fmt.Fprintf(w, "  - %s\n", truncate(it.Summary, 200))
		}
	}
}

// Engagement formats an item's engagement counts for display.
func Engagement(it types.ResearchItem) string {
	e := it.Engagement
	var parts []string
	switch it.Platform {
	case types.PlatformForum:
		parts = append(parts, fmt.Sprintf("%dpts", e.Score), fmt.Sprintf("%dcmt", e.NumComments))
	case types.PlatformMicroblog:
		parts = append(parts, fmt.Sprintf("%dlikes", e.Likes), fmt.Sprintf("%drt", e.Reposts))
		if e.Replies > 0 {
			parts = append(parts, fmt.Sprintf("%dre", e.Replies))
		}
	}
	s := "[" + strings.Join(parts, ", ") + "]"
	if e.Confidence == types.EngagementUnknown || e.Confidence == types.EngagementEstimated {
		s += " est."
	}
	return s
}

// source names where an item was posted: r/sub or @handle.
func source(it types.ResearchItem) string {
	switch {
	case it.Community == "":
		return it.Platform.Label()
	case it.Platform == types.PlatformForum:
		return "r/" + it.Community
	case it.Platform == types.PlatformMicroblog:
		return "@" + it.Community
	default:
		return it.Community
	}
}

func threadsHeading(p types.Platform) string {
	if p == types.PlatformForum {
		return "Reddit Threads"
	}
	return "X Posts"
}

func models(m types.ModelsUsed) string {
	var parts []string
	if m.Forum != "" {
		parts = append(parts, "Reddit="+m.Forum)
	}
	if m.Microblog != "" {
		parts = append(parts, "X="+m.Microblog)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
