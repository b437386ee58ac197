// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe collapses ResearchItems that reference the same thread,
// post, or claim. Two items are duplicates when their canonical URLs are
// equal or their normalized title_or_excerpt token sets overlap by at least
// the similarity threshold (Jaccard). Duplicate groups are transitive.
package dedupe

import (
	"sort"

	"github.com/pdiddy/last30days/pkg/types"
)

const (
	// DefaultThreshold is the minimum token Jaccard similarity for two
	// excerpts to be judged the same claim.
	DefaultThreshold = 0.7

	// DefaultMinTokens is the token count each side needs before text
	// similarity is considered; shorter excerpts only match by URL.
	DefaultMinTokens = 3
)

// Deduper groups duplicates. The zero value uses the defaults.
type Deduper struct {
	Threshold float64
	MinTokens int
}

// Result holds the outcome of Dedupe.
type Result struct {
	// Items are the representatives, in input order.
	Items []types.ResearchItem

	// Duplicates are the collapsed items, each with DuplicateOf set.
	Duplicates []types.ResearchItem
}

// Dedupe partitions items into duplicate groups. In each group the item
// with the highest score, then lowest id, is the representative; the others
// get DuplicateOf pointing at it and their ids are merged into its
// MergedIDs. Input items are not modified. Dedupe is idempotent: applying
// it to Result.Items yields the same items.
func (d Deduper) Dedupe(items []types.ResearchItem) Result {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	minTokens := d.MinTokens
	if minTokens <= 0 {
		minTokens = DefaultMinTokens
	}

	n := len(items)
	toks := make([]tokenSet, n)
	for i, it := range items {
		toks[i] = tokenize(it.Title)
	}

	uf := newUnionFind(n)
	byURL := make(map[string]int, n)
	for i, it := range items {
		if j, ok := byURL[it.URL]; ok {
			uf.union(i, j)
		} else {
			byURL[it.URL] = i
		}
	}
	for i := 0; i < n; i++ {
		if len(toks[i]) < minTokens {
			continue
		}
		for j := i + 1; j < n; j++ {
			if len(toks[j]) < minTokens || uf.find(i) == uf.find(j) {
				continue
			}
			if jaccard(toks[i], toks[j]) >= threshold {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range items {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	rep := make([]int, n)
	for _, members := range groups {
		best := members[0]
		for _, m := range members[1:] {
			if better(items[m], items[best]) {
				best = m
			}
		}
		for _, m := range members {
			rep[m] = best
		}
	}

	res := Result{Items: make([]types.ResearchItem, 0, len(groups))}
	for i, it := range items {
		if rep[i] != i {
			dup := it
			dup.DuplicateOf = items[rep[i]].ID
			dup.MergedIDs = nil
			res.Duplicates = append(res.Duplicates, dup)
			continue
		}
		merged := append([]string(nil), it.MergedIDs...)
		for _, m := range groups[uf.find(i)] {
			if m == i {
				continue
			}
			merged = append(merged, items[m].ID)
			merged = append(merged, items[m].MergedIDs...)
		}
		it.MergedIDs = sortedUnique(merged)
		it.DuplicateOf = ""
		res.Items = append(res.Items, it)
	}
	return res
}

// better reports whether a should represent a group over b.
func better(a, b types.ResearchItem) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return types.LessID(a.ID, b.ID)
}

func sortedUnique(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return types.LessID(ids[i], ids[j]) })
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// union joins the sets of i and j, keeping the lower index as root.
func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	if ri == rj {
		return
	}
	if rj < ri {
		ri, rj = rj, ri
	}
	u.parent[rj] = ri
}
