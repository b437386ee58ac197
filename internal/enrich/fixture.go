// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/fixtures"
	"github.com/pdiddy/last30days/pkg/types"
)

// FixtureFetcher serves thread engagement from the embedded mock fixtures.
// Threads missing from the fixture fail, exercising the unknown path.
type FixtureFetcher struct {
	Now func() time.Time
}

type fixtureThread struct {
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	Created     string  `json:"created"`
	Comments    []struct {
		Author    string `json:"author"`
		Score     int    `json:"score"`
		Body      string `json:"body"`
		Permalink string `json:"permalink"`
	} `json:"comments"`
}

// FetchThread looks up threadURL's path in the fixture.
func (f *FixtureFetcher) FetchThread(ctx context.Context, threadURL string) (Thread, error) {
	if err := ctx.Err(); err != nil {
		return Thread{}, err
	}
	path, err := threadPath(threadURL)
	if err != nil {
		return Thread{}, err
	}

	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	data, err := fixtures.Load(fixtures.ForumThreads, now)
	if err != nil {
		return Thread{}, err
	}
	var threads map[string]fixtureThread
	if err := json.Unmarshal(data, &threads); err != nil {
		return Thread{}, fmt.Errorf("decoding thread fixture: %w", err)
	}

	ft, ok := threads[path]
	if !ok {
		return Thread{}, fmt.Errorf("thread not found: %s", path)
	}
	th := Thread{Score: ft.Score, NumComments: ft.NumComments, UpvoteRatio: ft.UpvoteRatio}
	if t, ok := dates.ParseDate(ft.Created); ok {
		th.Created = t
	}
	for _, c := range ft.Comments {
		th.Comments = append(th.Comments, types.Comment{
			Author:  c.Author,
			Score:   c.Score,
			Excerpt: excerpt(c.Body, maxCommentExcerpt),
			URL:     "https://www.reddit.com" + c.Permalink,
		})
	}
	return th, nil
}
