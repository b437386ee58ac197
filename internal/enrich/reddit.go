// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/pkg/types"
)

// redditBaseURL is the host thread JSON is read from. Declared as a var so
// tests can substitute an httptest server.
var redditBaseURL = "https://www.reddit.com"

const (
	topCommentCount   = 3
	maxCommentExcerpt = 300
)

// DefaultLimiter paces unauthenticated thread reads to one per second with
// a small burst.
func DefaultLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Second), 3)
}

// RedditFetcher reads a thread's public JSON listing.
type RedditFetcher struct {
	HTTP      *httputil.Retrier
	UserAgent string

	// Limiter paces requests; nil means unpaced.
	Limiter *rate.Limiter
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	CreatedUTC  float64 `json:"created_utc"`
}

type commentData struct {
	Author    string `json:"author"`
	Score     int    `json:"score"`
	Body      string `json:"body"`
	Permalink string `json:"permalink"`
}

// FetchThread reads <thread>.json and returns its engagement and top
// comments.
func (f *RedditFetcher) FetchThread(ctx context.Context, threadURL string) (Thread, error) {
	path, err := threadPath(threadURL)
	if err != nil {
		return Thread{}, err
	}
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return Thread{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditBaseURL+path+".json?raw_json=1", nil)
	if err != nil {
		return Thread{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTP.Do(ctx, req)
	if err != nil {
		return Thread{}, fmt.Errorf("thread request: %w", err)
	}

	var listings []listing
	if err := httputil.DecodeJSON(resp, &listings); err != nil {
		return Thread{}, err
	}
	return parseThread(listings)
}

func parseThread(listings []listing) (Thread, error) {
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return Thread{}, fmt.Errorf("thread listing has no post")
	}

	var post postData
	if err := json.Unmarshal(listings[0].Data.Children[0].Data, &post); err != nil {
		return Thread{}, fmt.Errorf("decoding post: %w", err)
	}
	th := Thread{
		Score:       max(post.Score, 0),
		NumComments: max(post.NumComments, 0),
		UpvoteRatio: post.UpvoteRatio,
	}
	if post.CreatedUTC > 0 {
		th.Created = dates.FromUnix(post.CreatedUTC)
	}

	if len(listings) > 1 {
		th.Comments = topComments(listings[1])
	}
	return th, nil
}

// topComments returns the highest-scored substantive comments.
func topComments(l listing) []types.Comment {
	var cs []commentData
	for _, ch := range l.Data.Children {
		if ch.Kind != "t1" {
			continue
		}
		var c commentData
		if json.Unmarshal(ch.Data, &c) != nil {
			continue
		}
		body := strings.TrimSpace(c.Body)
		if body == "" || body == "[deleted]" || body == "[removed]" || c.Author == "AutoModerator" {
			continue
		}
		c.Body = body
		cs = append(cs, c)
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score > cs[j].Score })

	if len(cs) > topCommentCount {
		cs = cs[:topCommentCount]
	}
	out := make([]types.Comment, 0, len(cs))
	for _, c := range cs {
		com := types.Comment{Author: c.Author, Score: c.Score, Excerpt: excerpt(c.Body, maxCommentExcerpt)}
		if c.Permalink != "" {
			com.URL = "https://www.reddit.com" + c.Permalink
		}
		out = append(out, com)
	}
	return out
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
