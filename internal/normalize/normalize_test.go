// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/provider"
	"github.com/pdiddy/last30days/pkg/types"
)

var window = dates.NewWindow(time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC), 30)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.reddit.com/r/golang/comments/abc/slug/", "https://www.reddit.com/r/golang/comments/abc/slug", true},
		{"https://old.reddit.com/r/golang/comments/abc/slug/?utm_source=share&utm_medium=web", "https://www.reddit.com/r/golang/comments/abc/slug", true},
		{"http://NP.Reddit.com/r/golang/comments/abc/slug#c1", "https://www.reddit.com/r/golang/comments/abc/slug", true},
		{"https://twitter.com/dev/status/12?s=20&t=abc", "https://x.com/dev/status/12", true},
		{"https://mobile.x.com/dev/status/12/", "https://x.com/dev/status/12", true},
		{"https://example.com/post?id=3&utm_campaign=x&fbclid=1", "https://example.com/post?id=3", true},
		{"https://example.com/post?t=5", "https://example.com/post?t=5", true},
		{"", "", false},
		{"   ", "", false},
		{"/r/golang/comments/abc", "", false},
		{"ftp://reddit.com/x", "", false},
		{"https://", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalURL(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	raw := []provider.RawItem{
		{Platform: types.PlatformForum, Title: "First", URL: "https://www.reddit.com/r/a/comments/1/first/", Date: "2026-03-30",
			WhyRelevant: "claim one", Relevance: 0.9, Community: "a",
			Engagement: types.Engagement{Score: 10, Confidence: types.EngagementVerified}, DateVerified: true},
		{Platform: types.PlatformMicroblog, Text: "post   body\nwith newline", URL: "https://twitter.com/u/status/5", Date: "2026-03-29",
			Engagement: types.Engagement{Likes: 3, Confidence: types.EngagementReported}},
		{Platform: types.PlatformForum, Title: "No URL", URL: "", Date: "2026-03-30"},
		{Platform: types.PlatformForum, Title: "No date", URL: "https://www.reddit.com/r/a/comments/2/x/", Date: ""},
		{Platform: types.PlatformForum, Title: "Too old", URL: "https://www.reddit.com/r/a/comments/3/x/", Date: "2026-02-01"},
		{Platform: types.PlatformForum, Title: "Future", URL: "https://www.reddit.com/r/a/comments/4/x/", Date: "2026-04-03"},
		{Platform: types.PlatformForum, Title: "Second", URL: "https://www.reddit.com/r/a/comments/5/second/", Date: "2026-03-01"},
		{Platform: types.PlatformMicroblog, Text: "another", URL: "https://x.com/u/status/6", Date: "2026-03-15"},
	}

	res := Normalize(raw, window)

	require.Len(t, res.Items, 4)
	ids := make([]string, len(res.Items))
	for i, it := range res.Items {
		ids[i] = it.ID
		assert.True(t, window.Contains(it.Date), "%s outside window", it.ID)
		assert.NotEmpty(t, it.URL)
	}
	assert.Equal(t, []string{"R1", "X1", "R2", "X2"}, ids)

	r1 := res.Items[0]
	assert.Equal(t, "First", r1.Title)
	assert.Equal(t, "https://www.reddit.com/r/a/comments/1/first", r1.URL)
	assert.Equal(t, "claim one", r1.Summary)
	assert.Equal(t, types.DateVerified, r1.DateConfidence)
	assert.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC), r1.Date)
	assert.Zero(t, r1.Score)
	assert.Empty(t, r1.DuplicateOf)

	x1 := res.Items[1]
	assert.Equal(t, "post body with newline", x1.Title)
	assert.Equal(t, "post   body\nwith newline", x1.Summary)
	assert.Equal(t, "https://x.com/u/status/5", x1.URL)
	assert.Equal(t, types.DateReported, x1.DateConfidence)

	assert.Equal(t, types.EngagementUnknown, res.Items[2].Engagement.Confidence)

	assert.Equal(t, map[string]int{
		ReasonMissingURL:    1,
		ReasonMissingDate:   1,
		ReasonOutsideWindow: 2,
	}, res.RejectedBy())
}

func TestNormalizeWindowEdges(t *testing.T) {
	raw := []provider.RawItem{
		{Platform: types.PlatformForum, Title: "from", URL: "https://www.reddit.com/r/a/comments/1/x", Date: window.FromString()},
		{Platform: types.PlatformForum, Title: "to", URL: "https://www.reddit.com/r/a/comments/2/x", Date: window.ToString()},
		{Platform: types.PlatformForum, Title: "before", URL: "https://www.reddit.com/r/a/comments/3/x", Date: window.From.AddDate(0, 0, -1).Format(dates.DayFormat)},
	}
	res := Normalize(raw, window)
	assert.Len(t, res.Items, 2)
	assert.Len(t, res.Rejected, 1)
}

func TestNormalizeEmpty(t *testing.T) {
	res := Normalize(nil, window)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Rejected)
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("é", 400)
	got := Excerpt(long, MaxExcerpt)
	assert.Len(t, []rune(got), MaxExcerpt)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "short", Excerpt("  short ", MaxExcerpt))
}
