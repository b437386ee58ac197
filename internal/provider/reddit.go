// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/pkg/types"
)

// openAIBaseURL is the OpenAI API root. Declared as a var so tests can
// substitute an httptest server.
var openAIBaseURL = "https://api.openai.com/v1"

var forumDepthCounts = map[types.Depth]string{
	types.DepthQuick:   "8-12",
	types.DepthDefault: "20-30",
	types.DepthDeep:    "50-70",
}

const forumPrompt = `Search Reddit for discussions about: %s

Focus on threads posted between %s and %s. Find %s high-quality, relevant threads.

IMPORTANT: Return ONLY valid JSON in this exact format, no other text:
{
  "items": [
    {
      "title": "Thread title",
      "url": "https://www.reddit.com/r/.../comments/...",
      "subreddit": "subreddit_name",
      "date": "YYYY-MM-DD or null if unknown",
      "why_relevant": "What the thread says about the topic, in one or two sentences",
      "relevance": 0.85,
      "score": 120,
      "num_comments": 45
    }
  ]
}

Rules:
- relevance is 0.0 to 1.0 (1.0 = highly relevant)
- date must be YYYY-MM-DD format or null
- score and num_comments are your best estimate of the thread's upvotes and comments; use 0 if unknown
- Include diverse subreddits if applicable
- Prefer threads with substantive discussions`

// ForumClient searches Reddit through the OpenAI Responses API web_search
// tool, restricted to reddit.com.
type ForumClient struct {
	APIKey    string
	Model     string
	Depth     types.Depth
	UserAgent string
	HTTP      *httputil.Retrier
	Logger    *zap.Logger
}

// Platform returns types.PlatformForum.
func (c *ForumClient) Platform() types.Platform { return types.PlatformForum }

// Search asks the model for Reddit threads about topic within window.
func (c *ForumClient) Search(ctx context.Context, topic string, window dates.Window) ([]RawItem, error) {
	count, ok := forumDepthCounts[c.Depth]
	if !ok {
		count = forumDepthCounts[types.DepthDefault]
	}

	req := responsesRequest{
		Model: c.Model,
		Input: fmt.Sprintf(forumPrompt, topic, window.FromString(), window.ToString(), count),
		Tools: []any{map[string]any{
			"type":    "web_search",
			"filters": map[string]any{"allowed_domains": []string{"reddit.com"}},
		}},
		Include: []string{"web_search_call.action.sources"},
	}

	text, err := postResponses(ctx, c.HTTP, openAIBaseURL, c.APIKey, c.UserAgent, req)
	if err != nil {
		return nil, wrap(types.PlatformForum, err)
	}

	items, err := parseForumItems(text)
	if err != nil {
		logger(c.Logger).Warn("unparseable forum search output",
			zap.String("platform", string(types.PlatformForum)), zap.Error(err))
		return []RawItem{}, nil
	}
	return items, nil
}

type forumPayload struct {
	Items []forumPayloadItem `json:"items"`
}

type forumPayloadItem struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Subreddit   string   `json:"subreddit"`
	Date        *string  `json:"date"`
	WhyRelevant string   `json:"why_relevant"`
	Relevance   *float64 `json:"relevance"`
	Score       int      `json:"score"`
	NumComments int      `json:"num_comments"`
}

// parseForumItems decodes the model's JSON and keeps only Reddit threads.
func parseForumItems(text string) ([]RawItem, error) {
	if strings.TrimSpace(text) == "" {
		return []RawItem{}, nil
	}
	var p forumPayload
	if err := decodeItemsPayload(text, &p); err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(p.Items))
	for _, it := range p.Items {
		u := strings.TrimSpace(it.URL)
		if !isRedditURL(u) {
			continue
		}
		items = append(items, RawItem{
			Platform:    types.PlatformForum,
			Title:       strings.TrimSpace(it.Title),
			URL:         u,
			Community:   cleanSubreddit(it.Subreddit),
			Date:        cleanDate(it.Date),
			WhyRelevant: strings.TrimSpace(it.WhyRelevant),
			Relevance:   clampRelevance(it.Relevance),
			Engagement: types.Engagement{
				Score:       nonNegative(it.Score),
				NumComments: nonNegative(it.NumComments),
				Confidence:  types.EngagementEstimated,
			},
		})
	}
	return items, nil
}

func isRedditURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "reddit.com" || strings.HasSuffix(host, ".reddit.com") || host == "redd.it"
}

func cleanSubreddit(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "r/")
	return s
}

// cleanDate keeps a date only when it parses; the result is YYYY-MM-DD.
func cleanDate(s *string) string {
	if s == nil {
		return ""
	}
	t, ok := dates.ParseDate(*s)
	if !ok {
		return ""
	}
	return t.Format(dates.DayFormat)
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
