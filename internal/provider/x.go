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

// xAIBaseURL is the xAI API root. Declared as a var so tests can
// substitute an httptest server.
var xAIBaseURL = "https://api.x.ai/v1"

// maxPostText bounds the post body kept from the model's output.
const maxPostText = 500

var microblogDepthCounts = map[types.Depth]string{
	types.DepthQuick:   "8-12",
	types.DepthDefault: "20-30",
	types.DepthDeep:    "40-60",
}

const microblogPrompt = `Search X for posts about: %s

Focus on posts published between %s and %s. Find %s high-quality, relevant posts.

IMPORTANT: Return ONLY valid JSON in this exact format, no other text:
{
  "items": [
    {
      "text": "Post text",
      "url": "https://x.com/handle/status/...",
      "author_handle": "handle",
      "date": "YYYY-MM-DD or null if unknown",
      "engagement": {"likes": 100, "reposts": 25, "replies": 15, "quotes": 5, "views": 12000},
      "why_relevant": "What the post claims about the topic, in one sentence",
      "relevance": 0.85
    }
  ]
}

Rules:
- relevance is 0.0 to 1.0 (1.0 = highly relevant)
- date must be YYYY-MM-DD format or null
- engagement counts come from the post itself; use 0 when a count is not shown
- Skip reposts without commentary
- Prefer posts from practitioners with substantive claims`

// MicroblogClient searches X through the xAI Responses API x_search tool,
// bounded to the window's dates. Engagement counts reported by the tool are
// read from the platform and are not re-fetched.
type MicroblogClient struct {
	APIKey    string
	Model     string
	Depth     types.Depth
	UserAgent string
	HTTP      *httputil.Retrier
	Logger    *zap.Logger
}

// Platform returns types.PlatformMicroblog.
func (c *MicroblogClient) Platform() types.Platform { return types.PlatformMicroblog }

// Search asks the model for X posts about topic within window.
func (c *MicroblogClient) Search(ctx context.Context, topic string, window dates.Window) ([]RawItem, error) {
	count, ok := microblogDepthCounts[c.Depth]
	if !ok {
		count = microblogDepthCounts[types.DepthDefault]
	}

	req := responsesRequest{
		Model: c.Model,
		Input: fmt.Sprintf(microblogPrompt, topic, window.FromString(), window.ToString(), count),
		Tools: []any{map[string]any{
			"type":      "x_search",
			"from_date": window.FromString(),
			"to_date":   window.ToString(),
		}},
	}

	text, err := postResponses(ctx, c.HTTP, xAIBaseURL, c.APIKey, c.UserAgent, req)
	if err != nil {
		return nil, wrap(types.PlatformMicroblog, err)
	}

	items, err := parseMicroblogItems(text)
	if err != nil {
		logger(c.Logger).Warn("unparseable microblog search output",
			zap.String("platform", string(types.PlatformMicroblog)), zap.Error(err))
		return []RawItem{}, nil
	}
	return items, nil
}

type microblogPayload struct {
	Items []microblogPayloadItem `json:"items"`
}

type microblogPayloadItem struct {
	Text         string   `json:"text"`
	URL          string   `json:"url"`
	AuthorHandle string   `json:"author_handle"`
	Date         *string  `json:"date"`
	WhyRelevant  string   `json:"why_relevant"`
	Relevance    *float64 `json:"relevance"`
	Engagement   struct {
		Likes   int `json:"likes"`
		Reposts int `json:"reposts"`
		Replies int `json:"replies"`
		Quotes  int `json:"quotes"`
		Views   int `json:"views"`
	} `json:"engagement"`
}

// parseMicroblogItems decodes the model's JSON and keeps only X posts.
func parseMicroblogItems(text string) ([]RawItem, error) {
	if strings.TrimSpace(text) == "" {
		return []RawItem{}, nil
	}
	var p microblogPayload
	if err := decodeItemsPayload(text, &p); err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(p.Items))
	for _, it := range p.Items {
		u := strings.TrimSpace(it.URL)
		if !isMicroblogURL(u) {
			continue
		}
		e := it.Engagement
		items = append(items, RawItem{
			Platform:    types.PlatformMicroblog,
			Text:        truncateRunes(strings.TrimSpace(it.Text), maxPostText),
			URL:         u,
			Community:   strings.TrimPrefix(strings.TrimSpace(it.AuthorHandle), "@"),
			Date:        cleanDate(it.Date),
			WhyRelevant: strings.TrimSpace(it.WhyRelevant),
			Relevance:   clampRelevance(it.Relevance),
			Engagement: types.Engagement{
				Likes:      nonNegative(e.Likes),
				Reposts:    nonNegative(e.Reposts),
				Replies:    nonNegative(e.Replies),
				Quotes:     nonNegative(e.Quotes),
				Views:      nonNegative(e.Views),
				Confidence: types.EngagementReported,
			},
		})
	}
	return items, nil
}

func isMicroblogURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "x.com", "twitter.com", "mobile.twitter.com", "mobile.x.com":
		return true
	}
	return false
}
