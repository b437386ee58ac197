// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/pdiddy/last30days/internal/config"
	"github.com/pdiddy/last30days/internal/httputil"
)

// searchModelPattern matches mainline GPT chat models that accept the
// web_search tool (gpt-4o, gpt-4.1, gpt-5), excluding dated snapshots and
// mini/nano variants.
var searchModelPattern = regexp.MustCompile(`^gpt-\d+(\.\d+)?o?$`)

type modelList struct {
	Data []struct {
		ID      string `json:"id"`
		Created int64  `json:"created"`
	} `json:"data"`
}

// SelectForumModel lists the OpenAI models available to apiKey and returns
// the newest search-capable one. Callers fall back to
// config.DefaultForumModel on error.
func SelectForumModel(ctx context.Context, r *httputil.Retrier, apiKey, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(openAIBaseURL, "/")+"/models", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := r.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("listing models: %w", err)
	}
	var list modelList
	if err := httputil.DecodeJSON(resp, &list); err != nil {
		return "", fmt.Errorf("listing models: %w", err)
	}

	best, bestCreated := "", int64(-1)
	for _, m := range list.Data {
		if !searchModelPattern.MatchString(m.ID) {
			continue
		}
		if m.Created > bestCreated || (m.Created == bestCreated && m.ID > best) {
			best, bestCreated = m.ID, m.Created
		}
	}
	if best == "" {
		return "", fmt.Errorf("no search-capable model among %d listed", len(list.Data))
	}
	return best, nil
}

// ResolveForumModel returns the model a forum search should use. Pinned or
// default models pass through; with auto selection the newest model is
// chosen and any listing failure falls back to config.DefaultForumModel.
func ResolveForumModel(ctx context.Context, r *httputil.Retrier, apiKey, userAgent, model string, auto bool) string {
	if !auto {
		return model
	}
	chosen, err := SelectForumModel(ctx, r, apiKey, userAgent)
	if err != nil {
		return config.DefaultForumModel
	}
	return chosen
}
