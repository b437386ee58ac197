// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider adapts the search-capable model APIs to one contract:
// given a topic and a recency window, return the raw items the model found.
// Each platform has one Client; nothing outside this package branches on
// which API backs a platform.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/pkg/types"
)

// Client searches one platform through a model-backed search tool.
// Search returns an empty slice, not an error, when the model finds nothing.
// Transport and API failures are returned as *ProviderError.
type Client interface {
	Platform() types.Platform
	Search(ctx context.Context, topic string, window dates.Window) ([]RawItem, error)
}

// RawItem is one search result in provider shape, before normalization.
type RawItem struct {
	Platform types.Platform `json:"platform"`

	// Title is the thread title (forum) and Text the post body (microblog).
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`

	URL string `json:"url"`

	// Community is the subreddit or the author handle, without r/ or @.
	Community string `json:"community,omitempty"`

	// Date is the publication date as YYYY-MM-DD, or empty when unknown.
	Date string `json:"date,omitempty"`

	// DateVerified is set by enrichment when Date was read from the platform.
	DateVerified bool `json:"date_verified,omitempty"`

	Engagement types.Engagement `json:"engagement"`

	WhyRelevant string `json:"why_relevant,omitempty"`

	// Relevance is the model's 0-1 relevance judgment.
	Relevance float64 `json:"relevance"`

	TopComments []types.Comment `json:"top_comments,omitempty"`
}

// ProviderError reports that a platform's search failed. The run continues
// with the other platform when it is enabled.
type ProviderError struct {
	Platform types.Platform
	Err      error
}

func (e *ProviderError) Error() string {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s search timed out: %v", e.Platform.Label(), e.Err)
	}
	return fmt.Sprintf("%s search failed: %v", e.Platform.Label(), e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// wrap returns err as a *ProviderError for p, leaving existing ones intact.
func wrap(p types.Platform, err error) error {
	if err == nil {
		return nil
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return err
	}
	return &ProviderError{Platform: p, Err: err}
}
