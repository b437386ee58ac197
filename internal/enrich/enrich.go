// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich replaces model-estimated forum engagement with counts read
// from the forum itself. Enrichment is best effort: a failed fetch keeps the
// estimate, marks it unknown, and is reported rather than returned as an
// error.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/provider"
	"github.com/pdiddy/last30days/pkg/types"
)

// Thread is the authoritative view of one forum thread.
type Thread struct {
	Score       int
	NumComments int
	UpvoteRatio float64

	// Created is the thread's publication time; zero when not reported.
	Created time.Time

	Comments []types.Comment
}

// ThreadFetcher reads a thread's engagement given its URL.
type ThreadFetcher interface {
	FetchThread(ctx context.Context, threadURL string) (Thread, error)
}

// EnrichmentError records one item whose engagement could not be fetched.
type EnrichmentError struct {
	URL string
	Err error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enriching %s: %v", e.URL, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// Report summarises an Enrich call.
type Report struct {
	Attempted int
	Enriched  int
	Failed    []*EnrichmentError
}

// Enricher applies a ThreadFetcher to the forum items of a result set.
type Enricher struct {
	Fetcher ThreadFetcher
	Logger  *zap.Logger
}

// Enrich returns a copy of items in which every forum item carries verified
// engagement, or its original estimate marked unknown when the fetch
// failed. Microblog items pass through untouched. items is not modified.
func (e *Enricher) Enrich(ctx context.Context, items []provider.RawItem) ([]provider.RawItem, Report) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	out := make([]provider.RawItem, len(items))
	copy(out, items)

	var rep Report
	for i := range out {
		it := &out[i]
		if it.Platform != types.PlatformForum {
			continue
		}
		rep.Attempted++

		th, err := e.Fetcher.FetchThread(ctx, it.URL)
		if err != nil {
			it.Engagement.Confidence = types.EngagementUnknown
			eerr := &EnrichmentError{URL: it.URL, Err: err}
			rep.Failed = append(rep.Failed, eerr)
			log.Debug("enrichment failed", zap.String("url", it.URL), zap.Error(err))
			continue
		}

		it.Engagement = types.Engagement{
			Score:       th.Score,
			NumComments: th.NumComments,
			UpvoteRatio: th.UpvoteRatio,
			Confidence:  types.EngagementVerified,
		}
		if !th.Created.IsZero() {
			it.Date = th.Created.UTC().Format(dates.DayFormat)
			it.DateVerified = true
		}
		if len(th.Comments) > 0 {
			it.TopComments = append([]types.Comment(nil), th.Comments...)
		}
		rep.Enriched++
	}

	log.Info("enrichment finished",
		zap.Int("attempted", rep.Attempted),
		zap.Int("enriched", rep.Enriched),
		zap.Int("failed", len(rep.Failed)))
	return out, rep
}

// threadPath returns the /r/<sub>/comments/<id>/<slug> path of a Reddit
// thread URL, without a trailing slash.
func threadPath(threadURL string) (string, error) {
	u, err := url.Parse(threadURL)
	if err != nil {
		return "", fmt.Errorf("parsing thread URL: %w", err)
	}
	p := strings.TrimRight(u.EscapedPath(), "/")
	if !strings.Contains(p, "/comments/") {
		return "", fmt.Errorf("not a thread URL: %s", threadURL)
	}
	return p, nil
}
