// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs one last30days research pass: concurrent provider
// searches, forum engagement enrichment, normalization, ranking, dedupe,
// and emission. Provider and item failures degrade coverage; only the loss
// of every enabled provider or a failed write ends the run with an error.
package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/last30days/internal/config"
	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/dedupe"
	"github.com/pdiddy/last30days/internal/emit"
	"github.com/pdiddy/last30days/internal/enrich"
	"github.com/pdiddy/last30days/internal/metrics"
	"github.com/pdiddy/last30days/internal/normalize"
	"github.com/pdiddy/last30days/internal/provider"
	"github.com/pdiddy/last30days/internal/rank"
	"github.com/pdiddy/last30days/pkg/types"
)

// NoDataError reports that every enabled provider failed, so the run has
// nothing to emit.
type NoDataError struct {
	Errors map[types.Platform]error
}

func (e *NoDataError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, p := range types.Platforms {
		if err, ok := e.Errors[p]; ok {
			msgs = append(msgs, err.Error())
		}
	}
	return "no data: every enabled provider failed: " + strings.Join(msgs, "; ")
}

// Pipeline holds the collaborators of a run. Clients are consulted only for
// platforms the RunConfig enables.
type Pipeline struct {
	Clients []provider.Client

	// Enricher verifies forum engagement; nil skips enrichment and leaves
	// estimates in place.
	Enricher *enrich.Enricher

	// Emitter writes the artifacts; nil returns the result without writing.
	Emitter *emit.Emitter

	Deduper dedupe.Deduper
	Metrics *metrics.Recorder
	Logger  *zap.Logger

	// Now returns the run time; nil means time.Now.
	Now func() time.Time
}

type fetchResult struct {
	platform types.Platform
	items    []provider.RawItem
	err      error
}

// Run researches topic and returns the emitted RunResult.
func (p *Pipeline) Run(ctx context.Context, topic string, cfg types.RunConfig) (types.RunResult, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	now = now.UTC()
	window := dates.NewWindow(now, cfg.Window())

	var clients []provider.Client
	for _, c := range p.Clients {
		if cfg.Enabled(c.Platform()) {
			clients = append(clients, c)
		}
	}
	if len(clients) == 0 {
		return types.RunResult{}, &config.ConfigError{Reason: "no provider enabled for this run"}
	}

	fetched, err := p.fetch(ctx, log, topic, window, cfg.Timeout, clients)
	if err != nil {
		return types.RunResult{}, err
	}

	failures := make(map[types.Platform]error)
	var raw []provider.RawItem
	stats := types.RunStats{Fetched: make(map[types.Platform]int)}
	for _, f := range fetched {
		if f.err != nil {
			failures[f.platform] = f.err
			continue
		}
		stats.Fetched[f.platform] = len(f.items)
		raw = append(raw, f.items...)
	}
	if len(failures) == len(fetched) {
		return types.RunResult{}, &NoDataError{Errors: failures}
	}

	if p.Enricher != nil {
		var rep enrich.Report
		raw, rep = p.Enricher.Enrich(ctx, raw)
		stats.Enriched = rep.Enriched
		stats.Unenriched = len(rep.Failed)
		p.Metrics.Enriched(rep.Enriched, len(rep.Failed))
	}

	norm := normalize.Normalize(raw, window)
	stats.Rejected = len(norm.Rejected)
	for _, r := range norm.Rejected {
		p.Metrics.Rejected(string(r.Platform), r.Reason)
	}

	ranked := rank.NewScorer(window).Rank(norm.Items)
	deduped := p.Deduper.Dedupe(ranked)
	stats.Duplicates = len(deduped.Duplicates)
	p.Metrics.Deduplicated(stats.Duplicates)

	forumOK := cfg.ForumEnabled && failures[types.PlatformForum] == nil
	microblogOK := cfg.MicroblogEnabled && failures[types.PlatformMicroblog] == nil

	res := types.RunResult{
		RunID:        uuid.NewString(),
		Topic:        topic,
		GeneratedAt:  now,
		FromDate:     window.FromString(),
		ToDate:       window.ToString(),
		Items:        deduped.Items,
		Mode:         types.ModeFor(forumOK, microblogOK),
		CoverageNote: coverageNote(cfg, failures, len(deduped.Items)),
		Stats:        stats,
	}
	if forumOK {
		res.ModelsUsed.Forum = cfg.ForumModel
	}
	if microblogOK {
		res.ModelsUsed.Microblog = cfg.MicroblogModel
	}
	if len(failures) > 0 {
		res.ProviderErrors = make(map[types.Platform]string, len(failures))
		for pl, err := range failures {
			res.ProviderErrors[pl] = err.Error()
		}
	}

	log.Info("research complete",
		zap.String("run_id", res.RunID),
		zap.String("mode", string(res.Mode)),
		zap.Int("items", len(res.Items)),
		zap.Int("rejected", stats.Rejected),
		zap.Int("duplicates", stats.Duplicates))

	if p.Emitter != nil {
		if _, err := p.Emitter.Emit(ctx, res); err != nil {
			return types.RunResult{}, err
		}
	}
	return res, nil
}

// fetch runs every client concurrently, each under its own timeout, and
// returns the results in platform order. Provider failures are carried in
// the results rather than cancelling the other searches; the only error is
// cancellation of ctx itself, which abandons the run.
func (p *Pipeline) fetch(ctx context.Context, log *zap.Logger, topic string, window dates.Window, timeout time.Duration, clients []provider.Client) ([]fetchResult, error) {
	results := make([]fetchResult, len(clients))
	var g errgroup.Group
	for i, c := range clients {
		g.Go(func() error {
			cctx, cancel := ctx, context.CancelFunc(func() {})
			if timeout > 0 {
				cctx, cancel = context.WithTimeout(ctx, timeout)
			}
			defer cancel()

			start := time.Now()
			items, err := c.Search(cctx, topic, window)
			elapsed := time.Since(start)

			pl := c.Platform()
			if err != nil {
				var perr *provider.ProviderError
				if !errors.As(err, &perr) {
					err = &provider.ProviderError{Platform: pl, Err: err}
				}
				log.Warn("provider failed", zap.String("platform", string(pl)), zap.Duration("elapsed", elapsed), zap.Error(err))
			} else {
				log.Debug("provider finished", zap.String("platform", string(pl)), zap.Duration("elapsed", elapsed), zap.Int("items", len(items)))
			}
			p.Metrics.ProviderDone(string(pl), elapsed, len(items), err)
			results[i] = fetchResult{platform: pl, items: items, err: err}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("research interrupted: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return platformIndex(results[i].platform) < platformIndex(results[j].platform)
	})
	return results, nil
}

func platformIndex(p types.Platform) int {
	for i, q := range types.Platforms {
		if p == q {
			return i
		}
	}
	return len(types.Platforms)
}

// coverageNote describes which platforms contributed, starting with the
// effective mode, so downstream synthesis can caveat its claims.
func coverageNote(cfg types.RunConfig, failures map[types.Platform]error, items int) string {
	forumOK := cfg.ForumEnabled && failures[types.PlatformForum] == nil
	microblogOK := cfg.MicroblogEnabled && failures[types.PlatformMicroblog] == nil
	mode := types.ModeFor(forumOK, microblogOK)

	var b strings.Builder
	b.WriteString(string(mode))
	b.WriteString(": ")
	switch mode {
	case types.ModeBoth:
		b.WriteString("Reddit and X both contributed results.")
	case types.ModeForumOnly:
		b.WriteString("only Reddit results are included; ")
		b.WriteString(absence(types.PlatformMicroblog, cfg.MicroblogEnabled, failures))
	case types.ModeMicroblogOnly:
		b.WriteString("only X results are included; ")
		b.WriteString(absence(types.PlatformForum, cfg.ForumEnabled, failures))
	}
	if items == 0 {
		b.WriteString(" No items fell inside the recency window.")
	}
	return b.String()
}

func absence(p types.Platform, enabled bool, failures map[types.Platform]error) string {
	if !enabled {
		return fmt.Sprintf("%s was not searched.", p.Label())
	}
	if err, ok := failures[p]; ok && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s search timed out.", p.Label())
	}
	return fmt.Sprintf("%s search failed.", p.Label())
}
