// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/fixtures"
	"github.com/pdiddy/last30days/pkg/types"
)

// FixtureClient serves embedded search output for --mock runs. The output
// goes through the same parsers as live responses.
type FixtureClient struct {
	For types.Platform
	Now func() time.Time
}

// Platform returns the platform the fixture stands in for.
func (c *FixtureClient) Platform() types.Platform { return c.For }

// Search returns the platform's fixture items. topic and window are
// ignored beyond context cancellation.
func (c *FixtureClient) Search(ctx context.Context, _ string, _ dates.Window) ([]RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(c.For, err)
	}
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	var (
		name  string
		parse func(string) ([]RawItem, error)
	)
	switch c.For {
	case types.PlatformForum:
		name, parse = fixtures.Forum, parseForumItems
	case types.PlatformMicroblog:
		name, parse = fixtures.Microblog, parseMicroblogItems
	default:
		return nil, wrap(c.For, fmt.Errorf("no fixture for platform %q", c.For))
	}

	data, err := fixtures.Load(name, now)
	if err != nil {
		return nil, wrap(c.For, err)
	}
	items, err := parse(string(data))
	if err != nil {
		return nil, wrap(c.For, err)
	}
	return items, nil
}
