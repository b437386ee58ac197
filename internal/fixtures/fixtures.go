// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixtures embeds canned provider output for --mock runs.
// Dates are written relative to the run as @-Nd (N days ago) so fixtures
// never age out of the recency window.
package fixtures

import (
	"embed"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Fixture names.
const (
	Forum        = "reddit.json"
	Microblog    = "x.json"
	ForumThreads = "reddit_threads.json"
)

//go:embed *.json
var files embed.FS

var relativeDate = regexp.MustCompile(`@-(\d+)d`)

// Load returns the named fixture with every @-Nd token replaced by the
// YYYY-MM-DD date N days before now (UTC).
func Load(name string, now time.Time) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", name, err)
	}
	now = now.UTC()
	return relativeDate.ReplaceAllFunc(data, func(tok []byte) []byte {
		n, err := strconv.Atoi(string(relativeDate.FindSubmatch(tok)[1]))
		if err != nil {
			return tok
		}
		return []byte(now.AddDate(0, 0, -n).Format("2006-01-02"))
	}), nil
}
