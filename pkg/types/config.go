// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultWindowDays is the recency window applied to every search.
const DefaultWindowDays = 30

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single provider call, including retries. A stalled
	// call past this deadline becomes a provider error.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "last30days/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on 429 and transient 5xx responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Depth selects how many sources each provider is asked for.
type Depth string

const (
	DepthQuick   Depth = "quick"
	DepthDefault Depth = "default"
	DepthDeep    Depth = "deep"
)

// Valid reports whether d is a known depth.
func (d Depth) Valid() bool {
	switch d {
	case DepthQuick, DepthDefault, DepthDeep:
		return true
	}
	return false
}

// RunConfig is the resolved, immutable configuration for one run. It is
// produced by the config resolver and passed by value.
type RunConfig struct {
	HTTPConfig `yaml:",inline"`

	ForumEnabled     bool `json:"forum_enabled" yaml:"forum_enabled"`
	MicroblogEnabled bool `json:"microblog_enabled" yaml:"microblog_enabled"`

	ForumModel     string `json:"forum_model" yaml:"forum_model"`
	MicroblogModel string `json:"microblog_model" yaml:"microblog_model"`

	// ForumModelAuto is true when the forum model should be discovered from
	// the provider's model list; ForumModel then holds the fallback.
	ForumModelAuto bool `json:"forum_model_auto" yaml:"forum_model_auto"`

	Depth Depth `json:"depth" yaml:"depth"`

	// WindowDays is the recency window; zero means DefaultWindowDays.
	WindowDays int `json:"window_days" yaml:"window_days"`
}

// Enabled reports whether the given platform is active for this run.
func (c RunConfig) Enabled(p Platform) bool {
	switch p {
	case PlatformForum:
		return c.ForumEnabled
	case PlatformMicroblog:
		return c.MicroblogEnabled
	}
	return false
}

// Window returns the effective recency window in days.
func (c RunConfig) Window() int {
	if c.WindowDays <= 0 {
		return DefaultWindowDays
	}
	return c.WindowDays
}

// RequestedMode returns the mode implied by the enabled providers, before
// any provider failure narrows coverage.
func (c RunConfig) RequestedMode() Mode {
	return ModeFor(c.ForumEnabled, c.MicroblogEnabled)
}

// WithForumModel returns a copy of c with the forum model replaced.
func (c RunConfig) WithForumModel(model string) RunConfig {
	c.ForumModel = model
	c.ForumModelAuto = false
	return c
}
