// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"

	"github.com/pdiddy/last30days/pkg/types"
)

// Sources is the user's platform selection.
type Sources string

const (
	SourcesAuto   Sources = "auto"
	SourcesReddit Sources = "reddit"
	SourcesX      Sources = "x"
	SourcesBoth   Sources = "both"
)

// ParseSources validates a --sources value.
func ParseSources(s string) (Sources, error) {
	switch Sources(s) {
	case SourcesAuto, SourcesReddit, SourcesX, SourcesBoth:
		return Sources(s), nil
	case "":
		return SourcesAuto, nil
	}
	return "", fmt.Errorf("invalid sources %q: want auto, reddit, x, or both", s)
}

// ConfigError reports a configuration precondition that prevents the run
// from starting. It is always fatal and raised before any network call.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration: " + e.Reason
}

// Options are the run settings that do not come from the credential file.
type Options struct {
	Sources Sources
	Depth   types.Depth
	HTTP    types.HTTPConfig

	// WindowDays overrides the default 30-day window when positive.
	WindowDays int

	// Mock enables both platforms against embedded fixtures, without keys.
	Mock bool
}

// Resolve turns settings and options into an immutable RunConfig. It fails
// with *ConfigError when no provider can be enabled, when a requested
// platform lacks its key, or when a pinned policy has no model.
func Resolve(s Settings, opts Options) (types.RunConfig, error) {
	depth := opts.Depth
	if depth == "" {
		depth = types.DepthDefault
	}
	if !depth.Valid() {
		return types.RunConfig{}, &ConfigError{Reason: fmt.Sprintf("unknown depth %q", depth)}
	}

	sources := opts.Sources
	if sources == "" {
		sources = SourcesAuto
	}

	cfg := types.RunConfig{
		HTTPConfig: opts.HTTP,
		Depth:      depth,
		WindowDays: opts.WindowDays,
	}

	if opts.Mock {
		cfg.ForumEnabled = sources != SourcesX
		cfg.MicroblogEnabled = sources != SourcesReddit
		cfg.ForumModel = MockModel
		cfg.MicroblogModel = MockModel
		return cfg, nil
	}

	hasForum := s.OpenAIAPIKey != ""
	hasMicroblog := s.XAIAPIKey != ""

	if !hasForum && !hasMicroblog {
		reason := fmt.Sprintf("no API keys configured: set %s and/or %s", KeyOpenAIAPIKey, KeyXAIAPIKey)
		if !s.FileExists {
			reason += " (credential file not found; run `last30days setup` first)"
		}
		return types.RunConfig{}, &ConfigError{Reason: reason}
	}

	switch sources {
	case SourcesAuto:
		cfg.ForumEnabled, cfg.MicroblogEnabled = hasForum, hasMicroblog
	case SourcesBoth:
		if !hasForum || !hasMicroblog {
			return types.RunConfig{}, &ConfigError{Reason: fmt.Sprintf(
				"both sources requested but %s is missing; use --sources=auto to run with the available key",
				missingKey(hasForum))}
		}
		cfg.ForumEnabled, cfg.MicroblogEnabled = true, true
	case SourcesReddit:
		if !hasForum {
			return types.RunConfig{}, &ConfigError{Reason: "reddit requested but " + KeyOpenAIAPIKey + " is missing"}
		}
		cfg.ForumEnabled = true
	case SourcesX:
		if !hasMicroblog {
			return types.RunConfig{}, &ConfigError{Reason: "x requested but " + KeyXAIAPIKey + " is missing"}
		}
		cfg.MicroblogEnabled = true
	default:
		return types.RunConfig{}, &ConfigError{Reason: fmt.Sprintf("unknown sources %q", sources)}
	}

	if cfg.ForumEnabled {
		model, auto, err := forumModel(s)
		if err != nil {
			return types.RunConfig{}, err
		}
		cfg.ForumModel, cfg.ForumModelAuto = model, auto
	}
	if cfg.MicroblogEnabled {
		model, err := microblogModel(s)
		if err != nil {
			return types.RunConfig{}, err
		}
		cfg.MicroblogModel = model
	}
	return cfg, nil
}

func missingKey(hasForum bool) string {
	if hasForum {
		return KeyXAIAPIKey
	}
	return KeyOpenAIAPIKey
}

func forumModel(s Settings) (string, bool, error) {
	switch s.OpenAIPolicy {
	case "", PolicyAuto:
		return DefaultForumModel, true, nil
	case PolicyPinned:
		if s.OpenAIModelPin == "" {
			return "", false, &ConfigError{Reason: KeyOpenAIPolicy + "=pinned requires " + KeyOpenAIModelPin}
		}
		return s.OpenAIModelPin, false, nil
	}
	return "", false, &ConfigError{Reason: fmt.Sprintf("unknown %s %q: want auto or pinned", KeyOpenAIPolicy, s.OpenAIPolicy)}
}

func microblogModel(s Settings) (string, error) {
	switch s.XAIPolicy {
	case "", PolicyLatest, PolicyAuto:
		return MicroblogLatestModel, nil
	case PolicyStable:
		return MicroblogStableModel, nil
	case PolicyPinned:
		if s.XAIModelPin == "" {
			return "", &ConfigError{Reason: KeyXAIPolicy + "=pinned requires " + KeyXAIModelPin}
		}
		return s.XAIModelPin, nil
	}
	return "", &ConfigError{Reason: fmt.Sprintf("unknown %s %q: want latest, stable, or pinned", KeyXAIPolicy, s.XAIPolicy)}
}
