// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves which providers are active for a run and which
// model each one uses. Resolution only reads configuration; it never makes
// network calls and never writes the credential file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/last30days/internal/secrets"
)

// Credential and policy keys, as they appear in the credential file and
// the environment.
const (
	KeyOpenAIAPIKey   = "OPENAI_API_KEY"
	KeyXAIAPIKey      = "XAI_API_KEY"
	KeyOpenAIPolicy   = "OPENAI_MODEL_POLICY"
	KeyOpenAIModelPin = "OPENAI_MODEL_PIN"
	KeyXAIPolicy      = "XAI_MODEL_POLICY"
	KeyXAIModelPin    = "XAI_MODEL_PIN"
)

var allKeys = []string{
	KeyOpenAIAPIKey, KeyXAIAPIKey,
	KeyOpenAIPolicy, KeyOpenAIModelPin,
	KeyXAIPolicy, KeyXAIModelPin,
}

// Model policies.
const (
	PolicyAuto   = "auto"
	PolicyPinned = "pinned"
	PolicyLatest = "latest"
	PolicyStable = "stable"
)

// Model defaults. DefaultForumModel is also the fallback when automatic
// selection cannot reach the model list.
const (
	DefaultForumModel    = "gpt-4.1"
	MicroblogLatestModel = "grok-4-latest"
	MicroblogStableModel = "grok-4"
	MockModel            = "mock"
)

// Settings are the raw credential and policy values after layering the
// environment over the credential file.
type Settings struct {
	OpenAIAPIKey string
	XAIAPIKey    string

	OpenAIPolicy   string
	OpenAIModelPin string
	XAIPolicy      string
	XAIModelPin    string

	// FileExists is false when the credential file has never been created.
	FileExists bool
}

// HasAnyKey reports whether at least one provider credential is set.
func (s Settings) HasAnyKey() bool {
	return s.OpenAIAPIKey != "" || s.XAIAPIKey != ""
}

// Load reads the credential file at path and overlays environment
// variables of the same names; a non-empty variable wins over the file.
func Load(path string) (Settings, error) {
	file, err := secrets.Load(path)
	if err != nil {
		return Settings{}, err
	}

	v := viper.New()
	v.SetDefault(KeyOpenAIPolicy, PolicyAuto)
	v.SetDefault(KeyXAIPolicy, PolicyLatest)
	for _, key := range allKeys {
		if val, ok := file[key]; ok {
			v.SetDefault(key, val)
		}
		if err := v.BindEnv(key, key); err != nil {
			return Settings{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	return Settings{
		OpenAIAPIKey:   strings.TrimSpace(v.GetString(KeyOpenAIAPIKey)),
		XAIAPIKey:      strings.TrimSpace(v.GetString(KeyXAIAPIKey)),
		OpenAIPolicy:   strings.ToLower(strings.TrimSpace(v.GetString(KeyOpenAIPolicy))),
		OpenAIModelPin: strings.TrimSpace(v.GetString(KeyOpenAIModelPin)),
		XAIPolicy:      strings.ToLower(strings.TrimSpace(v.GetString(KeyXAIPolicy))),
		XAIModelPin:    strings.TrimSpace(v.GetString(KeyXAIModelPin)),
		FileExists:     secrets.Exists(path),
	}, nil
}
