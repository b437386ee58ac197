// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/last30days/internal/config"
	"github.com/pdiddy/last30days/internal/secrets"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write API keys and model policy to the credential file",
	Long: `Setup creates or updates the credential file (default
~/.config/last30days/.env) with owner-only permissions. Values not given on
the command line are kept from the existing file.

  last30days setup --openai-key sk-... --xai-key xai-...
  last30days setup --openai-policy pinned --openai-pin gpt-4.1`,
	Args: topicLikeArgs,
	RunE: runSetup,
}

// setupFlags maps each flag to the credential key it sets.
var setupFlags = []struct{ flag, key, usage string }{
	{"openai-key", config.KeyOpenAIAPIKey, "OpenAI API key (enables Reddit)"},
	{"xai-key", config.KeyXAIAPIKey, "xAI API key (enables X)"},
	{"openai-policy", config.KeyOpenAIPolicy, "OpenAI model policy: auto|pinned"},
	{"openai-pin", config.KeyOpenAIModelPin, "OpenAI model used with the pinned policy"},
	{"xai-policy", config.KeyXAIPolicy, "xAI model policy: latest|stable|pinned"},
	{"xai-pin", config.KeyXAIModelPin, "xAI model used with the pinned policy"},
}

func runSetup(cmd *cobra.Command, args []string) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	values, err := secrets.Load(path)
	if err != nil {
		return err
	}

	changed := 0
	for _, sf := range setupFlags {
		if !cmd.Flags().Changed(sf.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(sf.flag)
		if v == "" {
			delete(values, sf.key)
		} else {
			values[sf.key] = v
		}
		changed++
	}
	if changed == 0 {
		return fmt.Errorf("nothing to set: pass --openai-key and/or --xai-key")
	}

	if err := secrets.Write(path, values); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func init() {
	for _, sf := range setupFlags {
		setupCmd.Flags().String(sf.flag, "", sf.usage)
	}
	rootCmd.AddCommand(setupCmd)
}
