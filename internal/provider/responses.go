// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/last30days/internal/httputil"
)

// responsesRequest is the subset of the Responses API request body shared
// by OpenAI and xAI.
type responsesRequest struct {
	Model   string   `json:"model"`
	Input   string   `json:"input"`
	Tools   []any    `json:"tools"`
	Include []string `json:"include,omitempty"`
}

type responsesResponse struct {
	Output     json.RawMessage `json:"output"`
	OutputText string          `json:"output_text"`
	Error      *apiError       `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type outputEntry struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Content []outputContent `json:"content"`
}

type outputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// postResponses sends one Responses API call and returns the model's text.
func postResponses(ctx context.Context, r *httputil.Retrier, baseURL, apiKey, userAgent string, body responsesRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := r.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("responses API request: %w", err)
	}

	var rr responsesResponse
	if err := httputil.DecodeJSON(resp, &rr); err != nil {
		return "", err
	}
	if rr.Error != nil && rr.Error.Message != "" {
		return "", fmt.Errorf("responses API error: %s", rr.Error.Message)
	}
	return outputText(rr), nil
}

// outputText finds the assistant text in a Responses API reply. It accepts
// the convenience output_text field, an output string, or the structured
// output list with message/output_text parts.
func outputText(rr responsesResponse) string {
	if rr.OutputText != "" {
		return rr.OutputText
	}
	if len(rr.Output) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(rr.Output, &s) == nil {
		return s
	}

	var entries []outputEntry
	if json.Unmarshal(rr.Output, &entries) != nil {
		return ""
	}
	for _, e := range entries {
		if e.Type == "message" {
			for _, c := range e.Content {
				if c.Type == "output_text" && c.Text != "" {
					return c.Text
				}
			}
		}
		if e.Text != "" {
			return e.Text
		}
	}
	return ""
}

// decodeItemsPayload extracts the {"items": [...]} object the prompts ask
// for. Models sometimes wrap it in a Markdown fence or surround it with
// prose; the outermost braces are taken as the object.
func decodeItemsPayload(text string, v any) error {
	text = stripCodeFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("parsing model output: %w", err)
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// clampRelevance bounds a model-reported relevance to [0,1], defaulting
// missing values to 0.5.
func clampRelevance(v *float64) float64 {
	if v == nil {
		return 0.5
	}
	switch {
	case *v < 0:
		return 0
	case *v > 1:
		return 1
	}
	return *v
}

// nonNegative clamps estimates such as "-1" to zero.
func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// truncateRunes shortens s to at most max runes.
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
