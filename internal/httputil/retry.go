// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider clients and
// the enricher.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseDelay is the first backoff interval. Tests override the
// Retrier's BaseDelay to avoid real sleeps.
const DefaultBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 3
	maxRetryAfter     = 60 * time.Second
)

// Retrier executes HTTP requests and retries rate-limited and transient
// upstream failures (429, 502, 503, 504) with exponential backoff:
// BaseDelay, 2×, 4×, ... A Retry-After header given in seconds replaces the
// computed delay, capped at one minute.
type Retrier struct {
	Client *http.Client

	// MaxRetries is the number of retries after the first attempt; zero
	// means the default (3).
	MaxRetries int

	// BaseDelay is the first backoff interval; zero means DefaultBaseDelay.
	BaseDelay time.Duration

	Logger *zap.Logger
}

// NewRetrier returns a Retrier around client with default settings.
func NewRetrier(client *http.Client, maxRetries int, logger *zap.Logger) *Retrier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{Client: client, MaxRetries: maxRetries, Logger: logger}
}

// Do sends req, retrying as described on Retrier. Request bodies are
// replayed through req.GetBody, which http.NewRequest sets for in-memory
// readers. If ctx is cancelled during a backoff wait Do returns ctx.Err().
// After exhausting retries the last response is returned unchanged so the
// caller can inspect its status.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := r.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(base, attempt)
		if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			wait = ra
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Debug("retrying request",
			zap.String("host", req.URL.Host),
			zap.Int("status", resp.StatusCode),
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func backoff(base time.Duration, attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * base
}

// retryAfter parses a Retry-After header given in whole seconds.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
