// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 1, 31, 15, 4, 5, 0, time.UTC)

func TestNewWindow(t *testing.T) {
	w := NewWindow(now, 30)
	assert.Equal(t, "2026-01-01", w.FromString())
	assert.Equal(t, "2026-01-31", w.ToString())
	assert.Equal(t, 30, w.Days())
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(now, 30)
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first day", time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC), true},
		{"last day", time.Date(2026, 1, 31, 0, 0, 1, 0, time.UTC), true},
		{"day before", time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.t))
		})
	}
}

func TestAgeDays(t *testing.T) {
	w := NewWindow(now, 30)
	assert.Equal(t, 0.0, w.AgeDays(now))
	assert.Equal(t, 29.0, w.AgeDays(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0.0, w.AgeDays(now.AddDate(0, 0, 3)))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-01-15", true},
		{"2026-01-15T14:30:00Z", true},
		{"2026-01-15T23:30:00-00:00", true},
		{"Thu Jan 15 14:30:00 +0000 2026", true},
		{"", false},
		{"null", false},
		{"last week", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestFromUnix(t *testing.T) {
	got := FromUnix(float64(time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC).Unix()))
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), got)
}
