// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates computes the recency window and parses the date formats
// returned by the search providers.
package dates

import (
	"strings"
	"time"
)

// DayFormat is the YYYY-MM-DD layout used in prompts and reports.
const DayFormat = "2006-01-02"

// microblogLayout is the created_at format used by X ("Wed Jan 15 14:30:00 +0000 2026").
const microblogLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Window is a closed range of UTC calendar days.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow returns the window of the last days days ending on now's UTC day.
func NewWindow(now time.Time, days int) Window {
	to := truncateDay(now.UTC())
	return Window{From: to.AddDate(0, 0, -days), To: to}
}

// Contains reports whether t's UTC day lies inside the window.
func (w Window) Contains(t time.Time) bool {
	day := truncateDay(t.UTC())
	return !day.Before(w.From) && !day.After(w.To)
}

// Days returns the window length in days.
func (w Window) Days() int {
	return int(w.To.Sub(w.From).Hours() / 24)
}

// FromString and ToString return the bounds as YYYY-MM-DD.
func (w Window) FromString() string { return w.From.Format(DayFormat) }
func (w Window) ToString() string   { return w.To.Format(DayFormat) }

// AgeDays returns how many whole days before the window's end t falls.
// Dates after the end count as zero.
func (w Window) AgeDays(t time.Time) float64 {
	age := w.To.Sub(truncateDay(t.UTC())).Hours() / 24
	if age < 0 {
		return 0
	}
	return age
}

// ParseDate accepts YYYY-MM-DD, RFC 3339, and X's created_at layout.
// It returns the UTC day and false when s is empty or unrecognised.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return truncateDay(t.UTC()), true
	}
	if len(s) >= len(DayFormat) {
		if t, err := time.Parse(DayFormat, s[:len(DayFormat)]); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(microblogLayout, s); err == nil {
		return truncateDay(t.UTC()), true
	}
	return time.Time{}, false
}

// FromUnix converts a Unix timestamp in seconds to its UTC day.
func FromUnix(secs float64) time.Time {
	return truncateDay(time.Unix(int64(secs), 0).UTC())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
