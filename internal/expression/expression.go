// Package expression holds the relative date range presets used by in_range
// filters. A preset is persisted as its token pair and resolved to concrete
// ISO-8601 bounds whenever a query is sent.
package expression

import (
	"time"

	"github.com/soltixdb/reportkit/internal/utils"
)

// Preset is a named date range relative to the resolution instant
type Preset struct {
	Label  string
	Tokens [2]string
	bounds func(now time.Time) (time.Time, time.Time)
}

var presets = []Preset{
	{
		Label:  "Today",
		Tokens: [2]string{"start_today", "end_today"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			return startOfDay(now), endOfDay(now)
		},
	},
	{
		Label:  "Yesterday",
		Tokens: [2]string{"start_yesterday", "end_yesterday"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			y := now.AddDate(0, 0, -1)
			return startOfDay(y), endOfDay(y)
		},
	},
	{
		// today is excluded: the range ends at the end of yesterday
		Label:  "Last 7 Days",
		Tokens: [2]string{"start_last_7_days", "end_last_7_days"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			return startOfDay(now.AddDate(0, 0, -7)), endOfDay(now.AddDate(0, 0, -1))
		},
	},
	{
		Label:  "This month",
		Tokens: [2]string{"start_this_month", "end_this_month"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			return monthBounds(now.Year(), now.Month(), now.Location())
		},
	},
	{
		Label:  "Last month",
		Tokens: [2]string{"start_last_month", "end_last_month"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			return monthBounds(now.Year(), now.Month()-1, now.Location())
		},
	},
	{
		Label:  "This year",
		Tokens: [2]string{"start_this_year", "end_this_year"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			return yearBounds(now.Year(), now.Location())
		},
	},
	{
		Label:  "Last year",
		Tokens: [2]string{"start_last_year", "end_last_year"},
		bounds: func(now time.Time) (time.Time, time.Time) {
			return yearBounds(now.Year()-1, now.Location())
		},
	},
}

// Presets returns the fixed preset catalog in display order
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Bounds returns the concrete range for the instant now, in now's location
func (p Preset) Bounds(now time.Time) (time.Time, time.Time) {
	return p.bounds(now)
}

// Resolve returns the range as ISO-8601 strings with offset
func (p Preset) Resolve(now time.Time) [2]string {
	start, end := p.bounds(now)
	return [2]string{FormatISO(start), FormatISO(end)}
}

// FormatISO renders t with second precision and its UTC offset
func FormatISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Lookup finds the preset whose token pair equals value exactly. value may
// be a [2]string, []string or []interface{} of two strings.
func Lookup(value interface{}) (Preset, bool) {
	pair, ok := tokenPair(value)
	if !ok {
		return Preset{}, false
	}
	for _, p := range presets {
		if p.Tokens == pair {
			return p, true
		}
	}
	return Preset{}, false
}

func tokenPair(value interface{}) ([2]string, bool) {
	if pair, ok := value.([2]string); ok {
		return pair, true
	}
	items, ok := utils.AsSlice(value)
	if !ok || len(items) != 2 {
		return [2]string{}, false
	}
	var pair [2]string
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return [2]string{}, false
		}
		pair[i] = s
	}
	return pair, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

func monthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0).Add(-time.Millisecond)
}

func yearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0).Add(-time.Millisecond)
}
