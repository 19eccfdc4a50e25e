package store

import (
	"fmt"
	"time"
)

// Timestamps are stored as local-time strings in these layouts. The string
// form sorts lexicographically in time order, which the range queries rely
// on, and the stamp written during a reconciliation pass round-trips exactly,
// which the prune step relies on.
const (
	timeLayout = "2006-01-02 15:04:05"
	dayLayout  = "2006-01-02"
)

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func formatDay(t time.Time) string {
	return t.Format(dayLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
