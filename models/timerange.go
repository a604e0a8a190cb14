package models

import "fmt"

// TimeRange is a half-open interval [Start, Start+Duration) in minutes from midnight.
type TimeRange struct {
	Start    int `bson:"start" json:"start"`       // e.g., 600 for 10:00 AM
	Duration int `bson:"duration" json:"duration"` // length in minutes
}

// End returns the exclusive end minute of the range.
func (t TimeRange) End() int {
	return t.Start + t.Duration
}

// Overlaps reports whether two half-open ranges intersect.
// Adjacent ranges (one ending exactly where the other starts) do not overlap.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start < other.End() && other.Start < t.End()
}

// Label renders the range as "HH:MM - HH:MM" for display and conflict details.
func (t TimeRange) Label() string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", t.Start/60, t.Start%60, t.End()/60, t.End()%60)
}
