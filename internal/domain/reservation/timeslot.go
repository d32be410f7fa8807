package reservation

import (
	"time"
)

// TimeSlot is a half-open interval [StartsAt, EndsAt). Both instants carry
// their own location; DayKey buckets by the start's local calendar day.
type TimeSlot struct {
	StartsAt time.Time
	EndsAt   time.Time
}

func NewTimeSlot(startsAt, endsAt time.Time) (TimeSlot, error) {
	if !endsAt.After(startsAt) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{StartsAt: startsAt, EndsAt: endsAt}, nil
}

// Overlaps reports whether the two half-open intervals intersect. A slot
// ending exactly when another begins does not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(s.EndsAt)
}

// DurationMinutes returns the slot length in whole minutes, truncated.
func (s TimeSlot) DurationMinutes() int {
	return int(s.EndsAt.Sub(s.StartsAt) / time.Minute)
}

// DayKey returns the calendar day of the start, in the slot's own location.
// The per-user daily quota is scoped by this bucket, not a rolling 24h window.
func (s TimeSlot) DayKey() string {
	return s.StartsAt.Format("2006-01-02")
}
