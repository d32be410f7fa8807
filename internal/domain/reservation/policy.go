package reservation

import (
	"fmt"
	"time"
)

// Policy holds the stateless booking rules. All parameters come from
// configuration; the zero value is unusable, use DefaultPolicy or config.
type Policy struct {
	MaxDurationMinutes          int
	MaxAdvanceDays              int
	TimeSlotStepMinutes         int
	MaxDailyReservationsPerUser int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxDurationMinutes:          240,
		MaxAdvanceDays:              30,
		TimeSlotStepMinutes:         15,
		MaxDailyReservationsPerUser: 3,
	}
}

// AssertAcceptable checks the slot against every rule in order and returns
// the first violation. The caller supplies the user's active same-day count;
// the policy itself never touches a data source.
func (p Policy) AssertAcceptable(slot TimeSlot, now time.Time, existingDailyReservations int) error {
	if slot.DurationMinutes() > p.MaxDurationMinutes {
		return &PolicyViolationError{
			Code:    PolicyDurationExceeded,
			Message: fmt.Sprintf("slot exceeds the maximum duration of %d minutes", p.MaxDurationMinutes),
		}
	}

	days := wholeDaysBetween(now, slot.StartsAt)
	if days > p.MaxAdvanceDays {
		return &PolicyViolationError{
			Code:    PolicyTooFarInFuture,
			Message: fmt.Sprintf("slot starts more than %d days ahead", p.MaxAdvanceDays),
		}
	}
	if days < 0 {
		return &PolicyViolationError{
			Code:    PolicyStartInPast,
			Message: "starts_at must be in the future",
		}
	}

	if slot.StartsAt.Minute()%p.TimeSlotStepMinutes != 0 {
		return &PolicyViolationError{
			Code:    PolicyMisalignedStart,
			Message: fmt.Sprintf("starts_at must be aligned to %d-minute steps", p.TimeSlotStepMinutes),
		}
	}

	if existingDailyReservations >= p.MaxDailyReservationsPerUser {
		return &PolicyViolationError{
			Code:    PolicyDailyLimitExceeded,
			Message: fmt.Sprintf("no more than %d reservations per user per day", p.MaxDailyReservationsPerUser),
		}
	}

	return nil
}

// wholeDaysBetween truncates toward zero, so a start later today (or earlier
// today) is zero days away and passes the lead-time rules.
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
