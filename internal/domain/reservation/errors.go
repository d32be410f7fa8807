package reservation

import "errors"

var (
	ErrInvalidTimeSlot     = errors.New("ends_at must be after starts_at")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationConflict = errors.New("time slot overlaps with existing reservation")
	ErrAlreadyCancelled    = errors.New("reservation is already cancelled")
	ErrNotModifiable       = errors.New("reservation can no longer be modified")
)

type PolicyCode string

const (
	PolicyDurationExceeded   PolicyCode = "duration_exceeded"
	PolicyTooFarInFuture     PolicyCode = "too_far_in_future"
	PolicyStartInPast        PolicyCode = "start_in_past"
	PolicyMisalignedStart    PolicyCode = "misaligned_start"
	PolicyDailyLimitExceeded PolicyCode = "daily_limit_exceeded"
)

// PolicyViolationError reports which booking rule rejected a slot. Each rule
// carries a distinct code so callers can react without parsing messages.
type PolicyViolationError struct {
	Code    PolicyCode
	Message string
}

func (e *PolicyViolationError) Error() string {
	return e.Message
}
