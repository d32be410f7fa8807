package reservation

import (
	"time"

	"github.com/google/uuid"
)

// State transitions possibilities:
//
//	booked → cancelled
//	booked → completed
//
// Cancelled and completed are terminal; rescheduling keeps the booked state.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the status counts toward conflicts and the daily
// quota. Only booked reservations are active.
func (s Status) IsActive() bool {
	return s == StatusBooked
}

// Reservation is an immutable snapshot. Transition methods return a new value
// and leave the receiver untouched, so a repository can keep the old copy
// until the caller persists the new one.
type Reservation struct {
	ID           uuid.UUID
	UserName     string
	ResourceName string
	Slot         TimeSlot
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Book creates a new reservation in the booked state.
func Book(id uuid.UUID, userName, resourceName string, slot TimeSlot, now time.Time) Reservation {
	return Reservation{
		ID:           id,
		UserName:     userName,
		ResourceName: resourceName,
		Slot:         slot,
		Status:       StatusBooked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r Reservation) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusBooked:    {StatusCancelled, StatusCompleted},
		StatusCancelled: {},
		StatusCompleted: {},
	}

	for _, s := range allowed[r.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (r Reservation) Cancel(now time.Time) (Reservation, error) {
	if r.Status == StatusCancelled {
		return Reservation{}, ErrAlreadyCancelled
	}
	if !r.CanTransitionTo(StatusCancelled) {
		return Reservation{}, ErrNotModifiable
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now
	return r, nil
}

// Reschedule replaces the time slot while keeping the status. Only booked
// reservations may move.
func (r Reservation) Reschedule(slot TimeSlot, now time.Time) (Reservation, error) {
	if !r.Status.IsActive() {
		return Reservation{}, ErrNotModifiable
	}
	r.Slot = slot
	r.UpdatedAt = now
	return r, nil
}

func (r Reservation) Complete(now time.Time) (Reservation, error) {
	if !r.CanTransitionTo(StatusCompleted) {
		return Reservation{}, ErrNotModifiable
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now
	return r, nil
}

// Overlaps reports whether the reservation's slot intersects the given slot.
func (r Reservation) Overlaps(slot TimeSlot) bool {
	return r.Slot.Overlaps(slot)
}
