package reservation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func bookedFixture(t *testing.T) (Reservation, time.Time) {
	t.Helper()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	slot := mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z")
	return Book(uuid.New(), "Alice", "Room-A", slot, now), now
}

func TestBookStartsInBookedState(t *testing.T) {
	res, now := bookedFixture(t)

	if res.Status != StatusBooked {
		t.Fatalf("status = %q, want %q", res.Status, StatusBooked)
	}
	if !res.Status.IsActive() {
		t.Fatal("booked reservations must be active")
	}
	if !res.CreatedAt.Equal(now) || !res.UpdatedAt.Equal(now) {
		t.Fatal("created_at and updated_at must both be the booking instant")
	}
}

func TestCancelTransitions(t *testing.T) {
	res, now := bookedFixture(t)
	later := now.Add(time.Hour)

	cancelled, err := res.Cancel(later)
	if err != nil {
		t.Fatalf("cancelling booked reservation: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("status = %q, want %q", cancelled.Status, StatusCancelled)
	}
	if !cancelled.UpdatedAt.Equal(later) {
		t.Fatal("cancel must bump updated_at")
	}

	// The original snapshot is untouched.
	if res.Status != StatusBooked {
		t.Fatalf("original snapshot mutated to %q", res.Status)
	}

	if _, err := cancelled.Cancel(later.Add(time.Hour)); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestCancelCompletedIsNotModifiable(t *testing.T) {
	res, now := bookedFixture(t)

	completed, err := res.Complete(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("completing booked reservation: %v", err)
	}
	if _, err := completed.Cancel(now.Add(2 * time.Hour)); !errors.Is(err, ErrNotModifiable) {
		t.Fatalf("expected ErrNotModifiable, got %v", err)
	}
}

func TestRescheduleKeepsStatusAndBumpsUpdatedAt(t *testing.T) {
	res, now := bookedFixture(t)
	newSlot := mustSlot(t, "2025-01-01T12:00:00Z", "2025-01-01T13:00:00Z")
	later := now.Add(30 * time.Minute)

	moved, err := res.Reschedule(newSlot, later)
	if err != nil {
		t.Fatalf("rescheduling booked reservation: %v", err)
	}
	if moved.Status != StatusBooked {
		t.Fatalf("status = %q, want %q", moved.Status, StatusBooked)
	}
	if !moved.Slot.StartsAt.Equal(newSlot.StartsAt) {
		t.Fatal("reschedule must replace the slot")
	}
	if !moved.UpdatedAt.Equal(later) {
		t.Fatal("reschedule must bump updated_at")
	}
	if !moved.CreatedAt.Equal(res.CreatedAt) {
		t.Fatal("reschedule must not change created_at")
	}
	if !res.Slot.StartsAt.Equal(mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z").StartsAt) {
		t.Fatal("original snapshot slot mutated")
	}
}

func TestRescheduleTerminalStates(t *testing.T) {
	res, now := bookedFixture(t)
	newSlot := mustSlot(t, "2025-01-01T12:00:00Z", "2025-01-01T13:00:00Z")

	cancelled, err := res.Cancel(now)
	if err != nil {
		t.Fatalf("cancelling: %v", err)
	}
	if _, err := cancelled.Reschedule(newSlot, now); !errors.Is(err, ErrNotModifiable) {
		t.Fatalf("expected ErrNotModifiable for cancelled, got %v", err)
	}

	completed, err := res.Complete(now)
	if err != nil {
		t.Fatalf("completing: %v", err)
	}
	if _, err := completed.Reschedule(newSlot, now); !errors.Is(err, ErrNotModifiable) {
		t.Fatalf("expected ErrNotModifiable for completed, got %v", err)
	}
}

func TestCompleteOnlyFromBooked(t *testing.T) {
	res, now := bookedFixture(t)

	cancelled, err := res.Cancel(now)
	if err != nil {
		t.Fatalf("cancelling: %v", err)
	}
	if _, err := cancelled.Complete(now); !errors.Is(err, ErrNotModifiable) {
		t.Fatalf("expected ErrNotModifiable, got %v", err)
	}

	completed, err := res.Complete(now)
	if err != nil {
		t.Fatalf("completing: %v", err)
	}
	if _, err := completed.Complete(now); !errors.Is(err, ErrNotModifiable) {
		t.Fatalf("expected ErrNotModifiable on double complete, got %v", err)
	}
}

func TestStatusValidity(t *testing.T) {
	for _, s := range []Status{StatusBooked, StatusCancelled, StatusCompleted} {
		if !s.IsValid() {
			t.Fatalf("%q must be valid", s)
		}
	}
	if Status("pending").IsValid() {
		t.Fatal("unknown status must be invalid")
	}
	if StatusCancelled.IsActive() || StatusCompleted.IsActive() {
		t.Fatal("only booked is active")
	}
}
