package reservation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Save upserts by id and is idempotent per id.
	Save(ctx context.Context, r Reservation) error

	// FindByID returns ErrReservationNotFound for unknown ids.
	FindByID(ctx context.Context, id uuid.UUID) (Reservation, error)

	// FindOverlapping returns every reservation on the resource whose slot
	// overlaps the given one, regardless of status. Callers filter by
	// active status themselves.
	FindOverlapping(ctx context.Context, resourceName string, slot TimeSlot) ([]Reservation, error)

	// All returns every reservation ever saved, in insertion order.
	// Reservations are never physically deleted.
	All(ctx context.Context) ([]Reservation, error)
}
