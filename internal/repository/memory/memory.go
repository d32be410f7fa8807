package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/reservio/reservio/internal/domain/reservation"
)

// Repository is an in-memory store keyed by id. Iteration order is insertion
// order. An RWMutex guards the maps because the HTTP layer serves requests
// concurrently; the service still serializes check-then-save sequences itself.
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]reservation.Reservation
	order []uuid.UUID
}

func New() *Repository {
	return &Repository{
		items: make(map[uuid.UUID]reservation.Reservation),
	}
}

func (r *Repository) Save(_ context.Context, res reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[res.ID]; !ok {
		r.order = append(r.order, res.ID)
	}
	r.items[res.ID] = res
	return nil
}

func (r *Repository) FindByID(_ context.Context, id uuid.UUID) (reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]
	if !ok {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	return res, nil
}

func (r *Repository) FindOverlapping(_ context.Context, resourceName string, slot reservation.TimeSlot) ([]reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []reservation.Reservation
	for _, id := range r.order {
		res := r.items[id]
		if res.ResourceName == resourceName && res.Overlaps(slot) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *Repository) All(_ context.Context) ([]reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservation.Reservation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}
