package service

import (
	"time"

	"github.com/reservio/reservio/internal/domain/reservation"
)

// ReservationView is the serializable shape handed to collaborators.
// Timestamps are rendered in RFC 3339 with their offset.
type ReservationView struct {
	ID           string `json:"id"`
	UserName     string `json:"user_name"`
	ResourceName string `json:"resource_name"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	StartsAt     string `json:"starts_at"`
	EndsAt       string `json:"ends_at"`
}

func newReservationView(r reservation.Reservation) ReservationView {
	return ReservationView{
		ID:           r.ID.String(),
		UserName:     r.UserName,
		ResourceName: r.ResourceName,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
		StartsAt:     r.Slot.StartsAt.Format(time.RFC3339),
		EndsAt:       r.Slot.EndsAt.Format(time.RFC3339),
	}
}

type SlotView struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

type StatusBreakdownView struct {
	Booked    int `json:"booked"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

type TotalsView struct {
	Reservations    int                 `json:"reservations"`
	StatusBreakdown StatusBreakdownView `json:"status_breakdown"`

	// Start of the next upcoming active reservation across all resources,
	// null when there is none.
	NextReservationAt *string `json:"next_reservation_at"`
}

type ResourceStatsView struct {
	ResourceName       string     `json:"resource_name"`
	TotalReservations  int        `json:"total_reservations"`
	ActiveReservations int        `json:"active_reservations"`
	UpcomingSlots      []SlotView `json:"upcoming_slots"`
}

type StatisticsView struct {
	Totals    TotalsView          `json:"totals"`
	Resources []ResourceStatsView `json:"resources"`
}
