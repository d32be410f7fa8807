package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservio/reservio/internal/domain/reservation"
	"github.com/reservio/reservio/pkg/clock"
	"github.com/reservio/reservio/pkg/metrics"
)

type CreateReservationCommand struct {
	UserName     string
	ResourceName string
	StartsAt     string
	EndsAt       string
}

type RescheduleReservationCommand struct {
	StartsAt string
	EndsAt   string
}

type ListReservationsQuery struct {
	ResourceName string
	Status       string
}

type ReservationService struct {
	repo    reservation.Repository
	policy  reservation.Policy
	clock   clock.Clock
	events  *EventService
	metrics *metrics.Collector
	log     *zap.Logger

	// mu serializes every check-then-save sequence. The overlap check and
	// the save must be atomic with respect to each other or two concurrent
	// requests can double-book the same slot.
	mu sync.Mutex
}

func NewReservationService(
	repo reservation.Repository,
	policy reservation.Policy,
	clk clock.Clock,
	events *EventService,
	m *metrics.Collector,
	log *zap.Logger,
) *ReservationService {
	return &ReservationService{
		repo:    repo,
		policy:  policy,
		clock:   clk,
		events:  events,
		metrics: m,
		log:     log,
	}
}

func (s *ReservationService) CreateReservation(ctx context.Context, cmd *CreateReservationCommand) (*ReservationView, error) {
	userName := strings.TrimSpace(cmd.UserName)
	resourceName := strings.TrimSpace(cmd.ResourceName)

	var missing []string
	if userName == "" {
		missing = append(missing, "user_name is required")
	}
	if resourceName == "" {
		missing = append(missing, "resource_name is required")
	}
	if strings.TrimSpace(cmd.StartsAt) == "" {
		missing = append(missing, "starts_at is required")
	}
	if strings.TrimSpace(cmd.EndsAt) == "" {
		missing = append(missing, "ends_at is required")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	slot, err := s.parseSlot(cmd.StartsAt, cmd.EndsAt)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := s.assertBookable(ctx, userName, resourceName, slot, now, uuid.Nil); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating reservation id: %w", err)
	}

	res := reservation.Book(id, userName, resourceName, slot, now)
	if err := s.repo.Save(ctx, res); err != nil {
		s.log.Error("failed to save reservation", zap.Error(err))
		return nil, fmt.Errorf("saving reservation: %w", err)
	}

	s.metrics.ReservationsTotal.WithLabelValues(string(reservation.StatusBooked)).Inc()
	s.events.RecordAsync(Event{
		Action:        "booked",
		ReservationID: res.ID.String(),
		UserName:      res.UserName,
		ResourceName:  res.ResourceName,
		OccurredAt:    now,
	})

	view := newReservationView(res)
	return &view, nil
}

func (s *ReservationService) RescheduleReservation(ctx context.Context, id uuid.UUID, cmd *RescheduleReservationCommand) (*ReservationView, error) {
	var missing []string
	if strings.TrimSpace(cmd.StartsAt) == "" {
		missing = append(missing, "starts_at is required")
	}
	if strings.TrimSpace(cmd.EndsAt) == "" {
		missing = append(missing, "ends_at is required")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	slot, err := s.parseSlot(cmd.StartsAt, cmd.EndsAt)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.Status.IsActive() {
		return nil, reservation.ErrNotModifiable
	}

	// Same pipeline as create, but the reservation's own slot must not
	// count against either the quota or the conflict check.
	now := s.clock.Now()
	if err := s.assertBookable(ctx, res.UserName, res.ResourceName, slot, now, res.ID); err != nil {
		return nil, err
	}

	updated, err := res.Reschedule(slot, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		s.log.Error("failed to save rescheduled reservation", zap.Error(err))
		return nil, fmt.Errorf("saving reservation: %w", err)
	}

	s.events.RecordAsync(Event{
		Action:        "rescheduled",
		ReservationID: updated.ID.String(),
		UserName:      updated.UserName,
		ResourceName:  updated.ResourceName,
		OccurredAt:    now,
	})

	view := newReservationView(updated)
	return &view, nil
}

func (s *ReservationService) CancelReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	return s.transition(ctx, id, "cancelled", reservation.Reservation.Cancel)
}

func (s *ReservationService) CompleteReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	return s.transition(ctx, id, "completed", reservation.Reservation.Complete)
}

func (s *ReservationService) transition(
	ctx context.Context,
	id uuid.UUID,
	action string,
	apply func(reservation.Reservation, time.Time) (reservation.Reservation, error),
) (*ReservationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	updated, err := apply(res, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		s.log.Error("failed to save reservation transition", zap.String("action", action), zap.Error(err))
		return nil, fmt.Errorf("saving reservation: %w", err)
	}

	s.metrics.ReservationsTotal.WithLabelValues(string(updated.Status)).Inc()
	s.events.RecordAsync(Event{
		Action:        action,
		ReservationID: updated.ID.String(),
		UserName:      updated.UserName,
		ResourceName:  updated.ResourceName,
		OccurredAt:    now,
	})

	view := newReservationView(updated)
	return &view, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, q *ListReservationsQuery) ([]ReservationView, error) {
	resourceFilter := strings.TrimSpace(q.ResourceName)
	statusFilter := reservation.Status(strings.TrimSpace(q.Status))
	if statusFilter != "" && !statusFilter.IsValid() {
		return nil, &ValidationError{Fields: []string{"status must be one of booked, cancelled, completed"}}
	}

	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	views := make([]ReservationView, 0, len(all))
	for _, res := range all {
		if resourceFilter != "" && res.ResourceName != resourceFilter {
			continue
		}
		if statusFilter != "" && res.Status != statusFilter {
			continue
		}
		views = append(views, newReservationView(res))
	}
	return views, nil
}

// Statistics aggregates the whole store: totals per status, the next upcoming
// active start, and per-resource summaries with up to three soonest upcoming
// active slots, sorted by active-reservation count descending.
func (s *ReservationService) Statistics(ctx context.Context) (*StatisticsView, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	now := s.clock.Now()

	stats := &StatisticsView{
		Totals:    TotalsView{Reservations: len(all)},
		Resources: []ResourceStatsView{},
	}

	type resourceAgg struct {
		total    int
		active   int
		upcoming []reservation.TimeSlot
	}
	aggregates := make(map[string]*resourceAgg)
	var resourceOrder []string
	var nextStart *time.Time

	for _, res := range all {
		switch res.Status {
		case reservation.StatusBooked:
			stats.Totals.StatusBreakdown.Booked++
		case reservation.StatusCancelled:
			stats.Totals.StatusBreakdown.Cancelled++
		case reservation.StatusCompleted:
			stats.Totals.StatusBreakdown.Completed++
		}

		agg, ok := aggregates[res.ResourceName]
		if !ok {
			agg = &resourceAgg{}
			aggregates[res.ResourceName] = agg
			resourceOrder = append(resourceOrder, res.ResourceName)
		}
		agg.total++

		if !res.Status.IsActive() {
			continue
		}
		agg.active++

		if res.Slot.StartsAt.After(now) {
			agg.upcoming = append(agg.upcoming, res.Slot)
			if nextStart == nil || res.Slot.StartsAt.Before(*nextStart) {
				start := res.Slot.StartsAt
				nextStart = &start
			}
		}
	}

	if nextStart != nil {
		formatted := nextStart.Format(time.RFC3339)
		stats.Totals.NextReservationAt = &formatted
	}

	// Descending by active count; ties keep first-seen resource order.
	sort.SliceStable(resourceOrder, func(i, j int) bool {
		return aggregates[resourceOrder[i]].active > aggregates[resourceOrder[j]].active
	})

	for _, name := range resourceOrder {
		agg := aggregates[name]
		sort.Slice(agg.upcoming, func(i, j int) bool {
			return agg.upcoming[i].StartsAt.Before(agg.upcoming[j].StartsAt)
		})
		if len(agg.upcoming) > 3 {
			agg.upcoming = agg.upcoming[:3]
		}

		slots := make([]SlotView, 0, len(agg.upcoming))
		for _, slot := range agg.upcoming {
			slots = append(slots, SlotView{
				StartsAt: slot.StartsAt.Format(time.RFC3339),
				EndsAt:   slot.EndsAt.Format(time.RFC3339),
			})
		}

		stats.Resources = append(stats.Resources, ResourceStatsView{
			ResourceName:       name,
			TotalReservations:  agg.total,
			ActiveReservations: agg.active,
			UpcomingSlots:      slots,
		})
	}

	return stats, nil
}

func (s *ReservationService) parseSlot(startsAt, endsAt string) (reservation.TimeSlot, error) {
	var fields []string
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(startsAt))
	if err != nil {
		fields = append(fields, "starts_at must be an ISO-8601 timestamp with offset")
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(endsAt))
	if err != nil {
		fields = append(fields, "ends_at must be an ISO-8601 timestamp with offset")
	}
	if len(fields) > 0 {
		return reservation.TimeSlot{}, &ValidationError{Fields: fields}
	}
	return reservation.NewTimeSlot(start, end)
}

// assertBookable runs the policy and conflict checks for a slot. exclude
// removes the reservation being edited from both the quota and the conflict
// scan; pass uuid.Nil on create. Callers must hold s.mu.
func (s *ReservationService) assertBookable(
	ctx context.Context,
	userName, resourceName string,
	slot reservation.TimeSlot,
	now time.Time,
	exclude uuid.UUID,
) error {
	daily, err := s.countActiveSameDay(ctx, userName, slot.DayKey(), exclude)
	if err != nil {
		return err
	}

	if err := s.policy.AssertAcceptable(slot, now, daily); err != nil {
		var pv *reservation.PolicyViolationError
		if errors.As(err, &pv) {
			s.metrics.PolicyRejectionsTotal.WithLabelValues(string(pv.Code)).Inc()
		}
		return err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, resourceName, slot)
	if err != nil {
		return fmt.Errorf("checking conflicts: %w", err)
	}
	for _, other := range overlapping {
		if other.ID == exclude {
			continue
		}
		if other.Status.IsActive() {
			s.metrics.BookingConflictsTotal.Inc()
			return reservation.ErrReservationConflict
		}
	}
	return nil
}

func (s *ReservationService) countActiveSameDay(ctx context.Context, userName, dayKey string, exclude uuid.UUID) (int, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting daily reservations: %w", err)
	}

	count := 0
	for _, res := range all {
		if res.ID == exclude {
			continue
		}
		if res.UserName == userName && res.Status.IsActive() && res.Slot.DayKey() == dayKey {
			count++
		}
	}
	return count, nil
}
