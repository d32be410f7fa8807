package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/reservio/reservio/internal/service"
)

type ReservationHandler struct {
	svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

type createReservationRequest struct {
	UserName     string `json:"user_name"`
	ResourceName string `json:"resource_name"`
	StartsAt     string `json:"starts_at"`
	EndsAt       string `json:"ends_at"`
}

type rescheduleReservationRequest struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.svc.CreateReservation(c.Request.Context(), &service.CreateReservationCommand{
		UserName:     req.UserName,
		ResourceName: req.ResourceName,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, view)
}

func (h *ReservationHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.svc.RescheduleReservation(c.Request.Context(), id, &service.RescheduleReservationCommand{
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, view)
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.svc.CancelReservation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, view)
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.svc.CompleteReservation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, view)
}

func (h *ReservationHandler) List(c *gin.Context) {
	views, err := h.svc.ListReservations(c.Request.Context(), &service.ListReservationsQuery{
		ResourceName: c.Query("resource_name"),
		Status:       c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, views)
}

func (h *ReservationHandler) Statistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, stats)
}
