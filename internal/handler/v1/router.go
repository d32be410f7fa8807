package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reservio/reservio/internal/service"
	"github.com/reservio/reservio/pkg/metrics"
)

func NewRouter(svc *service.ReservationService, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogging(log))
	router.Use(Metrics(m))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	h := NewReservationHandler(svc)

	api := router.Group("/api/v1")
	{
		reservations := api.Group("/reservations")
		reservations.GET("", h.List)
		reservations.POST("", h.Create)
		reservations.GET("/stats", h.Statistics)
		reservations.PATCH("/:id", h.Reschedule)
		reservations.POST("/:id/cancel", h.Cancel)
		reservations.POST("/:id/complete", h.Complete)
	}

	return router
}
