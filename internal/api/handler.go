package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/service"
	"tour-revenue-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	schedules *service.ScheduleService
	summaries *service.SummaryService
}

// NewHandler creates a new HTTP handler
func NewHandler(schedules *service.ScheduleService, summaries *service.SummaryService) *Handler {
	return &Handler{
		schedules: schedules,
		summaries: summaries,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/schedules/:id/start", h.startSchedule)
		v1.POST("/schedules/:id/cancel", h.cancelSchedule)
		v1.POST("/schedules/:id/complete", h.completeSchedule)
		v1.GET("/schedules/summary", h.scheduleSummary)
		v1.GET("/partners/:id/revenue", h.partnerRevenue)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) startSchedule(c *gin.Context) {
	scheduleID, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.schedules.StartSchedule(c.Request.Context(), scheduleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) cancelSchedule(c *gin.Context) {
	scheduleID, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.schedules.CancelSchedule(c.Request.Context(), scheduleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) completeSchedule(c *gin.Context) {
	scheduleID, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.schedules.CompleteSchedule(c.Request.Context(), scheduleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) scheduleSummary(c *gin.Context) {
	statusFilter := c.Query("status")
	switch statusFilter {
	case "", models.ScheduleStatusPending, models.ScheduleStatusOngoing,
		models.ScheduleStatusCompleted, models.ScheduleStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	rows, err := h.summaries.ScheduleSummary(c.Request.Context(), statusFilter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": rows})
}

func (h *Handler) partnerRevenue(c *gin.Context) {
	partnerID, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.summaries.PartnerRevenue(c.Request.Context(), partnerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// writeError maps engine errors to the transport contract. This is the
// only place error kinds become HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case models.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case models.IsConflictState(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case models.IsNoBookings(err), models.IsMalformedCustomizations(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "deadline exceeded"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
