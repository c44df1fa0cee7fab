package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/internal/service"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/logger"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

type reminderRunner interface {
	Run(ctx context.Context, now time.Time) (*models.ReminderRunResult, error)
	Plan(ctx context.Context, now time.Time) (*service.ReminderPlan, error)
}

// ReminderHandler exposes the scheduler endpoint and the admin preview.
type ReminderHandler struct {
	runner reminderRunner
	logger *zap.Logger
}

// NewReminderHandler constructs the handler. A nil runner means the datastore
// is not configured and every call fails with a configuration error.
func NewReminderHandler(runner reminderRunner, logger *zap.Logger) *ReminderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderHandler{runner: runner, logger: logger}
}

// Cron godoc
// @Summary Send RSVP reminders for activities starting within 48 hours
// @Description Method-agnostic scheduler entry point. Returns a flat JSON body rather than the API envelope.
// @Tags Cron
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ReminderRunResult
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/cron/rsvp-reminders [get]
// @Router /api/cron/rsvp-reminders [post]
func (h *ReminderHandler) Cron(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": appErrors.ErrNotConfigured.Message})
		return
	}
	result, err := h.runner.Run(c.Request.Context(), time.Time{})
	if err != nil {
		logger.ForContext(c.Request.Context(), h.logger).Error("rsvp reminder run failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Preview godoc
// @Summary Preview RSVP reminders without sending
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ReminderPreviewRequest false "Optional instant to plan for"
// @Success 200 {object} response.Envelope
// @Router /admin/reminders/preview [post]
func (h *ReminderHandler) Preview(c *gin.Context) {
	if h.runner == nil {
		response.Error(c, appErrors.ErrNotConfigured)
		return
	}
	var req dto.ReminderPreviewRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
			return
		}
	}
	var now time.Time
	if req.Now != nil {
		now = *req.Now
	}
	plan, err := h.runner.Plan(c.Request.Context(), now)
	if err != nil {
		response.Error(c, err)
		return
	}
	result := plan.Result(false)
	response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{
		"window_start": plan.Snapshot.WindowStart,
		"window_end":   plan.Snapshot.WindowEnd,
	})
}
