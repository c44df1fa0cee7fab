package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/middleware"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, *models.Pagination, bool, error)
	Get(ctx context.Context, id string) (*models.Activity, error)
	RespondRSVP(ctx context.Context, activityID, userID string, req dto.RSVPRequest) (*models.RSVP, error)
	GetRSVP(ctx context.Context, activityID, userID string) (*models.RSVP, error)
}

// ActivityHandler serves the activity calendar and RSVP endpoints.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc activityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List activities
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param program_type query string false "Program type"
// @Param from query string false "Earliest start (RFC3339)"
// @Param to query string false "Latest start (RFC3339)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	filter, err := parseActivityFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, items, pagination, middleware.ResponseMeta(c))
}

// Get godoc
// @Summary Get activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// RespondRSVP godoc
// @Summary Record the caller's RSVP
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param payload body dto.RSVPRequest true "RSVP status"
// @Success 200 {object} response.Envelope
// @Router /activities/{id}/rsvp [put]
func (h *ActivityHandler) RespondRSVP(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	var req dto.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rsvp payload"))
		return
	}
	rsvp, err := h.service.RespondRSVP(c.Request.Context(), c.Param("id"), principal.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rsvp, nil)
}

// GetRSVP godoc
// @Summary Get the caller's RSVP
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id}/rsvp [get]
func (h *ActivityHandler) GetRSVP(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	rsvp, err := h.service.GetRSVP(c.Request.Context(), c.Param("id"), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rsvp, nil)
}

func parseActivityFilter(c *gin.Context) (models.ActivityFilter, error) {
	filter := models.ActivityFilter{ProgramType: c.Query("program_type")}
	for name, dest := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, name+" must be an RFC3339 timestamp")
		}
		*dest = &parsed
	}
	for name, dest := range map[string]*int{"page": &filter.Page, "limit": &filter.PageSize} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
		}
		*dest = n
	}
	return filter, nil
}
