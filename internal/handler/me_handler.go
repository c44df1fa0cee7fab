package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

type profileViewer interface {
	Me(ctx context.Context, userID string) (*models.ProfileView, error)
}

// MeHandler returns the caller's own profile.
type MeHandler struct {
	service profileViewer
}

// NewMeHandler constructs a MeHandler.
func NewMeHandler(svc profileViewer) *MeHandler {
	return &MeHandler{service: svc}
}

// Me godoc
// @Summary Current profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *MeHandler) Me(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	view, err := h.service.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
