package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

type acknowledgementService interface {
	Acknowledge(ctx context.Context, principal models.Principal, slug string) (*dto.AcknowledgementStatus, error)
	Status(ctx context.Context, userID, slug string) (*dto.AcknowledgementStatus, error)
}

// PolicyHandler records policy acknowledgements.
type PolicyHandler struct {
	service acknowledgementService
}

// NewPolicyHandler constructs a PolicyHandler.
func NewPolicyHandler(svc acknowledgementService) *PolicyHandler {
	return &PolicyHandler{service: svc}
}

// Acknowledge godoc
// @Summary Acknowledge a policy
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Policy slug"
// @Success 200 {object} response.Envelope
// @Router /policies/{slug}/acknowledge [post]
func (h *PolicyHandler) Acknowledge(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	status, err := h.service.Acknowledge(c.Request.Context(), *principal, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Status godoc
// @Summary Check whether the caller acknowledged a policy
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Policy slug"
// @Success 200 {object} response.Envelope
// @Router /policies/{slug}/acknowledgement [get]
func (h *PolicyHandler) Status(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	status, err := h.service.Status(c.Request.Context(), principal.UserID, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
