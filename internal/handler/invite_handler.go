package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

type inviteService interface {
	List(ctx context.Context) ([]models.StaffInvite, error)
	Audit(ctx context.Context, limit int) ([]models.StaffInviteAudit, error)
	Create(ctx context.Context, createdBy string, req dto.CreateInviteRequest) (*models.CreatedInvite, error)
	Redeem(ctx context.Context, userID string, req dto.RedeemInviteRequest) (*dto.RedeemInviteResponse, error)
}

// InviteHandler manages staff invites.
type InviteHandler struct {
	service inviteService
}

// NewInviteHandler constructs an InviteHandler.
func NewInviteHandler(svc inviteService) *InviteHandler {
	return &InviteHandler{service: svc}
}

// List godoc
// @Summary List staff invites
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/invites [get]
func (h *InviteHandler) List(c *gin.Context) {
	invites, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invites, nil)
}

// Audit godoc
// @Summary Recent invite redemptions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /admin/invites/audit [get]
func (h *InviteHandler) Audit(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be an integer"))
			return
		}
		limit = n
	}
	rows, err := h.service.Audit(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Create godoc
// @Summary Create a staff invite
// @Description The invite code is only returned once.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateInviteRequest true "Invite"
// @Success 201 {object} response.Envelope
// @Router /admin/invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invite payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Redeem godoc
// @Summary Redeem a staff invite
// @Tags Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RedeemInviteRequest true "Invite code"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /invites/redeem [post]
func (h *InviteHandler) Redeem(c *gin.Context) {
	principal := requirePrincipal(c)
	if principal == nil {
		return
	}
	var req dto.RedeemInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invite payload"))
		return
	}
	resp, err := h.service.Redeem(c.Request.Context(), principal.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
