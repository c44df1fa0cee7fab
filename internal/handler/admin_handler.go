package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/internal/service"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error)
	Unenroll(ctx context.Context, req dto.EnrollmentRequest) error
}

type complianceService interface {
	RSVPReport(ctx context.Context, activityID string) (*dto.RSVPReport, error)
	RenderRSVPReport(report *dto.RSVPReport, format string) (*service.RenderedExport, error)
	Acknowledgements(ctx context.Context, policySlug string) ([]models.PolicyAcknowledgement, error)
	RenderAcknowledgements(acks []models.PolicyAcknowledgement, format string) (*service.RenderedExport, error)
}

// AdminHandler serves enrollment management and compliance reports.
type AdminHandler struct {
	enrollments enrollmentService
	compliance  complianceService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(enrollments enrollmentService, compliance complianceService) *AdminHandler {
	return &AdminHandler{enrollments: enrollments, compliance: compliance}
}

// Enroll godoc
// @Summary Enroll a user in a program
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EnrollmentRequest true "Enrollment"
// @Success 200 {object} response.Envelope
// @Router /admin/enrollments [put]
func (h *AdminHandler) Enroll(c *gin.Context) {
	var req dto.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Unenroll godoc
// @Summary Deactivate an enrollment
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param payload body dto.EnrollmentRequest true "Enrollment"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/enrollments [delete]
func (h *AdminHandler) Unenroll(c *gin.Context) {
	var req dto.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	if err := h.enrollments.Unenroll(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RSVPReport godoc
// @Summary RSVP compliance report for an activity
// @Tags Admin
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param format query string false "json, csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /admin/activities/{id}/rsvp-report [get]
func (h *AdminHandler) RSVPReport(c *gin.Context) {
	report, err := h.compliance.RSVPReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", service.FormatJSON)
	if format == service.FormatJSON {
		response.JSON(c, http.StatusOK, report, nil)
		return
	}
	rendered, err := h.compliance.RenderRSVPReport(report, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, rendered.Filename, rendered.ContentType, rendered.Body)
}

// Acknowledgements godoc
// @Summary Export policy acknowledgements
// @Tags Admin
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param policy query string false "Policy slug; all policies when empty"
// @Param format query string false "json, csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /admin/acknowledgements [get]
func (h *AdminHandler) Acknowledgements(c *gin.Context) {
	acks, err := h.compliance.Acknowledgements(c.Request.Context(), c.Query("policy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", service.FormatJSON)
	if format == service.FormatJSON {
		response.JSON(c, http.StatusOK, acks, nil)
		return
	}
	rendered, err := h.compliance.RenderAcknowledgements(acks, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, rendered.Filename, rendered.ContentType, rendered.Body)
}
