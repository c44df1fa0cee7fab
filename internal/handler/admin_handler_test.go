package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/internal/service"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type enrollmentServiceMock struct {
	req dto.EnrollmentRequest
	err error
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Enrollment{UserID: req.UserID, ProgramType: req.ProgramType, Active: true}, nil
}

func (m *enrollmentServiceMock) Unenroll(ctx context.Context, req dto.EnrollmentRequest) error {
	m.req = req
	return m.err
}

type complianceServiceMock struct {
	format string
	slug   string
}

func (m *complianceServiceMock) RSVPReport(ctx context.Context, activityID string) (*dto.RSVPReport, error) {
	if activityID == "missing" {
		return nil, appErrors.ErrNotFound
	}
	return &dto.RSVPReport{Activity: models.Activity{ID: activityID}}, nil
}

func (m *complianceServiceMock) RenderRSVPReport(report *dto.RSVPReport, format string) (*service.RenderedExport, error) {
	m.format = format
	if format != service.FormatCSV && format != service.FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported format")
	}
	return &service.RenderedExport{Filename: "attendance_rsvp_report.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Responded\n")}, nil
}

func (m *complianceServiceMock) Acknowledgements(ctx context.Context, policySlug string) ([]models.PolicyAcknowledgement, error) {
	m.slug = policySlug
	return []models.PolicyAcknowledgement{}, nil
}

func (m *complianceServiceMock) RenderAcknowledgements(acks []models.PolicyAcknowledgement, format string) (*service.RenderedExport, error) {
	m.format = format
	return &service.RenderedExport{Filename: "safeguarding_acknowledgements.pdf", ContentType: "application/pdf", Body: []byte("%PDF")}, nil
}

func TestAdminEnroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &enrollmentServiceMock{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/admin/enrollments", bytes.NewBufferString(`{"user_id":"u1","program_type":"sport"}`))
	req.Header.Set("Content-Type", "application/json")

	NewAdminHandler(svc, &complianceServiceMock{}).Enroll(newAuthedContext(w, req, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", svc.req.UserID)
}

func TestAdminUnenroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/admin/enrollments", bytes.NewBufferString(`{"user_id":"u1","program_type":"sport"}`))
	req.Header.Set("Content-Type", "application/json")
	c := newAuthedContext(w, req, nil)

	NewAdminHandler(&enrollmentServiceMock{}, &complianceServiceMock{}).Unenroll(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/admin/enrollments", bytes.NewBufferString(`{"user_id":"u1","program_type":"sport"}`))
	req.Header.Set("Content-Type", "application/json")
	NewAdminHandler(&enrollmentServiceMock{err: appErrors.ErrNotFound}, &complianceServiceMock{}).Unenroll(newAuthedContext(w, req, nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRSVPReportFormats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	compliance := &complianceServiceMock{}
	handler := NewAdminHandler(&enrollmentServiceMock{}, compliance)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/activities/A/rsvp-report", nil)
	c := newAuthedContext(w, req, nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	handler.RSVPReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expected_count":0`)
	assert.Empty(t, compliance.format)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/admin/activities/A/rsvp-report?format=csv", nil)
	c = newAuthedContext(w, req, nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	handler.RSVPReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="attendance_rsvp_report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Responded\n", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/admin/activities/A/rsvp-report?format=xlsx", nil)
	c = newAuthedContext(w, req, nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	handler.RSVPReport(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/admin/activities/missing/rsvp-report", nil)
	c = newAuthedContext(w, req, nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.RSVPReport(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminAcknowledgementsExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	compliance := &complianceServiceMock{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin/acknowledgements?policy=safeguarding-v1&format=pdf", nil)
	c := newAuthedContext(w, req, nil)

	NewAdminHandler(&enrollmentServiceMock{}, compliance).Acknowledgements(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "safeguarding-v1", compliance.slug)
	assert.Equal(t, "pdf", compliance.format)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
