package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/export"
)

// Export formats accepted by the compliance downloads.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

const exportTimeLayout = "2006-01-02 15:04"

type complianceActivityReader interface {
	FindByID(ctx context.Context, id string) (*models.Activity, error)
}

type complianceRSVPReader interface {
	ListByActivity(ctx context.Context, activityID string) ([]models.RSVP, error)
}

type acknowledgementLister interface {
	List(ctx context.Context, policySlug string) ([]models.PolicyAcknowledgement, error)
}

type reportRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// RenderedExport is a finished download.
type RenderedExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ComplianceService builds the administrator's RSVP and safeguarding overviews.
type ComplianceService struct {
	activities  complianceActivityReader
	profiles    reminderProfileReader
	enrollments reminderEnrollmentReader
	rsvps       complianceRSVPReader
	acks        acknowledgementLister
	csv         reportRenderer
	pdf         reportRenderer
	location    *time.Location
	logger      *zap.Logger
	now         func() time.Time
}

// ComplianceDeps wires ComplianceService. Renderers default to the pkg/export implementations.
type ComplianceDeps struct {
	Activities  complianceActivityReader
	Profiles    reminderProfileReader
	Enrollments reminderEnrollmentReader
	RSVPs       complianceRSVPReader
	Acks        acknowledgementLister
	CSV         reportRenderer
	PDF         reportRenderer
	Location    *time.Location
	Logger      *zap.Logger
}

// NewComplianceService constructs ComplianceService.
func NewComplianceService(deps ComplianceDeps) *ComplianceService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.CSV == nil {
		deps.CSV = export.NewCSVExporter()
	}
	if deps.PDF == nil {
		deps.PDF = export.NewPDFExporter()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &ComplianceService{
		activities:  deps.Activities,
		profiles:    deps.Profiles,
		enrollments: deps.Enrollments,
		rsvps:       deps.RSVPs,
		acks:        deps.Acks,
		csv:         deps.CSV,
		pdf:         deps.PDF,
		location:    deps.Location,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// RSVPReport splits the expected responders of an activity into those who
// answered and those who did not. Expected responders follow the same
// enrollment rules as the reminder run but do not require an email address.
func (s *ComplianceService) RSVPReport(ctx context.Context, activityID string) (*dto.RSVPReport, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}

	profiles, err := s.profiles.ListByRoles(ctx, models.ResponderRoles)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profiles")
	}
	enrollments, err := s.enrollments.ListActiveByProgramType(ctx, activity.ProgramType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	rsvps, err := s.rsvps.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rsvps")
	}

	enrolled := make(map[string]struct{})
	for _, e := range enrollments {
		if e.Active && e.MatchesLocation(activity.LocationValue()) {
			enrolled[e.UserID] = struct{}{}
		}
	}
	byUser := make(map[string]models.RSVP, len(rsvps))
	for _, r := range rsvps {
		byUser[r.UserID] = r
	}

	report := &dto.RSVPReport{
		Activity:     *activity,
		Responded:    []dto.RSVPReportEntry{},
		NotResponded: []dto.RSVPReportEntry{},
	}
	for _, p := range profiles {
		if _, ok := enrolled[p.ID]; !ok {
			continue
		}
		report.ExpectedCount++
		entry := dto.RSVPReportEntry{UserID: p.ID, Name: p.Name(), Email: p.EmailAddress()}
		if r, ok := byUser[p.ID]; ok {
			status := r.Status
			entry.Status = &status
			entry.RespondedAt = r.RespondedAt
			report.Responded = append(report.Responded, entry)
			continue
		}
		report.NotResponded = append(report.NotResponded, entry)
	}
	sortEntries(report.Responded)
	sortEntries(report.NotResponded)
	return report, nil
}

// RenderRSVPReport renders the report as CSV or PDF.
func (s *ComplianceService) RenderRSVPReport(report *dto.RSVPReport, format string) (*RenderedExport, error) {
	responded := export.Table{Title: "Responded", Headers: []string{"Name", "Email", "RSVP", "Responded at"}}
	for _, e := range report.Responded {
		status := ""
		if e.Status != nil {
			status = string(*e.Status)
		}
		responded.Rows = append(responded.Rows, map[string]string{
			"Name":         e.Name,
			"Email":        e.Email,
			"RSVP":         status,
			"Responded at": s.formatTime(e.RespondedAt),
		})
	}
	missing := export.Table{Title: "Not responded", Headers: []string{"Name", "Email"}}
	for _, e := range report.NotResponded {
		missing.Rows = append(missing.Rows, map[string]string{"Name": e.Name, "Email": e.Email})
	}

	subtitle := []string{"Activity: " + report.Activity.Title, "Start: " + s.formatTime(&report.Activity.StartsAt)}
	if report.Activity.LocationValue() != "" {
		subtitle = append(subtitle, "Location: "+report.Activity.LocationValue())
	}
	doc := export.Report{
		Title:    "Attendance / RSVP report",
		Subtitle: strings.Join(subtitle, " | "),
		Tables:   []export.Table{responded, missing},
	}
	return s.render(doc, format, "attendance_rsvp_report")
}

// Acknowledgements lists policy acknowledgements, optionally for one policy.
func (s *ComplianceService) Acknowledgements(ctx context.Context, policySlug string) ([]models.PolicyAcknowledgement, error) {
	acks, err := s.acks.List(ctx, strings.TrimSpace(policySlug))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list acknowledgements")
	}
	if acks == nil {
		acks = []models.PolicyAcknowledgement{}
	}
	return acks, nil
}

// RenderAcknowledgements renders acknowledgements as CSV or PDF.
func (s *ComplianceService) RenderAcknowledgements(acks []models.PolicyAcknowledgement, format string) (*RenderedExport, error) {
	table := export.Table{Title: "Acknowledgements", Headers: []string{"policy_slug", "acknowledged_at", "user_full_name", "user_email"}}
	for _, a := range acks {
		at := a.AcknowledgedAt
		table.Rows = append(table.Rows, map[string]string{
			"policy_slug":     a.PolicySlug,
			"acknowledged_at": s.formatTime(&at),
			"user_full_name":  deref(a.UserFullName),
			"user_email":      deref(a.UserEmail),
		})
	}
	doc := export.Report{
		Title:    "Safeguarding acknowledgements",
		Subtitle: "Generated: " + s.formatTime(timePtr(s.now())),
		Tables:   []export.Table{table},
	}
	return s.render(doc, format, "safeguarding_acknowledgements")
}

func (s *ComplianceService) render(doc export.Report, format, basename string) (*RenderedExport, error) {
	var (
		body        []byte
		err         error
		contentType string
	)
	switch format {
	case FormatCSV:
		body, err = s.csv.Render(doc)
		contentType = "text/csv; charset=utf-8"
	case FormatPDF:
		body, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("export", basename), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &RenderedExport{Filename: basename + "." + format, ContentType: contentType, Body: body}, nil
}

func (s *ComplianceService) formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(s.location).Format(exportTimeLayout)
}

func sortEntries(entries []dto.RSVPReportEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].UserID < entries[j].UserID
	})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
