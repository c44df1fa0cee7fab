package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/logger"
)

const (
	// ReminderWindow is how far ahead of now activities are checked for missing RSVPs.
	ReminderWindow = 48 * time.Hour
	// ReminderPreviewLimit caps the records echoed back to the cron caller.
	ReminderPreviewLimit = 20
)

type reminderActivityReader interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Activity, error)
}

type reminderProfileReader interface {
	ListByRoles(ctx context.Context, roles []models.Role) ([]models.Profile, error)
}

type reminderEnrollmentReader interface {
	ListActiveByProgramType(ctx context.Context, programType string) ([]models.Enrollment, error)
}

type reminderRSVPReader interface {
	ListUserIDsByActivity(ctx context.Context, activityID string) ([]string, error)
}

type reminderDispatcher interface {
	Dispatch(ctx context.Context, intents []DispatchIntent) models.DispatchOutcome
}

// ReminderDeps wires the reminder computation. Dispatcher is nil in dry-run mode.
type ReminderDeps struct {
	Activities  reminderActivityReader
	Profiles    reminderProfileReader
	Enrollments reminderEnrollmentReader
	RSVPs       reminderRSVPReader
	Dispatcher  reminderDispatcher
	Clock       func() time.Time
	Metrics     *MetricsService
	Logger      *zap.Logger
}

// ReminderSnapshot is the responder universe read once at the start of a run and
// shared by every activity in it.
type ReminderSnapshot struct {
	TakenAt     time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	responders  map[string]models.Profile
}

// Responder returns the snapshot profile for id when it is a reachable responder.
func (s ReminderSnapshot) Responder(id string) (models.Profile, bool) {
	p, ok := s.responders[id]
	if !ok || p.EmailAddress() == "" {
		return models.Profile{}, false
	}
	return p, true
}

// Size reports the number of profiles captured, with or without email.
func (s ReminderSnapshot) Size() int {
	return len(s.responders)
}

// DispatchIntent is a reminder that should be delivered.
type DispatchIntent struct {
	Record models.ReminderRecord
	Day    time.Time
}

// ReminderPlan is the complete, side-effect free outcome of the computation.
type ReminderPlan struct {
	Snapshot          ReminderSnapshot
	ActivitiesChecked int
	Records           []models.ReminderRecord
	Intents           []DispatchIntent
}

// Result converts the plan into the cron response.
func (p *ReminderPlan) Result(emailEnabled bool) models.ReminderRunResult {
	preview := p.Records
	if len(preview) > ReminderPreviewLimit {
		preview = preview[:ReminderPreviewLimit]
	}
	out := make([]models.ReminderRecord, len(preview))
	copy(out, preview)
	return models.ReminderRunResult{
		OK:                true,
		ActivitiesChecked: p.ActivitiesChecked,
		Reminders:         len(p.Records),
		EmailEnabled:      emailEnabled,
		Preview:           out,
	}
}

// ReminderService computes which enrolled participants still owe an RSVP for
// activities starting within the next 48 hours and hands them to the dispatcher.
//
// Every query loads its full result set; there is no pagination. The calendar of a
// single organisation fits comfortably in memory for one run.
type ReminderService struct {
	deps   ReminderDeps
	logger *zap.Logger
}

// NewReminderService constructs ReminderService.
func NewReminderService(deps ReminderDeps) *ReminderService {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ReminderService{deps: deps, logger: deps.Logger}
}

// EmailEnabled reports whether runs deliver reminders.
func (s *ReminderService) EmailEnabled() bool {
	return s.deps.Dispatcher != nil
}

// Now returns the service clock reading.
func (s *ReminderService) Now() time.Time {
	return s.deps.Clock()
}

// Run plans reminders for now and dispatches them when email is enabled. A zero
// now uses the service clock. Delivery failures never fail the run.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (*models.ReminderRunResult, error) {
	start := time.Now()
	plan, err := s.Plan(ctx, now)
	if err != nil {
		s.deps.Metrics.ObserveReminderRun(time.Since(start), 0, 0, err)
		return nil, err
	}

	log := logger.ForContext(ctx, s.logger)
	if s.deps.Dispatcher != nil && len(plan.Intents) > 0 {
		outcome := s.deps.Dispatcher.Dispatch(ctx, plan.Intents)
		log.Info("rsvp reminders dispatched",
			zap.Int("attempted", outcome.Attempted),
			zap.Int("sent", outcome.Sent),
			zap.Int("failed", outcome.Failed),
			zap.Int("skipped", outcome.Skipped),
			zap.Int("queued", outcome.Queued))
	}

	s.deps.Metrics.ObserveReminderRun(time.Since(start), plan.ActivitiesChecked, len(plan.Records), nil)
	result := plan.Result(s.EmailEnabled())
	log.Info("rsvp reminder run finished",
		zap.Int("activities_checked", result.ActivitiesChecked),
		zap.Int("reminders", result.Reminders),
		zap.Bool("email_enabled", result.EmailEnabled))
	return &result, nil
}

// Plan computes reminders without side effects. Any read failure aborts the
// whole plan so no partial reminder list is ever produced.
func (s *ReminderService) Plan(ctx context.Context, now time.Time) (*ReminderPlan, error) {
	if now.IsZero() {
		now = s.deps.Clock()
	}

	snapshot, activities, err := s.snapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	plan := &ReminderPlan{Snapshot: snapshot, ActivitiesChecked: len(activities)}
	for _, activity := range activities {
		records, err := s.planActivity(ctx, snapshot, activity)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			plan.Records = append(plan.Records, record)
			plan.Intents = append(plan.Intents, DispatchIntent{Record: record, Day: now})
		}
	}
	return plan, nil
}

func (s *ReminderService) snapshot(ctx context.Context, now time.Time) (ReminderSnapshot, []models.Activity, error) {
	windowEnd := now.Add(ReminderWindow)
	activities, err := s.deps.Activities.ListStartingBetween(ctx, now, windowEnd)
	if err != nil {
		return ReminderSnapshot{}, nil, dataAccessError(err, "failed to load upcoming activities")
	}

	profiles, err := s.deps.Profiles.ListByRoles(ctx, models.ResponderRoles)
	if err != nil {
		return ReminderSnapshot{}, nil, dataAccessError(err, "failed to load responder profiles")
	}
	responders := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		responders[p.ID] = p
	}

	return ReminderSnapshot{
		TakenAt:     now,
		WindowStart: now,
		WindowEnd:   windowEnd,
		responders:  responders,
	}, activities, nil
}

func (s *ReminderService) planActivity(ctx context.Context, snapshot ReminderSnapshot, activity models.Activity) ([]models.ReminderRecord, error) {
	enrollments, err := s.deps.Enrollments.ListActiveByProgramType(ctx, activity.ProgramType)
	if err != nil {
		return nil, dataAccessError(err, "failed to load enrollments")
	}

	location := activity.LocationValue()
	expected := make(map[string]struct{}, len(enrollments))
	for _, e := range enrollments {
		if e.Active && e.ProgramType == activity.ProgramType && e.MatchesLocation(location) {
			expected[e.UserID] = struct{}{}
		}
	}
	if len(expected) == 0 {
		return nil, nil
	}

	respondedIDs, err := s.deps.RSVPs.ListUserIDsByActivity(ctx, activity.ID)
	if err != nil {
		return nil, dataAccessError(err, "failed to load rsvps")
	}
	responded := make(map[string]struct{}, len(respondedIDs))
	for _, id := range respondedIDs {
		responded[id] = struct{}{}
	}

	ids := make([]string, 0, len(expected))
	for id := range expected {
		if _, ok := responded[id]; ok {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]models.ReminderRecord, 0, len(ids))
	for _, id := range ids {
		person, ok := snapshot.Responder(id)
		if !ok {
			continue
		}
		records = append(records, models.ReminderRecord{
			ActivityID:        activity.ID,
			ActivityTitle:     activity.Title,
			ActivityStartTime: activity.StartsAt,
			ActivityLocation:  activity.Location,
			UserID:            person.ID,
			UserName:          person.FullName,
			UserEmail:         person.EmailAddress(),
		})
	}
	return records, nil
}

func dataAccessError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
