package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

const activityListCachePrefix = "activities:list"

// ActivityListCachePattern matches every cached activity listing page.
const ActivityListCachePattern = activityListCachePrefix + ":*"

type activityRepository interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
}

type rsvpRepository interface {
	Find(ctx context.Context, activityID, userID string) (*models.RSVP, error)
	Upsert(ctx context.Context, rsvp *models.RSVP) error
}

// ActivityService serves the member-facing activity calendar and RSVPs.
type ActivityService struct {
	activities activityRepository
	rsvps      rsvpRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewActivityService constructs ActivityService. cache may be nil.
func NewActivityService(activities activityRepository, rsvps rsvpRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ActivityService{
		activities: activities,
		rsvps:      rsvps,
		cache:      cache,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns a page of activities ordered by start time and whether it came from cache.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, *models.Pagination, bool, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 50
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, false, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}

	key := activityListCacheKey(filter)
	var cached dto.ActivityListResult
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Pagination, true, nil
	}

	items, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	if items == nil {
		items = []models.Activity{}
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	s.cache.Set(ctx, key, dto.ActivityListResult{Items: items, Pagination: pagination})
	return items, pagination, false, nil
}

// Get returns one activity.
func (s *ActivityService) Get(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return activity, nil
}

// RespondRSVP records the caller's answer for an activity, replacing any earlier one.
func (s *ActivityService) RespondRSVP(ctx context.Context, activityID, userID string, req dto.RSVPRequest) (*models.RSVP, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rsvp payload")
	}
	if _, err := s.Get(ctx, activityID); err != nil {
		return nil, err
	}

	respondedAt := s.now().UTC()
	rsvp := &models.RSVP{ActivityID: activityID, UserID: userID, Status: req.Status, RespondedAt: &respondedAt}
	if err := s.rsvps.Upsert(ctx, rsvp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save rsvp")
	}
	s.logger.Info("rsvp recorded", zap.String("activity_id", activityID), zap.String("user_id", userID), zap.String("status", string(req.Status)))
	return rsvp, nil
}

// GetRSVP returns the caller's answer for an activity.
func (s *ActivityService) GetRSVP(ctx context.Context, activityID, userID string) (*models.RSVP, error) {
	rsvp, err := s.rsvps.Find(ctx, activityID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no rsvp recorded")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rsvp")
	}
	return rsvp, nil
}

func activityListCacheKey(filter models.ActivityFilter) string {
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d", activityListCachePrefix, filter.ProgramType,
		formatOptionalTime(filter.From), formatOptionalTime(filter.To), filter.Page, filter.PageSize)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
