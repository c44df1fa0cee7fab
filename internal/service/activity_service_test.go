package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type activityRepoStub struct {
	items     []models.Activity
	total     int
	listErr   error
	listCalls int
	filters   []models.ActivityFilter
	byID      map[string]models.Activity
}

func (s *activityRepoStub) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error) {
	s.listCalls++
	s.filters = append(s.filters, filter)
	return s.items, s.total, s.listErr
}

func (s *activityRepoStub) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	if a, ok := s.byID[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type rsvpRepoStub struct {
	saved   []models.RSVP
	found   *models.RSVP
	findErr error
	saveErr error
}

func (s *rsvpRepoStub) Find(ctx context.Context, activityID, userID string) (*models.RSVP, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.found == nil {
		return nil, sql.ErrNoRows
	}
	return s.found, nil
}

func (s *rsvpRepoStub) Upsert(ctx context.Context, rsvp *models.RSVP) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, *rsvp)
	return nil
}

// memoryCache is a CacheRepository backed by a map of already-encoded values.
type memoryCache struct {
	values map[string]interface{}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if out, ok := dest.(*dto.ActivityListResult); ok {
		*out = v.(dto.ActivityListResult)
	}
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = map[string]interface{}{}
	}
	m.values[key] = value
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = nil
	return nil
}

func TestActivityServiceListUsesCache(t *testing.T) {
	repo := &activityRepoStub{items: []models.Activity{{ID: "A", Title: "Football"}}, total: 1}
	cache := NewCacheService(&memoryCache{}, NewMetricsService(), time.Minute, nil)
	svc := NewActivityService(repo, &rsvpRepoStub{}, cache, nil, nil)

	items, pagination, hit, err := svc.List(context.Background(), models.ActivityFilter{ProgramType: "sport"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, items, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, pagination)

	items, _, hit, err = svc.List(context.Background(), models.ActivityFilter{ProgramType: "sport"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.listCalls)

	_, _, _, err = svc.List(context.Background(), models.ActivityFilter{ProgramType: "arts"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestActivityServiceListWithoutCache(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, &rsvpRepoStub{}, nil, nil, nil)

	items, _, _, err := svc.List(context.Background(), models.ActivityFilter{Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, 2, repo.filters[0].Page)
	assert.Equal(t, 50, repo.filters[0].PageSize)

	_, _, _, err = svc.List(context.Background(), models.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestActivityServiceListValidatesRange(t *testing.T) {
	from := reminderNow
	to := reminderNow.Add(-time.Hour)
	svc := NewActivityService(&activityRepoStub{}, &rsvpRepoStub{}, nil, nil, nil)

	_, _, _, err := svc.List(context.Background(), models.ActivityFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestActivityServiceListRepositoryError(t *testing.T) {
	svc := NewActivityService(&activityRepoStub{listErr: errors.New("db")}, &rsvpRepoStub{}, nil, nil, nil)
	_, _, _, err := svc.List(context.Background(), models.ActivityFilter{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestActivityServiceRespondRSVP(t *testing.T) {
	repo := &activityRepoStub{byID: map[string]models.Activity{"A": {ID: "A"}}}
	rsvps := &rsvpRepoStub{}
	svc := NewActivityService(repo, rsvps, nil, nil, nil)
	svc.now = func() time.Time { return reminderNow }

	rsvp, err := svc.RespondRSVP(context.Background(), "A", "u1", dto.RSVPRequest{Status: models.RSVPMaybe})
	require.NoError(t, err)
	assert.Equal(t, models.RSVPMaybe, rsvp.Status)
	require.Len(t, rsvps.saved, 1)
	assert.Equal(t, reminderNow, *rsvps.saved[0].RespondedAt)

	_, err = svc.RespondRSVP(context.Background(), "A", "u1", dto.RSVPRequest{Status: "sometimes"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.RespondRSVP(context.Background(), "missing", "u1", dto.RSVPRequest{Status: models.RSVPAttending})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestActivityServiceGetRSVP(t *testing.T) {
	svc := NewActivityService(&activityRepoStub{}, &rsvpRepoStub{}, nil, nil, nil)
	_, err := svc.GetRSVP(context.Background(), "A", "u1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	found := &models.RSVP{ActivityID: "A", UserID: "u1", Status: models.RSVPAttending}
	svc = NewActivityService(&activityRepoStub{}, &rsvpRepoStub{found: found}, nil, nil, nil)
	rsvp, err := svc.GetRSVP(context.Background(), "A", "u1")
	require.NoError(t, err)
	assert.Equal(t, found, rsvp)
}

func TestCacheServiceDisabledWithZeroTTL(t *testing.T) {
	repo := &memoryCache{}
	cache := NewCacheService(repo, nil, 0, nil)
	assert.False(t, cache.Enabled())
	cache.Set(context.Background(), "k", dto.ActivityListResult{})
	assert.Empty(t, repo.values)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.False(t, nilCache.Get(context.Background(), "k", &dto.ActivityListResult{}))
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := &memoryCache{values: map[string]interface{}{"activities:list:x": dto.ActivityListResult{}}}
	cache := NewCacheService(repo, nil, time.Minute, nil)
	cache.Invalidate(context.Background(), ActivityListCachePattern)
	assert.Empty(t, repo.values)
}
