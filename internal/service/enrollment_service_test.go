package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type enrollmentRepoStub struct {
	upserted    []models.Enrollment
	deactivated []models.Enrollment
	found       bool
}

func (s *enrollmentRepoStub) Upsert(ctx context.Context, enrollment *models.Enrollment) error {
	s.upserted = append(s.upserted, *enrollment)
	return nil
}

func (s *enrollmentRepoStub) Deactivate(ctx context.Context, userID, programType string, location *string) (bool, error) {
	s.deactivated = append(s.deactivated, models.Enrollment{UserID: userID, ProgramType: programType, Location: location})
	return s.found, nil
}

type profileFinderStub map[string]models.Profile

func (s profileFinderStub) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := s[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func TestEnrollNormalizesLocation(t *testing.T) {
	repo := &enrollmentRepoStub{}
	svc := NewEnrollmentService(repo, profileFinderStub{"u1": {ID: "u1"}}, nil, nil)

	enrollment, err := svc.Enroll(context.Background(), dto.EnrollmentRequest{UserID: " u1 ", ProgramType: "Football Development", Location: strRef("   ")})
	require.NoError(t, err)
	assert.Nil(t, enrollment.Location)
	assert.True(t, enrollment.Active)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "u1", repo.upserted[0].UserID)

	enrollment, err = svc.Enroll(context.Background(), dto.EnrollmentRequest{UserID: "u1", ProgramType: "Football Development", Location: strRef(" Hall 1 ")})
	require.NoError(t, err)
	assert.Equal(t, "Hall 1", *enrollment.Location)
}

func TestEnrollRejectsUnknownProfileAndInvalidPayload(t *testing.T) {
	svc := NewEnrollmentService(&enrollmentRepoStub{}, profileFinderStub{}, nil, nil)

	_, err := svc.Enroll(context.Background(), dto.EnrollmentRequest{UserID: "ghost", ProgramType: "sport"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Enroll(context.Background(), dto.EnrollmentRequest{UserID: "u1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUnenroll(t *testing.T) {
	repo := &enrollmentRepoStub{found: true}
	svc := NewEnrollmentService(repo, profileFinderStub{}, nil, nil)

	require.NoError(t, svc.Unenroll(context.Background(), dto.EnrollmentRequest{UserID: "u1", ProgramType: "sport", Location: strRef("")}))
	require.Len(t, repo.deactivated, 1)
	assert.Nil(t, repo.deactivated[0].Location)

	repo.found = false
	err := svc.Unenroll(context.Background(), dto.EnrollmentRequest{UserID: "u1", ProgramType: "sport"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
