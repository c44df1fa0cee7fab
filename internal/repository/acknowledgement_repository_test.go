package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

func TestAcknowledgementRepositoryCreateDuplicateIsNotAnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcknowledgementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO policy_acknowledgements")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	created, err := repo.Create(context.Background(), &models.PolicyAcknowledgement{ID: "a1", UserID: "u1", PolicySlug: models.SafeguardingPolicySlug, AcknowledgedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAcknowledgementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcknowledgementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO policy_acknowledgements")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(context.Background(), &models.PolicyAcknowledgement{ID: "a1", UserID: "u1", PolicySlug: models.SafeguardingPolicySlug, AcknowledgedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestAcknowledgementRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcknowledgementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("u1", models.SafeguardingPolicySlug).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "u1", models.SafeguardingPolicySlug)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAcknowledgementRepositoryListByPolicy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcknowledgementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM policy_acknowledgements WHERE policy_slug = $1 ORDER BY acknowledged_at DESC")).
		WithArgs("safeguarding-v1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "policy_slug", "user_full_name", "user_email", "acknowledged_at"}).
			AddRow("a1", "u1", "safeguarding-v1", "Amina", "amina@example.org", time.Now()))

	acks, err := repo.List(context.Background(), "safeguarding-v1")
	require.NoError(t, err)
	require.Len(t, acks, 1)
}
