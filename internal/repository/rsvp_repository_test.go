package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

func TestRSVPRepositoryListUserIDsByActivity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRSVPRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM activity_rsvp WHERE activity_id = $1")).
		WithArgs("act-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u3"))

	ids, err := repo.ListUserIDsByActivity(context.Background(), "act-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRSVPRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRSVPRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_rsvp")).
		WithArgs("act-1", "u1", models.RSVPNotAttending, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.RSVP{ActivityID: "act-1", UserID: "u1", Status: models.RSVPNotAttending, RespondedAt: &now})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRSVPRepositoryListByActivity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRSVPRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_rsvp WHERE activity_id = $1 ORDER BY responded_at")).
		WithArgs("act-1").
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "user_id", "status", "responded_at"}).
			AddRow("act-1", "u1", "attending", time.Now()))

	rsvps, err := repo.ListByActivity(context.Background(), "act-1")
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	assert.Equal(t, models.RSVPAttending, rsvps[0].Status)
}
