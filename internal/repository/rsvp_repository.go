package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

// RSVPRepository persists activity responses.
type RSVPRepository struct {
	db *sqlx.DB
}

// NewRSVPRepository constructs the repository.
func NewRSVPRepository(db *sqlx.DB) *RSVPRepository {
	return &RSVPRepository{db: db}
}

// ListUserIDsByActivity returns the ids of everyone who responded to an activity, whatever the answer.
func (r *RSVPRepository) ListUserIDsByActivity(ctx context.Context, activityID string) ([]string, error) {
	const query = `SELECT user_id FROM activity_rsvp WHERE activity_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, activityID); err != nil {
		return nil, fmt.Errorf("list rsvp users: %w", err)
	}
	return ids, nil
}

// ListByActivity returns full response rows for an activity.
func (r *RSVPRepository) ListByActivity(ctx context.Context, activityID string) ([]models.RSVP, error) {
	const query = `SELECT activity_id, user_id, status, responded_at FROM activity_rsvp WHERE activity_id = $1 ORDER BY responded_at ASC NULLS LAST`
	var rsvps []models.RSVP
	if err := r.db.SelectContext(ctx, &rsvps, query, activityID); err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return rsvps, nil
}

// Find returns one person's response to an activity.
func (r *RSVPRepository) Find(ctx context.Context, activityID, userID string) (*models.RSVP, error) {
	const query = `SELECT activity_id, user_id, status, responded_at FROM activity_rsvp WHERE activity_id = $1 AND user_id = $2`
	var rsvp models.RSVP
	if err := r.db.GetContext(ctx, &rsvp, query, activityID, userID); err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// Upsert records or replaces a response.
func (r *RSVPRepository) Upsert(ctx context.Context, rsvp *models.RSVP) error {
	const query = `INSERT INTO activity_rsvp (activity_id, user_id, status, responded_at)
VALUES (:activity_id, :user_id, :status, :responded_at)
ON CONFLICT (activity_id, user_id)
DO UPDATE SET status = EXCLUDED.status, responded_at = EXCLUDED.responded_at`
	if _, err := r.db.NamedExecContext(ctx, query, rsvp); err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}
	return nil
}
