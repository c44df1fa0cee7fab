package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

const uniqueViolation = "23505"

// AcknowledgementRepository persists policy acknowledgements.
type AcknowledgementRepository struct {
	db *sqlx.DB
}

// NewAcknowledgementRepository constructs the repository.
func NewAcknowledgementRepository(db *sqlx.DB) *AcknowledgementRepository {
	return &AcknowledgementRepository{db: db}
}

// Create inserts an acknowledgement. It returns false without error when the
// person already acknowledged the policy.
func (r *AcknowledgementRepository) Create(ctx context.Context, ack *models.PolicyAcknowledgement) (bool, error) {
	const query = `INSERT INTO policy_acknowledgements (id, user_id, policy_slug, user_full_name, user_email, acknowledged_at)
VALUES (:id, :user_id, :policy_slug, :user_full_name, :user_email, :acknowledged_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ack); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("create acknowledgement: %w", err)
	}
	return true, nil
}

// Exists reports whether userID acknowledged the policy.
func (r *AcknowledgementRepository) Exists(ctx context.Context, userID, policySlug string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM policy_acknowledgements WHERE user_id = $1 AND policy_slug = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, policySlug); err != nil {
		return false, fmt.Errorf("check acknowledgement: %w", err)
	}
	return exists, nil
}

// List returns acknowledgements, optionally for one policy, newest first.
func (r *AcknowledgementRepository) List(ctx context.Context, policySlug string) ([]models.PolicyAcknowledgement, error) {
	query := `SELECT id, user_id, policy_slug, user_full_name, user_email, acknowledged_at FROM policy_acknowledgements`
	var args []interface{}
	if policySlug != "" {
		query += ` WHERE policy_slug = $1`
		args = append(args, policySlug)
	}
	query += ` ORDER BY acknowledged_at DESC`
	var acks []models.PolicyAcknowledgement
	if err := r.db.SelectContext(ctx, &acks, query, args...); err != nil {
		return nil, fmt.Errorf("list acknowledgements: %w", err)
	}
	return acks, nil
}
