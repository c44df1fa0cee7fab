package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

// ProfileRepository reads member profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListByRoles returns every profile holding one of roles.
func (r *ProfileRepository) ListByRoles(ctx context.Context, roles []models.Role) ([]models.Profile, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	const query = `SELECT id, full_name, email, role, created_at FROM profiles WHERE role = ANY($1) ORDER BY full_name ASC NULLS LAST, id ASC`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("list profiles by role: %w", err)
	}
	return profiles, nil
}

// FindByID returns a profile by its ID.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, full_name, email, role, created_at FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}
