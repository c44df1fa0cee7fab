package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

// EnrollmentRepository handles persistence of program enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListActiveByProgramType returns active enrollments for a program type regardless of location.
func (r *EnrollmentRepository) ListActiveByProgramType(ctx context.Context, programType string) ([]models.Enrollment, error) {
	const query = `SELECT user_id, program_type, location, active FROM enrollments WHERE active = TRUE AND program_type = $1`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, programType); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// Upsert activates the (user, program type, location) enrollment, creating it when missing.
// NULL locations are compared with IS NOT DISTINCT FROM so they never duplicate.
func (r *EnrollmentRepository) Upsert(ctx context.Context, enrollment *models.Enrollment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment tx: %w", err)
	}
	const update = `UPDATE enrollments SET active = TRUE
WHERE user_id = $1 AND program_type = $2 AND location IS NOT DISTINCT FROM $3`
	res, err := tx.ExecContext(ctx, update, enrollment.UserID, enrollment.ProgramType, enrollment.Location)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("activate enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("activate enrollment rows: %w", err)
	}
	if affected == 0 {
		const insert = `INSERT INTO enrollments (user_id, program_type, location, active) VALUES ($1, $2, $3, TRUE)`
		if _, err := tx.ExecContext(ctx, insert, enrollment.UserID, enrollment.ProgramType, enrollment.Location); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("create enrollment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment tx: %w", err)
	}
	enrollment.Active = true
	return nil
}

// Deactivate marks the matching enrollment inactive and reports whether one existed.
func (r *EnrollmentRepository) Deactivate(ctx context.Context, userID, programType string, location *string) (bool, error) {
	const query = `UPDATE enrollments SET active = FALSE
WHERE user_id = $1 AND program_type = $2 AND location IS NOT DISTINCT FROM $3 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, userID, programType, location)
	if err != nil {
		return false, fmt.Errorf("deactivate enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate enrollment rows: %w", err)
	}
	return affected > 0, nil
}
