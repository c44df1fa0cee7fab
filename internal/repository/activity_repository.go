package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

const activityColumns = `id, title, program_type, location, starts_at, ends_at, age_min, age_max, capacity`

// ActivityRepository reads scheduled activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListStartingBetween returns activities whose start lies in the closed interval [from, to], earliest first.
func (r *ActivityRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE starts_at >= $1 AND starts_at <= $2 ORDER BY starts_at ASC`
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("list activities in window: %w", err)
	}
	return activities, nil
}

// List returns activities filtered by program type and start range.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ProgramType != "" {
		conditions = append(conditions, fmt.Sprintf("program_type = $%d", len(args)+1))
		args = append(args, filter.ProgramType)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at >= $%d", len(args)+1))
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at <= $%d", len(args)+1))
		args = append(args, filter.To.UTC())
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM activities%s ORDER BY starts_at ASC LIMIT %d OFFSET %d`, activityColumns, clause, size, offset)
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM activities"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}
	return activities, total, nil
}

// FindByID returns an activity by its ID.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		return nil, err
	}
	return &activity, nil
}
