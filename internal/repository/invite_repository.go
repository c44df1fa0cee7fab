package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

// ErrInviteUnavailable is returned when an invite is expired or fully used at redemption time.
var ErrInviteUnavailable = errors.New("invite unavailable")

const inviteColumns = `id, role, secret_hash, expires_at, max_uses, uses, created_by, created_at`

// InviteRepository persists staff invites and their redemption audit.
type InviteRepository struct {
	db *sqlx.DB
}

// NewInviteRepository constructs the repository.
func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// List returns invites, newest first.
func (r *InviteRepository) List(ctx context.Context) ([]models.StaffInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM staff_invites ORDER BY created_at DESC`
	var invites []models.StaffInvite
	if err := r.db.SelectContext(ctx, &invites, query); err != nil {
		return nil, fmt.Errorf("list staff invites: %w", err)
	}
	return invites, nil
}

// FindByID returns an invite by its ID.
func (r *InviteRepository) FindByID(ctx context.Context, id string) (*models.StaffInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM staff_invites WHERE id = $1`
	var invite models.StaffInvite
	if err := r.db.GetContext(ctx, &invite, query, id); err != nil {
		return nil, err
	}
	return &invite, nil
}

// Create persists a new invite.
func (r *InviteRepository) Create(ctx context.Context, invite *models.StaffInvite) error {
	const query = `INSERT INTO staff_invites (id, role, secret_hash, expires_at, max_uses, uses, created_by, created_at)
VALUES (:id, :role, :secret_hash, :expires_at, :max_uses, :uses, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, invite); err != nil {
		return fmt.Errorf("create staff invite: %w", err)
	}
	return nil
}

// ListAudit returns redemptions joined with the redeeming profile, newest first.
func (r *InviteRepository) ListAudit(ctx context.Context, limit int) ([]models.StaffInviteAudit, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `SELECT a.invite_id, a.used_by, a.assigned_role, a.used_at, p.full_name AS user_full_name, p.email AS user_email
FROM staff_invite_audit a
LEFT JOIN profiles p ON p.id = a.used_by
ORDER BY a.used_at DESC
LIMIT $1`
	var rows []models.StaffInviteAudit
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list invite audit: %w", err)
	}
	return rows, nil
}

// Redeem consumes one use of the invite, assigns its role to userID and writes
// the audit row in a single transaction. The invite row is locked while checked.
func (r *InviteRepository) Redeem(ctx context.Context, inviteID, userID string, now time.Time) (*models.StaffInvite, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin redeem tx: %w", err)
	}

	var invite models.StaffInvite
	lock := `SELECT ` + inviteColumns + ` FROM staff_invites WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &invite, lock, inviteID); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock staff invite: %w", err)
	}
	if !invite.Usable(now) {
		_ = tx.Rollback()
		return nil, ErrInviteUnavailable
	}

	if _, err := tx.ExecContext(ctx, `UPDATE staff_invites SET uses = uses + 1 WHERE id = $1`, inviteID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("increment invite uses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE profiles SET role = $2 WHERE id = $1`, userID, invite.Role); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("assign invite role: %w", err)
	}
	const audit = `INSERT INTO staff_invite_audit (invite_id, used_by, assigned_role, used_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, audit, inviteID, userID, invite.Role, now.UTC()); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("write invite audit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit redeem tx: %w", err)
	}
	invite.Uses++
	return &invite, nil
}
