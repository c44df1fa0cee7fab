package models

import "time"

// StaffInvite grants a staff role to whoever redeems its code.
type StaffInvite struct {
	ID         string     `db:"id" json:"id"`
	Role       Role       `db:"role" json:"role"`
	SecretHash string     `db:"secret_hash" json:"-"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at"`
	MaxUses    int        `db:"max_uses" json:"max_uses"`
	Uses       int        `db:"uses" json:"uses"`
	CreatedBy  *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Usable reports whether the invite can still be redeemed at now.
func (i StaffInvite) Usable(now time.Time) bool {
	if i.ExpiresAt != nil && !now.Before(*i.ExpiresAt) {
		return false
	}
	return i.Uses < i.MaxUses
}

// StaffInviteAudit records a redemption. Name and email are joined from the
// redeeming profile when listed.
type StaffInviteAudit struct {
	InviteID     string    `db:"invite_id" json:"invite_id"`
	UsedBy       string    `db:"used_by" json:"used_by"`
	AssignedRole Role      `db:"assigned_role" json:"assigned_role"`
	UsedAt       time.Time `db:"used_at" json:"used_at"`
	UserFullName *string   `db:"user_full_name" json:"user_full_name"`
	UserEmail    *string   `db:"user_email" json:"user_email"`
}

// CreatedInvite is returned once, when the invite code is still known.
type CreatedInvite struct {
	StaffInvite
	InviteCode string `json:"invite_code"`
}
