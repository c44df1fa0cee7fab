package dto

import (
	"time"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

// EnrollmentRequest identifies an enrollment by user, program type and optional location.
type EnrollmentRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	ProgramType string  `json:"program_type" validate:"required"`
	Location    *string `json:"location,omitempty"`
}

// CreateInviteRequest captures POST /admin/invites payload.
type CreateInviteRequest struct {
	Role          models.Role `json:"role" validate:"required,oneof=volunteer staff board admin"`
	ExpiresInDays int         `json:"expires_in_days" validate:"required,min=1,max=365"`
	MaxUses       int         `json:"max_uses" validate:"required,min=1,max=1000"`
}

// RedeemInviteRequest captures POST /invites/redeem payload.
type RedeemInviteRequest struct {
	Code string `json:"code" validate:"required"`
}

// RedeemInviteResponse reports the role granted by an invite.
type RedeemInviteResponse struct {
	Role models.Role `json:"role"`
}

// RSVPReportEntry is one line of the RSVP compliance report.
type RSVPReportEntry struct {
	UserID      string             `json:"user_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Status      *models.RSVPStatus `json:"status,omitempty"`
	RespondedAt *time.Time         `json:"responded_at,omitempty"`
}

// RSVPReport summarises who answered an activity and who still owes an answer.
type RSVPReport struct {
	Activity      models.Activity   `json:"activity"`
	Responded     []RSVPReportEntry `json:"responded"`
	NotResponded  []RSVPReportEntry `json:"not_responded"`
	ExpectedCount int               `json:"expected_count"`
}
