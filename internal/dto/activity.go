package dto

import (
	"time"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

// ActivityListResult is the cached payload of an activity listing page.
type ActivityListResult struct {
	Items      []models.Activity  `json:"items"`
	Pagination *models.Pagination `json:"pagination"`
}

// RSVPRequest captures PUT /activities/:id/rsvp payload.
type RSVPRequest struct {
	Status models.RSVPStatus `json:"status" validate:"required,oneof=attending not_attending maybe"`
}

// AcknowledgementStatus answers GET /policies/:slug/acknowledgement.
type AcknowledgementStatus struct {
	PolicySlug   string `json:"policy_slug"`
	Acknowledged bool   `json:"acknowledged"`
}

// ReminderPreviewRequest lets an admin plan reminders for an arbitrary instant.
type ReminderPreviewRequest struct {
	Now *time.Time `json:"now,omitempty"`
}
