package models

import "time"

// RSVPStatus is the answer a person gave for an activity.
type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not_attending"
	RSVPMaybe        RSVPStatus = "maybe"
)

// RSVP records that a person responded to an activity.
type RSVP struct {
	ActivityID  string     `db:"activity_id" json:"activity_id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Status      RSVPStatus `db:"status" json:"status"`
	RespondedAt *time.Time `db:"responded_at" json:"responded_at,omitempty"`
}
