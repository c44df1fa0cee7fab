package models

import "time"

// SafeguardingPolicySlug identifies the current safeguarding policy revision.
const SafeguardingPolicySlug = "safeguarding-v1"

// PolicyAcknowledgement records that a person accepted a governance policy.
type PolicyAcknowledgement struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	PolicySlug     string    `db:"policy_slug" json:"policy_slug"`
	UserFullName   *string   `db:"user_full_name" json:"user_full_name"`
	UserEmail      *string   `db:"user_email" json:"user_email"`
	AcknowledgedAt time.Time `db:"acknowledged_at" json:"acknowledged_at"`
}
