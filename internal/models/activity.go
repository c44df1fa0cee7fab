package models

import "time"

// Activity is a scheduled session for a program cohort.
type Activity struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	ProgramType string     `db:"program_type" json:"program_type"`
	Location    *string    `db:"location" json:"location"`
	StartsAt    time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt      *time.Time `db:"ends_at" json:"ends_at,omitempty"`
	AgeMin      *int       `db:"age_min" json:"age_min,omitempty"`
	AgeMax      *int       `db:"age_max" json:"age_max,omitempty"`
	Capacity    *int       `db:"capacity" json:"capacity,omitempty"`
}

// LocationValue returns the location or an empty string when unset.
func (a Activity) LocationValue() string {
	if a.Location == nil {
		return ""
	}
	return *a.Location
}

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	ProgramType string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}
