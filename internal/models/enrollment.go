package models

// Enrollment links a profile to a program type, optionally scoped to a location.
type Enrollment struct {
	UserID      string  `db:"user_id" json:"user_id"`
	ProgramType string  `db:"program_type" json:"program_type"`
	Location    *string `db:"location" json:"location"`
	Active      bool    `db:"active" json:"active"`
}

// MatchesLocation reports whether the enrollment covers location. A NULL or
// empty enrollment location matches any activity location.
func (e Enrollment) MatchesLocation(location string) bool {
	if e.Location == nil || *e.Location == "" {
		return true
	}
	return *e.Location == location
}
