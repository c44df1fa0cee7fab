package models

import (
	"strings"
	"time"
)

// Role is the membership role stored on a profile.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
	RoleVolunteer   Role = "volunteer"
	RoleCoach       Role = "coach"
	RoleStaff       Role = "staff"
	RoleBoard       Role = "board"
	RoleAdmin       Role = "admin"
)

// ResponderRoles are the roles expected to RSVP to activities.
var ResponderRoles = []Role{RoleParticipant, RoleStudent}

// StaffRoles may access the staff area.
var StaffRoles = []Role{RoleVolunteer, RoleStaff, RoleBoard, RoleAdmin}

// IsStaff reports whether r belongs to the staff group.
func (r Role) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

// Profile is the public profile of an authenticated person.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	FullName  *string   `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Name returns the full name or an empty string.
func (p Profile) Name() string {
	if p.FullName == nil {
		return ""
	}
	return *p.FullName
}

// EmailAddress returns the trimmed email or an empty string.
func (p Profile) EmailAddress() string {
	if p.Email == nil {
		return ""
	}
	return strings.TrimSpace(*p.Email)
}

// ProfileView is returned by the /me endpoint.
type ProfileView struct {
	Profile
	IsStaff bool `json:"is_staff"`
	IsAdmin bool `json:"is_admin"`
}
