package models

import "time"

// ReminderRecord describes one reminder owed to a non-responder. Field names
// are part of the cron endpoint contract.
type ReminderRecord struct {
	ActivityID        string    `json:"activity_id"`
	ActivityTitle     string    `json:"activity_title"`
	ActivityStartTime time.Time `json:"activity_start_time"`
	ActivityLocation  *string   `json:"activity_location"`
	UserID            string    `json:"user_id"`
	UserName          *string   `json:"user_name"`
	UserEmail         string    `json:"user_email"`
}

// ReminderRunResult is the outcome of one reminder run.
type ReminderRunResult struct {
	OK                bool             `json:"ok"`
	ActivitiesChecked int              `json:"activities_checked"`
	Reminders         int              `json:"reminders"`
	EmailEnabled      bool             `json:"email_enabled"`
	Preview           []ReminderRecord `json:"preview"`
}

// DispatchOutcome summarises delivery of a run's dispatch intents. It is kept
// out of the cron response. Queued intents are delivered after the run returns.
type DispatchOutcome struct {
	Attempted int
	Sent      int
	Failed    int
	Skipped   int
	Queued    int
}
