package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/noah-isme/youth-activities-api/internal/models"
)

const (
	reminderTimeLayout      = "2006-01-02 15:04:05"
	reminderLocationDefault = "See details in the platform"
	defaultDisplayTimezone  = "Europe/Stockholm"
)

var reminderBodyTemplate = template.Must(template.New("rsvp-reminder").Parse(`<div style="font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;line-height:1.45">
  <h2 style="margin:0 0 12px">RSVP required</h2>
  <p>Hello{{if .Name}} {{.Name}}{{end}},</p>
  <p>Please RSVP for the upcoming session:</p>
  <ul>
    <li><strong>{{.Title}}</strong></li>
    <li><strong>When:</strong> {{.When}}</li>
    <li><strong>Where:</strong> {{.Where}}</li>
  </ul>
  <p>Log in and respond in the Activities page.</p>
  <p style="color:#666;font-size:12px;margin-top:18px">07-20 Youth Development Initiative • Trollhättan, Sweden</p>
</div>
`))

// ReminderMessage is a rendered reminder email.
type ReminderMessage struct {
	To      string
	Subject string
	HTML    string
}

// ReminderComposer renders reminder emails with times shown in a fixed location.
type ReminderComposer struct {
	location *time.Location
}

// NewReminderComposer loads the display timezone, falling back to Europe/Stockholm
// and finally UTC when the tz database is unavailable.
func NewReminderComposer(timezone string) *ReminderComposer {
	if timezone == "" {
		timezone = defaultDisplayTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc, err = time.LoadLocation(defaultDisplayTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	return &ReminderComposer{location: loc}
}

// Location returns the display timezone.
func (c *ReminderComposer) Location() *time.Location {
	return c.location
}

// Compose renders the subject and HTML body for one reminder record.
func (c *ReminderComposer) Compose(record models.ReminderRecord) (ReminderMessage, error) {
	when := record.ActivityStartTime.In(c.location).Format(reminderTimeLayout)
	where := reminderLocationDefault
	if record.ActivityLocation != nil && *record.ActivityLocation != "" {
		where = *record.ActivityLocation
	}
	name := ""
	if record.UserName != nil {
		name = *record.UserName
	}

	var body bytes.Buffer
	err := reminderBodyTemplate.Execute(&body, struct {
		Name, Title, When, Where string
	}{Name: name, Title: record.ActivityTitle, When: when, Where: where})
	if err != nil {
		return ReminderMessage{}, fmt.Errorf("render reminder email: %w", err)
	}

	return ReminderMessage{
		To:      record.UserEmail,
		Subject: fmt.Sprintf("RSVP required: %s (%s)", record.ActivityTitle, when),
		HTML:    body.String(),
	}, nil
}
