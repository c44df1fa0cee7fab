package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLedgerKeyIsPerDay(t *testing.T) {
	morning := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 6, 1, 21, 0, 0, 0, time.UTC)
	nextDay := morning.Add(24 * time.Hour)

	assert.Equal(t, LedgerKey("act-1", "u1", morning), LedgerKey("act-1", "u1", evening))
	assert.NotEqual(t, LedgerKey("act-1", "u1", morning), LedgerKey("act-1", "u1", nextDay))
	assert.Equal(t, "rsvp-reminder:sent:act-1:u1:2026-06-01", LedgerKey("act-1", "u1", morning))
}

func TestNewReminderLedgerDefaultsTTL(t *testing.T) {
	l := NewReminderLedger(nil, 0)
	assert.Equal(t, 72*time.Hour, l.ttl)
}
