package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ledgerPrefix = "rsvp-reminder:sent"

// ReminderLedger records which reminders were already sent so overlapping or
// repeated runs do not email the same person twice for an activity on one day.
type ReminderLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderLedger constructs the ledger.
func NewReminderLedger(client *redis.Client, ttl time.Duration) *ReminderLedger {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ReminderLedger{client: client, ttl: ttl}
}

// LedgerKey builds the idempotency key for a reminder.
func LedgerKey(activityID, userID string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", ledgerPrefix, activityID, userID, day.UTC().Format("2006-01-02"))
}

// Claim atomically reserves the key, returning false when it was already taken.
func (l *ReminderLedger) Claim(ctx context.Context, activityID, userID string, day time.Time) (bool, error) {
	ok, err := l.client.SetNX(ctx, LedgerKey(activityID, userID, day), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim reminder ledger: %w", err)
	}
	return ok, nil
}

// Release frees a claim after a failed send so the next run may retry it.
func (l *ReminderLedger) Release(ctx context.Context, activityID, userID string, day time.Time) error {
	if err := l.client.Del(ctx, LedgerKey(activityID, userID, day)).Err(); err != nil {
		return fmt.Errorf("release reminder ledger: %w", err)
	}
	return nil
}
