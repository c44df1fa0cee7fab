package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/pkg/config"
	"github.com/noah-isme/youth-activities-api/pkg/jobs"
	"github.com/noah-isme/youth-activities-api/pkg/logger"
)

const reminderJobType = "rsvp_reminder_email"

// Notifier delivers a single email. Implementations are best effort.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}

type reminderLedger interface {
	Claim(ctx context.Context, activityID, userID string, day time.Time) (bool, error)
	Release(ctx context.Context, activityID, userID string, day time.Time) error
}

// DispatcherConfig configures ReminderDispatcher. Ledger is optional.
type DispatcherConfig struct {
	Notifier Notifier
	Composer *ReminderComposer
	Ledger   reminderLedger
	Mode     string
	Workers  int
	Metrics  *MetricsService
	Logger   *zap.Logger
}

// ReminderDispatcher turns dispatch intents into emails, inline or through a
// background worker pool. Delivery failures are logged and counted, never retried.
type ReminderDispatcher struct {
	notifier Notifier
	composer *ReminderComposer
	ledger   reminderLedger
	queue    *jobs.Queue
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewReminderDispatcher constructs the dispatcher. In queue mode the worker pool
// must be started with Start before Dispatch is called.
func NewReminderDispatcher(cfg DispatcherConfig) *ReminderDispatcher {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Composer == nil {
		cfg.Composer = NewReminderComposer("")
	}
	d := &ReminderDispatcher{
		notifier: cfg.Notifier,
		composer: cfg.Composer,
		ledger:   cfg.Ledger,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	if cfg.Mode == config.DispatchModeQueue {
		d.queue = jobs.NewQueue("rsvp-reminders", d.handleJob, jobs.QueueConfig{
			Workers:    cfg.Workers,
			MaxRetries: -1,
			Logger:     cfg.Logger,
		})
	}
	return d
}

// Start launches the worker pool when running in queue mode.
func (d *ReminderDispatcher) Start(ctx context.Context) {
	if d.queue != nil {
		d.queue.Start(ctx)
	}
}

// Drain waits for queued emails to finish and stops the worker pool.
func (d *ReminderDispatcher) Drain(ctx context.Context) error {
	if d.queue == nil {
		return nil
	}
	return d.queue.Drain(ctx)
}

// Dispatch delivers every intent. It never fails the caller.
func (d *ReminderDispatcher) Dispatch(ctx context.Context, intents []DispatchIntent) models.DispatchOutcome {
	var outcome models.DispatchOutcome
	log := logger.ForContext(ctx, d.logger)

	for _, intent := range intents {
		if d.queue != nil {
			err := d.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: reminderJobType, Payload: intent})
			if err == nil {
				outcome.Queued++
				continue
			}
			log.Warn("reminder queue unavailable, sending inline",
				zap.String("activity_id", intent.Record.ActivityID),
				zap.Error(err))
		}

		outcome.Attempted++
		result, err := d.deliver(ctx, intent)
		switch result {
		case EmailOutcomeSent:
			outcome.Sent++
		case EmailOutcomeSkipped:
			outcome.Skipped++
		default:
			outcome.Failed++
			log.Warn("rsvp reminder email failed",
				zap.String("activity_id", intent.Record.ActivityID),
				zap.String("user_id", intent.Record.UserID),
				zap.Error(err))
		}
	}
	return outcome
}

func (d *ReminderDispatcher) handleJob(ctx context.Context, job jobs.Job) error {
	intent, ok := job.Payload.(DispatchIntent)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	_, err := d.deliver(ctx, intent)
	return err
}

func (d *ReminderDispatcher) deliver(ctx context.Context, intent DispatchIntent) (string, error) {
	record := intent.Record
	claimed := false
	if d.ledger != nil {
		ok, err := d.ledger.Claim(ctx, record.ActivityID, record.UserID, intent.Day)
		switch {
		case err != nil:
			logger.ForContext(ctx, d.logger).Warn("reminder ledger unavailable",
				zap.String("activity_id", record.ActivityID),
				zap.String("user_id", record.UserID),
				zap.Error(err))
		case !ok:
			d.metrics.RecordReminderEmail(EmailOutcomeSkipped)
			return EmailOutcomeSkipped, nil
		default:
			claimed = true
		}
	}

	err := d.send(ctx, record)
	if err != nil {
		if claimed {
			if relErr := d.ledger.Release(ctx, record.ActivityID, record.UserID, intent.Day); relErr != nil {
				logger.ForContext(ctx, d.logger).Warn("failed to release reminder ledger", zap.Error(relErr))
			}
		}
		d.metrics.RecordReminderEmail(EmailOutcomeFailed)
		return EmailOutcomeFailed, err
	}

	d.metrics.RecordReminderEmail(EmailOutcomeSent)
	return EmailOutcomeSent, nil
}

func (d *ReminderDispatcher) send(ctx context.Context, record models.ReminderRecord) error {
	if d.notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	msg, err := d.composer.Compose(record)
	if err != nil {
		return err
	}
	return d.notifier.Send(ctx, msg.To, msg.Subject, msg.HTML)
}
