// Package app assembles the datastore, cache, mailer and services shared by the
// HTTP gateway and the remindctl command.
package app

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/repository"
	"github.com/noah-isme/youth-activities-api/internal/service"
	"github.com/noah-isme/youth-activities-api/pkg/cache"
	"github.com/noah-isme/youth-activities-api/pkg/config"
	"github.com/noah-isme/youth-activities-api/pkg/database"
	"github.com/noah-isme/youth-activities-api/pkg/mailer"
)

// Options adjusts how the container is assembled.
type Options struct {
	// DryRun builds the reminder service without a dispatcher even when email is configured.
	DryRun bool
}

// Container holds the wired dependencies. DB and the data services are nil
// when the datastore is not configured.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService

	DB    *sqlx.DB
	Redis *redis.Client

	Cache           *service.CacheService
	Dispatcher      *service.ReminderDispatcher
	Reminders       *service.ReminderService
	Activities      *service.ActivityService
	Acknowledgement *service.AcknowledgementService
	Enrollments     *service.EnrollmentService
	Invites         *service.InviteService
	Auth            *service.AuthService
	Compliance      *service.ComplianceService
}

// Build connects to the configured backends and wires every service. Redis is
// optional; a failed connection disables caching and reminder deduplication.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *service.MetricsService, opts Options) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger, Metrics: metrics}

	if !cfg.DatastoreConfigured() {
		logger.Warn("datastore not configured; data endpoints disabled")
		return c, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Datastore)
	if err != nil {
		return nil, err
	}
	c.DB = db

	if cfg.Activity.CacheTTL > 0 || cfg.Reminders.DedupEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable; caching and reminder dedup disabled", zap.Error(err))
		} else {
			c.Redis = client
		}
	}

	activities := repository.NewActivityRepository(db)
	profiles := repository.NewProfileRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	rsvps := repository.NewRSVPRepository(db)
	acks := repository.NewAcknowledgementRepository(db)
	invites := repository.NewInviteRepository(db)

	if c.Redis != nil {
		c.Cache = service.NewCacheService(repository.NewCacheRepository(c.Redis, logger), metrics, cfg.Activity.CacheTTL, logger)
	}

	composer := service.NewReminderComposer(cfg.Reminders.DisplayTimezone)
	deps := service.ReminderDeps{
		Activities:  activities,
		Profiles:    profiles,
		Enrollments: enrollments,
		RSVPs:       rsvps,
		Metrics:     metrics,
		Logger:      logger,
	}
	if notifier := mailer.New(cfg.Email); notifier != nil && !opts.DryRun {
		dispatcherCfg := service.DispatcherConfig{
			Notifier: notifier,
			Composer: composer,
			Mode:     cfg.Reminders.DispatchMode,
			Workers:  cfg.Reminders.DispatchWorkers,
			Metrics:  metrics,
			Logger:   logger,
		}
		if cfg.Reminders.DedupEnabled && c.Redis != nil {
			dispatcherCfg.Ledger = repository.NewReminderLedger(c.Redis, cfg.Reminders.DedupTTL)
		}
		c.Dispatcher = service.NewReminderDispatcher(dispatcherCfg)
		deps.Dispatcher = c.Dispatcher
	}
	c.Reminders = service.NewReminderService(deps)

	c.Activities = service.NewActivityService(activities, rsvps, c.Cache, nil, logger)
	c.Acknowledgement = service.NewAcknowledgementService(acks, logger)
	c.Enrollments = service.NewEnrollmentService(enrollments, profiles, nil, logger)
	c.Invites = service.NewInviteService(invites, nil, logger)
	c.Auth = service.NewAuthService(profiles, cfg.Auth.JWTSecret, logger)
	c.Compliance = service.NewComplianceService(service.ComplianceDeps{
		Activities:  activities,
		Profiles:    profiles,
		Enrollments: enrollments,
		RSVPs:       rsvps,
		Acks:        acks,
		Location:    composer.Location(),
		Logger:      logger,
	})

	return c, nil
}

// Start launches background workers.
func (c *Container) Start(ctx context.Context) {
	if c.Dispatcher != nil {
		c.Dispatcher.Start(ctx)
	}
}

// Close drains queued reminder emails and releases connections.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.Dispatcher != nil {
		if err := c.Dispatcher.Drain(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
