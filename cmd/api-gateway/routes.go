package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/youth-activities-api/internal/app"
	"github.com/noah-isme/youth-activities-api/internal/handler"
	"github.com/noah-isme/youth-activities-api/internal/middleware"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/pkg/config"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
	"github.com/noah-isme/youth-activities-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/youth-activities-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/youth-activities-api/pkg/middleware/requestid"
	"github.com/noah-isme/youth-activities-api/pkg/response"
)

func newRouter(c *app.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(c.Metrics))
	r.Use(middleware.WithResponseMeta())

	var pinger handler.Pinger
	if c.DB != nil {
		pinger = c.DB
	}
	metricsHandler := handler.NewMetricsHandler(c.Metrics, pinger)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	runner := handler.NewReminderHandler(nil, c.Logger)
	if c.Reminders != nil {
		runner = handler.NewReminderHandler(c.Reminders, c.Logger)
	}
	cron := r.Group("/api/cron", middleware.CronSecret(cfg.Cron.Secret))
	cron.Any("/rsvp-reminders", runner.Cron)

	api := r.Group(cfg.APIPrefix)
	if c.DB == nil {
		api.Any("/*path", func(ctx *gin.Context) {
			response.Error(ctx, appErrors.ErrNotConfigured)
		})
		return r
	}

	activityHandler := handler.NewActivityHandler(c.Activities)
	policyHandler := handler.NewPolicyHandler(c.Acknowledgement)
	inviteHandler := handler.NewInviteHandler(c.Invites)
	adminHandler := handler.NewAdminHandler(c.Enrollments, c.Compliance)
	meHandler := handler.NewMeHandler(c.Auth)

	api.GET("/activities", activityHandler.List)
	api.GET("/activities/:id", activityHandler.Get)

	authed := api.Group("", middleware.JWT(c.Auth))
	authed.GET("/me", meHandler.Me)
	authed.GET("/activities/:id/rsvp", activityHandler.GetRSVP)
	authed.PUT("/activities/:id/rsvp", activityHandler.RespondRSVP)
	authed.POST("/policies/:slug/acknowledge", policyHandler.Acknowledge)
	authed.GET("/policies/:slug/acknowledgement", policyHandler.Status)
	authed.POST("/invites/redeem", inviteHandler.Redeem)

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.PUT("/enrollments", adminHandler.Enroll)
	admin.DELETE("/enrollments", adminHandler.Unenroll)
	admin.GET("/activities/:id/rsvp-report", adminHandler.RSVPReport)
	admin.GET("/acknowledgements", adminHandler.Acknowledgements)
	admin.GET("/invites", inviteHandler.List)
	admin.POST("/invites", inviteHandler.Create)
	admin.GET("/invites/audit", inviteHandler.Audit)
	admin.POST("/reminders/preview", runner.Preview)

	return r
}
