package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/app"
	"github.com/noah-isme/youth-activities-api/internal/service"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

func runCommand() *cobra.Command {
	var (
		nowFlag string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one reminder run and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var now time.Time
			if nowFlag != "" {
				parsed, err := time.Parse(time.RFC3339, nowFlag)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				now = parsed
			}

			cfg, logr, err := commonRun()
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck

			ctx := cmd.Context()
			container, err := app.Build(ctx, cfg, logr, service.NewMetricsService(), app.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			container.Start(ctx)
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				if err := container.Close(closeCtx); err != nil {
					logr.Warn("shutdown", zap.Error(err))
				}
			}()

			if container.Reminders == nil {
				return appErrors.ErrNotConfigured
			}
			result, err := container.Reminders.Run(ctx, now)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "plan as of this RFC3339 instant instead of the current time")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute reminders without sending email")
	return cmd
}
