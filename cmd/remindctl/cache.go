package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/youth-activities-api/internal/repository"
	"github.com/noah-isme/youth-activities-api/internal/service"
	"github.com/noah-isme/youth-activities-api/pkg/cache"
)

func cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the activity listing cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached activity listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logr, err := commonRun()
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck

			client, err := cache.NewRedis(cmd.Context(), cfg.Redis)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer client.Close()

			// Purging does not depend on the configured TTL.
			svc := service.NewCacheService(repository.NewCacheRepository(client, logr), nil, 1, logr)
			svc.Invalidate(cmd.Context(), service.ActivityListCachePattern)
			fmt.Fprintln(cmd.OutOrStdout(), "purged", service.ActivityListCachePattern)
			return nil
		},
	})
	return cmd
}
