package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/pkg/config"
	"github.com/noah-isme/youth-activities-api/pkg/logger"
)

const programName = "remindctl"

var globalFlags = struct {
	debug bool
}{}

func commonRun() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if globalFlags.debug {
		cfg.Log.Level = "debug"
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logr.With(zap.String("component", programName)), nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Operate the RSVP reminder job outside the HTTP gateway",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(runCommand())
	rootCmd.AddCommand(cacheCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
