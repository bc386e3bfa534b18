package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/floor-manager/internal/config"
	"github.com/example/floor-manager/internal/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "floormanager",
		Short:         "Restaurant floor, table and reservation manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading FLOOR_* variables")

	load := func(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg, err := config.Load()
		if err != nil {
			return config.Config{}, nil, err
		}
		logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, logger, nil
	}

	root.AddCommand(newServeCmd(load))
	root.AddCommand(newMigrateCmd(load))
	root.AddCommand(newVenuesCmd(load))
	root.AddCommand(newVersionCmd())
	return root
}

type loadFunc func(cmd *cobra.Command) (config.Config, *slog.Logger, error)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "floormanager %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
