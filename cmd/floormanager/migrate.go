package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/floor-manager/internal/config"
)

var errMigrateNeedsSQLite = errors.New("migrations apply to sqlite storage only")

func newMigrateCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage != config.StorageSQLite {
				return errMigrateNeedsSQLite
			}
			storage, err := openSQLite(cfg, logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			applied, err := storage.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage != config.StorageSQLite {
				return errMigrateNeedsSQLite
			}
			storage, err := openSQLite(cfg, logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			status, err := storage.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}
			current := status.CurrentVersion
			if current == "" {
				current = "none"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "current version: %s\n", current)
			fmt.Fprintf(out, "pending: %d\n", status.PendingCount)
			for _, m := range status.PendingMigrations {
				fmt.Fprintf(out, "  %s %s\n", m.Version, m.Description)
			}
			return nil
		},
	})
	return cmd
}

func newVenuesCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List venues with a stored floor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load(cmd)
			if err != nil {
				return err
			}
			repo, err := openRepository(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			venues, err := repo.ListVenues(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range venues {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}
