package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/together/internal/storage/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		slog.Info("Database migrated", "database", cfg.Database.Path)
		return nil
	},
}
