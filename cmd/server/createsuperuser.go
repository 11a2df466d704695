package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/together/internal/auth"
	"github.com/mmynk/together/internal/storage/sqlite"
)

var (
	superuserName     string
	superuserEmail    string
	superuserPassword string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a staff user that can sign in to the console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := auth.NewPasswordAuthenticator(store).
			CreateStaff(cmd.Context(), superuserName, superuserEmail, superuserPassword)
		if err != nil {
			return fmt.Errorf("failed to create superuser: %w", err)
		}

		slog.Info("Superuser created", "user_id", user.ID, "username", user.Username)
		return nil
	},
}

func init() {
	flags := createSuperuserCmd.Flags()
	flags.StringVar(&superuserName, "username", "", "login name")
	flags.StringVar(&superuserEmail, "email", "", "email address (optional)")
	flags.StringVar(&superuserPassword, "password", "", "password, at least 8 characters")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("password")
}
