// Command together-admin serves the admin console of the together application.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/together/internal/config"
	"github.com/mmynk/together/pkg/logging"
)

var (
	v          = config.New()
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "together-admin",
	Short:         "Admin console for the together application",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(cfg.Log.Level)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a YAML config file")
	flags.String("db", "", "path to the SQLite database (database.path)")
	flags.String("log-level", "", "debug, info, warn or error (log.level)")

	mustBind("database.path", "db")
	mustBind("log.level", "log-level")

	rootCmd.AddCommand(serveCmd, migrateCmd, createSuperuserCmd)
}

func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
