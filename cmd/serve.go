package cmd

import (
	"item_bank_backend/internal/app"
	"item_bank_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Run database migrations before serving")
}

func runServe(cmd *cobra.Command) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	cfg.ForceMigrate, _ = cmd.Flags().GetBool("migrate")

	application, err := app.NewApp(cfg, dir)
	if err != nil {
		return err
	}
	return application.Run()
}
