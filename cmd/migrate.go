package cmd

import (
	"item_bank_backend/pkg/database"
	"item_bank_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer logger.Log.Sync()

		db, err := database.InitDB(&cfg.Database, true)
		if err != nil {
			return err
		}
		defer database.Close(db)
		cmd.Println("数据库迁移完成")
		return nil
	},
}
