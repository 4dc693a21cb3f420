package cmd

import (
	"item_bank_backend/internal/config"
	"item_bank_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "itembank",
	Short: "Question bank item analysis service",
	Long:  "itembank computes difficulty (P) and discrimination (D) indices for question bank items and serves them over HTTP.",
	// 不带子命令时等同于 serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")
	rootCmd.Flags().Bool("migrate", false, "Run database migrations before serving")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig 读取 --config 指定目录的配置并初始化日志
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, "", err
	}
	logger.InitLogger(cfg)
	return cfg, dir, nil
}
