package cmd

import (
	"encoding/json"
	"fmt"
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/repository"
	"item_bank_backend/internal/service"
	"item_bank_backend/internal/util"
	"item_bank_backend/pkg/database"
	"item_bank_backend/pkg/logger"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run item analysis for one question and print the stored result",
	Example: `  itembank analyze --question 3f6c... --session midterm-2024 --scores scores.json
  # scores.json: {"student-1": 87.5, "student-2": 42}`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("question", "", "Question ID (required)")
	analyzeCmd.Flags().String("session", "", "Test session identifier; empty analyzes responses without a session")
	analyzeCmd.Flags().String("scores", "", "JSON file mapping student identifier to total test score")
	_ = analyzeCmd.MarkFlagRequired("question")
}

// readScores 未指定文件时返回 nil，只计算难度
func readScores(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64)
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("parse scores file %s: %w", path, err)
	}
	return scores, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	questionID, _ := cmd.Flags().GetString("question")
	session, _ := cmd.Flags().GetString("session")
	scoresPath, _ := cmd.Flags().GetString("scores")

	scores, err := readScores(scoresPath)
	if err != nil {
		return err
	}

	svc, closeFn, err := newAnalysisService(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.GetOrCreateAnalysis(cmd.Context(), questionID, util.OptionalString(session), scores)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newAnalysisService(cfg *config.Config) (*service.ItemAnalysisService, func(), error) {
	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		return nil, nil, err
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		database.Close(db)
		return nil, nil, err
	}

	var locker service.KeyLocker
	if rdb != nil {
		locker = service.NewRedisKeyLocker(rdb)
	}

	svc := service.NewItemAnalysisService(
		repository.NewQuestionRepository(db),
		repository.NewStudentResponseRepository(db),
		repository.NewItemAnalysisRepository(db),
		locker,
		cfg.Analysis,
	)

	closeFn := func() {
		if rdb != nil {
			rdb.Close()
		}
		database.Close(db)
	}
	return svc, closeFn, nil
}
