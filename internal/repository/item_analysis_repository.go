package repository

import (
	"context"
	"item_bank_backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemAnalysisRepository struct {
	DB *gorm.DB
}

func NewItemAnalysisRepository(db *gorm.DB) *ItemAnalysisRepository {
	return &ItemAnalysisRepository{DB: db}
}

func (r *ItemAnalysisRepository) FindByQuestionAndSession(ctx context.Context, questionID string, session *string) (*model.ItemAnalysisResult, error) {
	var res model.ItemAnalysisResult
	err := r.DB.WithContext(ctx).
		Where("question_id = ? AND session_key = ?", questionID, model.SessionKeyOf(session)).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Upsert 以 (question_id, session_key) 为键插入或覆盖，返回落库后的行
func (r *ItemAnalysisRepository) Upsert(ctx context.Context, res *model.ItemAnalysisResult) (*model.ItemAnalysisResult, error) {
	res.TestSessionIdentifier = model.NormalizeSession(res.TestSessionIdentifier)
	res.SessionKey = model.SessionKeyOf(res.TestSessionIdentifier)
	if res.LastAnalyzedAt.IsZero() {
		res.LastAnalyzedAt = time.Now()
	}

	var saved model.ItemAnalysisResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "question_id"}, {Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"test_session_identifier",
				"difficulty_index",
				"discrimination_index",
				"responses_analyzed_count",
				"last_analyzed_at",
				"updated_at",
			}),
		}).Create(res).Error
		if err != nil {
			return err
		}
		return tx.Where("question_id = ? AND session_key = ?", res.QuestionID, res.SessionKey).First(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListSummary 结果按最近分析时间倒序，并带出题目元数据
func (r *ItemAnalysisRepository) ListSummary(ctx context.Context, f model.AnalysisSummaryFilter) ([]model.ItemAnalysisResult, error) {
	query := r.DB.WithContext(ctx).
		Model(&model.ItemAnalysisResult{}).
		Select("item_analysis_results.*").
		Joins("JOIN questions ON questions.id = item_analysis_results.question_id")

	if f.Subject != "" {
		query = query.Where("LOWER(questions.subject) LIKE ?", "%"+strings.ToLower(f.Subject)+"%")
	}
	if f.Topic != "" {
		query = query.Where("LOWER(questions.topic) LIKE ?", "%"+strings.ToLower(f.Topic)+"%")
	}
	if f.QuestionType != "" {
		query = query.Where("questions.question_type = ?", f.QuestionType)
	}
	if f.MinResponses > 0 {
		query = query.Where("item_analysis_results.responses_analyzed_count >= ?", f.MinResponses)
	}

	var results []model.ItemAnalysisResult
	err := query.
		Preload("Question").
		Order("item_analysis_results.last_analyzed_at desc, item_analysis_results.id asc").
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&results).Error
	return results, err
}

// ListLowestDiscrimination 区分度最差的若干题
func (r *ItemAnalysisRepository) ListLowestDiscrimination(ctx context.Context, limit int) ([]model.ItemAnalysisResult, error) {
	var results []model.ItemAnalysisResult
	err := r.DB.WithContext(ctx).
		Preload("Question").
		Where("discrimination_index IS NOT NULL").
		Order("discrimination_index asc").
		Limit(limit).
		Find(&results).Error
	return results, err
}

type CreatorAverages struct {
	AvgPValue *float64 `gorm:"column:avg_p_value"`
	AvgDIndex *float64 `gorm:"column:avg_d_index"`
}

// AveragesByCreator 某位教师所出题目的平均 P 值与 D 值
func (r *ItemAnalysisRepository) AveragesByCreator(ctx context.Context, userID uint) (*CreatorAverages, error) {
	var avg CreatorAverages
	err := r.DB.WithContext(ctx).
		Model(&model.ItemAnalysisResult{}).
		Select("AVG(item_analysis_results.difficulty_index) AS avg_p_value, AVG(item_analysis_results.discrimination_index) AS avg_d_index").
		Joins("JOIN questions ON questions.id = item_analysis_results.question_id").
		Where("questions.created_by_user_id = ?", userID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return &avg, nil
}
