package repository

import (
	"context"
	"item_bank_backend/internal/model"

	"gorm.io/gorm"
)

type StudentResponseRepository struct {
	DB *gorm.DB
}

func NewStudentResponseRepository(db *gorm.DB) *StudentResponseRepository {
	return &StudentResponseRepository{DB: db}
}

func (r *StudentResponseRepository) CreateBatch(ctx context.Context, responses []model.StudentResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(&responses, 200).Error
}

// ListForAnalysis 按场次取作答；session 为 nil 时只取未归属任何场次的作答
func (r *StudentResponseRepository) ListForAnalysis(ctx context.Context, questionID string, session *string) ([]model.StudentResponse, error) {
	var responses []model.StudentResponse
	query := r.DB.WithContext(ctx).Where("question_id = ?", questionID)
	if session = model.NormalizeSession(session); session != nil {
		query = query.Where("test_session_identifier = ?", *session)
	} else {
		query = query.Where("test_session_identifier IS NULL")
	}
	err := query.Order("submitted_at asc, id asc").Find(&responses).Error
	return responses, err
}

// ListByQuestion 不区分场次
func (r *StudentResponseRepository) ListByQuestion(ctx context.Context, questionID string) ([]model.StudentResponse, error) {
	var responses []model.StudentResponse
	err := r.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("submitted_at asc, id asc").
		Find(&responses).Error
	return responses, err
}
