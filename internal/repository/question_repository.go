package repository

import (
	"context"
	"item_bank_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("answer_options.display_order asc, answer_options.created_at asc")
}

// FindByID 预加载按展示顺序排列的选项
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		Preload("AnswerOptions", orderedOptions).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 连同选项一起写入
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("created_by_user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) ListRecent(ctx context.Context, limit int) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).
		Preload("AnswerOptions", orderedOptions).
		Order("created_at desc").
		Limit(limit).
		Find(&qs).Error
	return qs, err
}
