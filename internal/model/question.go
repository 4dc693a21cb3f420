package model

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
)

// swagger:model Question
type Question struct {
	UUIDBase
	CreatedByUserID           uint           `gorm:"index;not null" json:"createdByUserId"`
	Content                   string         `gorm:"type:text;not null" json:"content"`
	QuestionType              QuestionType   `gorm:"size:50;not null;index" json:"questionType"`
	Subject                   string         `gorm:"size:100;index" json:"subject"`
	Topic                     string         `gorm:"size:100;index" json:"topic"`
	InitialDifficultyEstimate string         `gorm:"size:20" json:"initialDifficultyEstimate,omitempty"`
	CorrectAnswerText         *string        `gorm:"type:text" json:"correctAnswerText,omitempty"`
	AnswerOptions             []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answerOptions"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectOptionID 返回按展示顺序第一个标记为正确的选项
func (q *Question) CorrectOptionID() (string, bool) {
	if q.QuestionType != MultipleChoice {
		return "", false
	}
	for _, opt := range q.AnswerOptions {
		if opt.IsCorrect {
			return opt.ID, true
		}
	}
	return "", false
}
