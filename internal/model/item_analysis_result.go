package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemAnalysisResult 每个 (question, session) 仅一行。
// SessionKey 为规范化后的场次标识，无场次时为空字符串，使唯一索引对"无场次"同样生效。
type ItemAnalysisResult struct {
	ID                     string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	QuestionID             string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_question_session_analysis,priority:1" json:"questionId"`
	SessionKey             string    `gorm:"size:100;not null;default:'';uniqueIndex:uq_question_session_analysis,priority:2" json:"-"`
	TestSessionIdentifier  *string   `gorm:"size:100;index" json:"testSessionIdentifier"`
	DifficultyIndex        *float64  `gorm:"type:decimal(5,4)" json:"difficultyIndex"`
	DiscriminationIndex    *float64  `gorm:"type:decimal(5,4)" json:"discriminationIndex"`
	ResponsesAnalyzedCount int       `gorm:"not null;default:0" json:"responsesAnalyzedCount"`
	LastAnalyzedAt         time.Time `gorm:"not null" json:"lastAnalyzedAt"`
	CreatedAt              time.Time `json:"-"`
	UpdatedAt              time.Time `json:"-"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question,omitempty"`
}

func (ItemAnalysisResult) TableName() string {
	return "item_analysis_results"
}

func (r *ItemAnalysisResult) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// NormalizeSession 空字符串与未提供场次等价
func NormalizeSession(session *string) *string {
	if session == nil || *session == "" {
		return nil
	}
	return session
}

// SessionKeyOf 将可空的场次标识规范化为唯一索引使用的键
func SessionKeyOf(session *string) string {
	if session = NormalizeSession(session); session == nil {
		return ""
	}
	return *session
}
