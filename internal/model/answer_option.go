package model

type AnswerOption struct {
	UUIDBase
	QuestionID   string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	OptionText   string `gorm:"type:text;not null" json:"optionText"`
	IsCorrect    bool   `gorm:"default:false" json:"isCorrect"`
	DisplayOrder int    `gorm:"default:0" json:"displayOrder"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
