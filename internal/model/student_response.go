package model

import "time"

type StudentResponse struct {
	UUIDBase
	QuestionID            string    `gorm:"index;type:varchar(36);not null" json:"questionId"`
	StudentIdentifier     string    `gorm:"size:100;index;not null" json:"studentIdentifier"`
	TestSessionIdentifier *string   `gorm:"size:100;index" json:"testSessionIdentifier"`
	ResponseText          *string   `gorm:"type:text" json:"responseText,omitempty"`
	SelectedOptionID      *string   `gorm:"type:varchar(36);index" json:"selectedOptionId,omitempty"`
	IsResponseCorrect     *bool     `json:"isResponseCorrect,omitempty"`
	SubmittedAt           time.Time `gorm:"index" json:"submittedAt"`
}

func (StudentResponse) TableName() string {
	return "student_responses"
}

// SelectedOption 判断该作答是否选择了指定选项
func (r *StudentResponse) SelectedOption(optionID string) bool {
	return r.SelectedOptionID != nil && *r.SelectedOptionID == optionID
}

func (r *StudentResponse) MarkedCorrect() bool {
	return r.IsResponseCorrect != nil && *r.IsResponseCorrect
}
