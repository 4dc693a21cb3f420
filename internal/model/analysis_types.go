package model

// QuestionOptionStats 单选题各选项的选择分布
type QuestionOptionStats struct {
	QuestionID                string           `json:"questionId"`
	QuestionContent           string           `json:"questionContent"`
	QuestionType              QuestionType     `json:"questionType"`
	TotalResponsesForQuestion int              `json:"totalResponsesForQuestion"`
	OptionsStats              []OptionStatData `json:"optionsStats"`
}

type OptionStatData struct {
	OptionID            string  `json:"optionId"`
	OptionText          string  `json:"optionText"`
	IsCorrect           bool    `json:"isCorrect"`
	SelectionCount      int     `json:"selectionCount"`
	SelectionPercentage float64 `json:"selectionPercentage"`
}

// AnalysisSummaryFilter 汇总列表的筛选条件
type AnalysisSummaryFilter struct {
	Subject      string
	Topic        string
	QuestionType string
	MinResponses int
	Skip         int
	Limit        int
}

type AdminDashboardStats struct {
	TotalQuestions  int64                `json:"totalQuestions"`
	TotalUsers      int64                `json:"totalUsers"`
	RecentQuestions []Question           `json:"recentQuestions"`
	WorstQuestions  []ItemAnalysisResult `json:"worstQuestions"`
}

type TeacherDashboardStats struct {
	TotalQuestionsCreated int64    `json:"totalQuestionsCreated"`
	AveragePValue         *float64 `json:"averagePValue"`
	AverageDIndex         *float64 `json:"averageDIndex"`
}
