package service

import (
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/model"
	"item_bank_backend/internal/util"
	"math"
	"sort"
)

const (
	indexPrecision      = 4
	percentagePrecision = 2
)

// ComputeDifficulty 计算难度指数（P 值），即答对比例。
// 无作答或题型不支持时返回 nil；单选题未设置正确选项时返回 0。
func ComputeDifficulty(q *model.Question, responses []model.StudentResponse) *float64 {
	total := len(responses)
	if total == 0 {
		return nil
	}

	correct := 0
	switch q.QuestionType {
	case model.MultipleChoice:
		optionID, ok := q.CorrectOptionID()
		if !ok {
			zero := 0.0
			return &zero
		}
		for i := range responses {
			if responses[i].SelectedOption(optionID) {
				correct++
			}
		}
	case model.ShortAnswer, model.Essay:
		for i := range responses {
			if responses[i].MarkedCorrect() {
				correct++
			}
		}
	default:
		return nil
	}

	p := util.RoundTo(float64(correct)/float64(total), indexPrecision)
	return &p
}

type scoredResponse struct {
	response model.StudentResponse
	score    float64
}

// ComputeDiscrimination 计算区分度（D 值）= 高分组 P - 低分组 P。
// 分组依据调用方提供的测验总分；数据不足时返回 nil。
func ComputeDiscrimination(q *model.Question, responses []model.StudentResponse, totalScores map[string]float64, cfg config.AnalysisConfig) *float64 {
	if len(responses) == 0 || len(totalScores) == 0 || len(responses) < cfg.MinResponses {
		return nil
	}

	joined := make([]scoredResponse, 0, len(responses))
	for _, res := range responses {
		if score, ok := totalScores[res.StudentIdentifier]; ok {
			joined = append(joined, scoredResponse{response: res, score: score})
		}
	}
	if len(joined) < cfg.MinResponses {
		return nil
	}

	// 同分保持输入顺序
	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].score > joined[j].score
	})

	upper, lower, ok := splitGroups(joined, cfg)
	if !ok {
		return nil
	}

	pu := ComputeDifficulty(q, upper)
	pl := ComputeDifficulty(q, lower)
	if pu == nil || pl == nil {
		return nil
	}

	d := util.RoundTo(*pu-*pl, indexPrecision)
	return &d
}

// splitGroups 取前后各 ceil(n*fraction) 人；组太小时退化为中位数二分
func splitGroups(sorted []scoredResponse, cfg config.AnalysisConfig) (upper, lower []model.StudentResponse, ok bool) {
	n := len(sorted)
	groupSize := int(math.Ceil(float64(n) * cfg.GroupFraction))

	if groupSize >= cfg.MinGroupSize {
		if !cfg.AllowGroupOverlap && 2*groupSize > n {
			groupSize = n / 2
		}
		return responsesOf(sorted[:groupSize]), responsesOf(sorted[n-groupSize:]), true
	}

	if n < cfg.MinMedianSplit {
		return nil, nil, false
	}
	mid := n / 2
	return responsesOf(sorted[:mid]), responsesOf(sorted[mid:]), true
}

func responsesOf(items []scoredResponse) []model.StudentResponse {
	out := make([]model.StudentResponse, len(items))
	for i := range items {
		out[i] = items[i].response
	}
	return out
}

// ComputeOptionStats 统计单选题各选项被选次数及占比，按选项展示顺序输出
func ComputeOptionStats(q *model.Question, responses []model.StudentResponse) (*model.QuestionOptionStats, error) {
	if q.QuestionType != model.MultipleChoice {
		return nil, util.ErrUnsupportedQuestionType
	}

	total := len(responses)
	stats := &model.QuestionOptionStats{
		QuestionID:                q.ID,
		QuestionContent:           q.Content,
		QuestionType:              q.QuestionType,
		TotalResponsesForQuestion: total,
		OptionsStats:              make([]model.OptionStatData, 0, len(q.AnswerOptions)),
	}

	counts := make(map[string]int, len(q.AnswerOptions))
	for i := range responses {
		if responses[i].SelectedOptionID != nil {
			counts[*responses[i].SelectedOptionID]++
		}
	}

	for _, opt := range q.AnswerOptions {
		count := counts[opt.ID]
		percentage := 0.0
		if total > 0 {
			percentage = util.RoundTo(float64(count)/float64(total)*100, percentagePrecision)
		}
		stats.OptionsStats = append(stats.OptionsStats, model.OptionStatData{
			OptionID:            opt.ID,
			OptionText:          opt.OptionText,
			IsCorrect:           opt.IsCorrect,
			SelectionCount:      count,
			SelectionPercentage: percentage,
		})
	}

	return stats, nil
}
