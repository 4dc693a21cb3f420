package service

import (
	"fmt"
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/model"
	"item_bank_backend/internal/util"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func mcQuestion(correct ...bool) *model.Question {
	q := &model.Question{QuestionType: model.MultipleChoice, Content: "2 + 2 = ?"}
	q.ID = "q1"
	for i, c := range correct {
		opt := model.AnswerOption{
			QuestionID:   q.ID,
			OptionText:   fmt.Sprintf("option %c", 'A'+i),
			IsCorrect:    c,
			DisplayOrder: i,
		}
		opt.ID = fmt.Sprintf("opt-%c", 'A'+i)
		q.AnswerOptions = append(q.AnswerOptions, opt)
	}
	return q
}

func choose(student, optionID string) model.StudentResponse {
	r := model.StudentResponse{QuestionID: "q1", StudentIdentifier: student}
	if optionID != "" {
		r.SelectedOptionID = strPtr(optionID)
	}
	return r
}

func TestComputeDifficulty_MultipleChoice(t *testing.T) {
	q := mcQuestion(true, false, false, false)

	var responses []model.StudentResponse
	for i := 0; i < 10; i++ {
		opt := "opt-B"
		if i < 6 {
			opt = "opt-A"
		}
		responses = append(responses, choose(fmt.Sprintf("s%d", i), opt))
	}

	p := ComputeDifficulty(q, responses)
	require.NotNil(t, p)
	assert.Equal(t, 0.6, *p)
}

func TestComputeDifficulty_EmptyIsNil(t *testing.T) {
	assert.Nil(t, ComputeDifficulty(mcQuestion(true, false), nil))
	assert.Nil(t, ComputeDifficulty(&model.Question{QuestionType: model.Essay}, []model.StudentResponse{}))
}

func TestComputeDifficulty_NoCorrectOptionIsZero(t *testing.T) {
	q := mcQuestion(false, false, false)
	responses := []model.StudentResponse{choose("s1", "opt-A"), choose("s2", "opt-B")}

	p := ComputeDifficulty(q, responses)
	require.NotNil(t, p)
	assert.Equal(t, 0.0, *p)
}

func TestComputeDifficulty_FirstCorrectOptionWins(t *testing.T) {
	q := mcQuestion(false, true, true)
	responses := []model.StudentResponse{choose("s1", "opt-B"), choose("s2", "opt-C"), choose("s3", "")}

	p := ComputeDifficulty(q, responses)
	require.NotNil(t, p)
	assert.Equal(t, 0.3333, *p)
}

func TestComputeDifficulty_GradedTypes(t *testing.T) {
	responses := []model.StudentResponse{
		{StudentIdentifier: "s1", IsResponseCorrect: boolPtr(true)},
		{StudentIdentifier: "s2", IsResponseCorrect: boolPtr(false)},
		{StudentIdentifier: "s3"},
		{StudentIdentifier: "s4", IsResponseCorrect: boolPtr(true)},
	}

	for _, typ := range []model.QuestionType{model.Essay, model.ShortAnswer} {
		p := ComputeDifficulty(&model.Question{QuestionType: typ}, responses)
		require.NotNil(t, p, typ)
		assert.Equal(t, 0.5, *p, typ)
	}
}

func TestComputeDifficulty_UnsupportedType(t *testing.T) {
	q := &model.Question{QuestionType: "matching"}
	assert.Nil(t, ComputeDifficulty(q, []model.StudentResponse{choose("s1", "x")}))
}

func TestComputeDifficulty_AlwaysWithinUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := mcQuestion(false, true, false, false)

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(60)
		responses := make([]model.StudentResponse, n)
		for i := range responses {
			opt := ""
			if k := rng.Intn(5); k < 4 {
				opt = q.AnswerOptions[k].ID
			}
			responses[i] = choose(fmt.Sprintf("s%d", i), opt)
		}
		p := ComputeDifficulty(q, responses)
		require.NotNil(t, p)
		assert.GreaterOrEqual(t, *p, 0.0)
		assert.LessOrEqual(t, *p, 1.0)
	}
}

// rankedResponses 生成 n 个作答，学生 s1 总分最高；correct 决定每个名次是否答对
func rankedResponses(n int, correct func(rank int) bool) ([]model.StudentResponse, map[string]float64) {
	responses := make([]model.StudentResponse, 0, n)
	scores := make(map[string]float64, n)
	for rank := 0; rank < n; rank++ {
		id := fmt.Sprintf("s%d", rank+1)
		opt := "opt-B"
		if correct(rank) {
			opt = "opt-A"
		}
		responses = append(responses, choose(id, opt))
		scores[id] = float64(100 - rank)
	}
	// 打乱输入顺序，排序应由总分决定
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(responses), func(i, j int) { responses[i], responses[j] = responses[j], responses[i] })
	return responses, scores
}

func TestComputeDiscrimination_TwentyRespondents(t *testing.T) {
	q := mcQuestion(true, false)
	// 高分组 6 人中 5 人答对，低分组 6 人中 1 人答对
	responses, scores := rankedResponses(20, func(rank int) bool {
		return rank < 5 || rank == 19
	})

	d := ComputeDiscrimination(q, responses, scores, config.DefaultAnalysisConfig())
	require.NotNil(t, d)
	// 组内 P 值先保留四位：0.8333 - 0.1667
	assert.InDelta(t, 0.6666, *d, 1e-9)
}

func TestComputeDiscrimination_TooFewResponses(t *testing.T) {
	q := mcQuestion(true, false)
	responses, scores := rankedResponses(9, func(rank int) bool { return rank < 4 })
	for i := 0; i < 100; i++ {
		scores[fmt.Sprintf("extra%d", i)] = float64(i)
	}

	assert.Nil(t, ComputeDiscrimination(q, responses, scores, config.DefaultAnalysisConfig()))
}

func TestComputeDiscrimination_NoScores(t *testing.T) {
	q := mcQuestion(true, false)
	responses, _ := rankedResponses(100, func(rank int) bool { return rank%2 == 0 })

	assert.Nil(t, ComputeDiscrimination(q, responses, nil, config.DefaultAnalysisConfig()))
	assert.Nil(t, ComputeDiscrimination(q, responses, map[string]float64{}, config.DefaultAnalysisConfig()))
}

func TestComputeDiscrimination_TooFewScoredRespondents(t *testing.T) {
	q := mcQuestion(true, false)
	responses, scores := rankedResponses(15, func(rank int) bool { return rank < 7 })
	for id := range scores {
		if len(scores) <= 9 {
			break
		}
		delete(scores, id)
	}

	assert.Nil(t, ComputeDiscrimination(q, responses, scores, config.DefaultAnalysisConfig()))
}

func TestComputeDiscrimination_TiesKeepInputOrder(t *testing.T) {
	q := mcQuestion(true, false)
	responses := make([]model.StudentResponse, 10)
	scores := make(map[string]float64, 10)
	for i := range responses {
		id := fmt.Sprintf("s%d", i)
		opt := "opt-B"
		if i < 3 {
			opt = "opt-A"
		}
		responses[i] = choose(id, opt)
		scores[id] = 50
	}

	d := ComputeDiscrimination(q, responses, scores, config.DefaultAnalysisConfig())
	require.NotNil(t, d)
	assert.Equal(t, 1.0, *d)
}

func TestComputeDiscrimination_MedianSplitFallback(t *testing.T) {
	q := mcQuestion(true, false)
	cfg := config.DefaultAnalysisConfig()
	cfg.MinResponses = 3
	cfg.GroupFraction = 0.1

	// n=7, ceil(0.7)=1 < 2，中位数二分：上 3 人，下 4 人
	responses, scores := rankedResponses(7, func(rank int) bool { return rank < 3 || rank == 6 })
	d := ComputeDiscrimination(q, responses, scores, cfg)
	require.NotNil(t, d)
	assert.Equal(t, 0.75, *d)

	// 不足 4 人无法二分
	responses, scores = rankedResponses(3, func(rank int) bool { return rank == 0 })
	assert.Nil(t, ComputeDiscrimination(q, responses, scores, cfg))
}

func TestComputeDiscrimination_GroupOverlap(t *testing.T) {
	q := mcQuestion(true, false)
	cfg := config.DefaultAnalysisConfig()
	cfg.GroupFraction = 0.8

	responses, scores := rankedResponses(10, func(rank int) bool { return rank < 4 })

	// 允许重叠：前 8 人中 4 人答对，后 8 人中 2 人答对
	d := ComputeDiscrimination(q, responses, scores, cfg)
	require.NotNil(t, d)
	assert.Equal(t, 0.25, *d)

	// 禁止重叠：组大小截断为 5，前 5 人 4 对，后 5 人 0 对
	cfg.AllowGroupOverlap = false
	d = ComputeDiscrimination(q, responses, scores, cfg)
	require.NotNil(t, d)
	assert.Equal(t, 0.8, *d)
}

func TestComputeDiscrimination_UnsupportedTypeIsNil(t *testing.T) {
	q := &model.Question{QuestionType: "matching"}
	responses, scores := rankedResponses(20, func(rank int) bool { return true })
	assert.Nil(t, ComputeDiscrimination(q, responses, scores, config.DefaultAnalysisConfig()))
}

func TestComputeOptionStats(t *testing.T) {
	q := mcQuestion(true, false, false)
	responses := []model.StudentResponse{
		choose("s1", "opt-A"),
		choose("s2", "opt-A"),
		choose("s3", "opt-C"),
		choose("s4", ""),
		choose("s5", "opt-unknown"),
		choose("s6", "opt-A"),
	}

	stats, err := ComputeOptionStats(q, responses)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalResponsesForQuestion)
	require.Len(t, stats.OptionsStats, 3)

	a, b, c := stats.OptionsStats[0], stats.OptionsStats[1], stats.OptionsStats[2]
	assert.Equal(t, "opt-A", a.OptionID)
	assert.True(t, a.IsCorrect)
	assert.Equal(t, 3, a.SelectionCount)
	assert.Equal(t, 50.0, a.SelectionPercentage)
	assert.Equal(t, 0, b.SelectionCount)
	assert.Equal(t, 0.0, b.SelectionPercentage)
	assert.Equal(t, 1, c.SelectionCount)
	assert.Equal(t, 16.67, c.SelectionPercentage)

	sum := 0.0
	for _, o := range stats.OptionsStats {
		sum += o.SelectionPercentage
	}
	assert.LessOrEqual(t, sum, 100.0)
}

func TestComputeOptionStats_AllAnsweredSumsToHundred(t *testing.T) {
	q := mcQuestion(true, false)
	responses := []model.StudentResponse{choose("s1", "opt-A"), choose("s2", "opt-B"), choose("s3", "opt-B"), choose("s4", "opt-A")}

	stats, err := ComputeOptionStats(q, responses)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stats.OptionsStats[0].SelectionPercentage+stats.OptionsStats[1].SelectionPercentage)
}

func TestComputeOptionStats_NoOptions(t *testing.T) {
	q := mcQuestion()
	responses := []model.StudentResponse{choose("s1", ""), choose("s2", "")}

	stats, err := ComputeOptionStats(q, responses)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalResponsesForQuestion)
	assert.Empty(t, stats.OptionsStats)
	assert.NotNil(t, stats.OptionsStats)
}

func TestComputeOptionStats_NoResponses(t *testing.T) {
	stats, err := ComputeOptionStats(mcQuestion(true, false), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalResponsesForQuestion)
	for _, o := range stats.OptionsStats {
		assert.Equal(t, 0.0, o.SelectionPercentage)
	}
}

func TestComputeOptionStats_RejectsNonMultipleChoice(t *testing.T) {
	_, err := ComputeOptionStats(&model.Question{QuestionType: model.Essay}, nil)
	assert.ErrorIs(t, err, util.ErrUnsupportedQuestionType)
}
