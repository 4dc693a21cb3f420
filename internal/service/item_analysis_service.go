package service

import (
	"context"
	"errors"
	"fmt"
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/model"
	"item_bank_backend/internal/repository"
	"item_bank_backend/internal/util"
	"item_bank_backend/pkg/logger"
	"item_bank_backend/pkg/monitoring"
	"item_bank_backend/pkg/tracing"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ItemAnalysisService struct {
	Questions *repository.QuestionRepository
	Responses *repository.StudentResponseRepository
	Results   *repository.ItemAnalysisRepository
	Locker    KeyLocker

	settings atomic.Pointer[config.AnalysisConfig]
}

func NewItemAnalysisService(
	questions *repository.QuestionRepository,
	responses *repository.StudentResponseRepository,
	results *repository.ItemAnalysisRepository,
	locker KeyLocker,
	cfg config.AnalysisConfig,
) *ItemAnalysisService {
	if locker == nil {
		locker = NewLocalKeyLocker()
	}
	s := &ItemAnalysisService{
		Questions: questions,
		Responses: responses,
		Results:   results,
		Locker:    locker,
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热更新，对进行中的分析无影响
func (s *ItemAnalysisService) UpdateConfig(cfg config.AnalysisConfig) {
	s.settings.Store(&cfg)
}

func (s *ItemAnalysisService) Config() config.AnalysisConfig {
	return *s.settings.Load()
}

func (s *ItemAnalysisService) loadQuestion(ctx context.Context, questionID string) (*model.Question, error) {
	q, err := s.Questions.FindByID(ctx, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, questionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load question %s: %w", questionID, err)
	}
	return q, nil
}

// GetOrCreateAnalysis 计算并保存某题（可选场次）的 P 值与 D 值。
// totalScores 为 nil 时不计算 D 值；同一 (question, session) 的并发触发按键串行。
func (s *ItemAnalysisService) GetOrCreateAnalysis(ctx context.Context, questionID string, session *string, totalScores map[string]float64) (res *model.ItemAnalysisResult, err error) {
	start := time.Now()
	cfg := s.Config()
	session = model.NormalizeSession(session)

	ctx, span := tracing.Tracer.Start(ctx, "ItemAnalysisService.GetOrCreateAnalysis",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("question.id", questionID),
			attribute.String("session.key", model.SessionKeyOf(session)),
			attribute.Bool("scores.supplied", totalScores != nil),
		),
	)
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		count := 0
		if res != nil {
			count = res.ResponsesAnalyzedCount
		}
		monitoring.ObserveAnalysis(outcome, start, count)
		span.End()
	}()

	q, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	// 等待与持有时长取自当前配置，热更新即时生效
	lockCtx, cancelWait := context.WithTimeout(ctx, cfg.LockWait())
	defer cancelWait()
	unlock, err := s.Locker.Lock(lockCtx, analysisLockKey(questionID, model.SessionKeyOf(session)), cfg.LockTTL())
	if err != nil {
		return nil, err
	}
	defer unlock()

	responses, err := s.Responses.ListForAnalysis(ctx, questionID, session)
	if err != nil {
		return nil, fmt.Errorf("load responses for question %s: %w", questionID, err)
	}

	row := &model.ItemAnalysisResult{
		QuestionID:             questionID,
		TestSessionIdentifier:  session,
		ResponsesAnalyzedCount: len(responses),
		LastAnalyzedAt:         time.Now(),
	}
	if len(responses) > 0 {
		row.DifficultyIndex = ComputeDifficulty(q, responses)
		if totalScores != nil {
			row.DiscriminationIndex = ComputeDiscrimination(q, responses, totalScores, cfg)
		}
	}

	saved, err := s.Results.Upsert(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("save analysis result for question %s: %w", questionID, err)
	}

	logger.Log.Info("item analysis completed",
		zap.String("questionId", questionID),
		zap.String("session", model.SessionKeyOf(session)),
		zap.Int("responses", saved.ResponsesAnalyzedCount),
		zap.Bool("withScores", totalScores != nil),
		zap.Duration("took", time.Since(start)),
	)
	return saved, nil
}

// GetAnalysis 读取已保存的分析结果，不触发计算
func (s *ItemAnalysisService) GetAnalysis(ctx context.Context, questionID string, session *string) (*model.ItemAnalysisResult, error) {
	session = model.NormalizeSession(session)
	res, err := s.Results.FindByQuestionAndSession(ctx, questionID, session)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load analysis result for question %s: %w", questionID, err)
	}

	exists, err := s.Questions.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("check question %s: %w", questionID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, questionID)
	}
	return nil, util.ErrAnalysisNotFound
}

// GetOptionStats 统计全部场次的选项分布
func (s *ItemAnalysisService) GetOptionStats(ctx context.Context, questionID string) (*model.QuestionOptionStats, error) {
	q, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.QuestionType != model.MultipleChoice {
		return nil, util.ErrUnsupportedQuestionType
	}

	responses, err := s.Responses.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("load responses for question %s: %w", questionID, err)
	}

	return ComputeOptionStats(q, responses)
}

// ListSummary Limit 不大于 0 时取默认值，超过上限时截断
func (s *ItemAnalysisService) ListSummary(ctx context.Context, f model.AnalysisSummaryFilter) ([]model.ItemAnalysisResult, error) {
	if f.Limit <= 0 {
		f.Limit = util.DefaultSummaryLimit
	}
	if f.Limit > util.MaxSummaryLimit {
		f.Limit = util.MaxSummaryLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	results, err := s.Results.ListSummary(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list analysis summary: %w", err)
	}
	return results, nil
}
