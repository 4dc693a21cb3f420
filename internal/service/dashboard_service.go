package service

import (
	"context"
	"fmt"
	"item_bank_backend/internal/model"
	"item_bank_backend/internal/repository"
)

const (
	dashboardRecentLimit = 5
	dashboardWorstLimit  = 5
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	AnalysisRepo *repository.ItemAnalysisRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	analysisRepo *repository.ItemAnalysisRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		AnalysisRepo: analysisRepo,
	}
}

// GetAdminDashboard 题库总量、用户数、最近新增题目、区分度最差的题目
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*model.AdminDashboardStats, error) {
	totalQuestions, err := s.QuestionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	totalUsers, err := s.UserRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	recent, err := s.QuestionRepo.ListRecent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent questions: %w", err)
	}

	worst, err := s.AnalysisRepo.ListLowestDiscrimination(ctx, dashboardWorstLimit)
	if err != nil {
		return nil, fmt.Errorf("list worst questions: %w", err)
	}

	return &model.AdminDashboardStats{
		TotalQuestions:  totalQuestions,
		TotalUsers:      totalUsers,
		RecentQuestions: recent,
		WorstQuestions:  worst,
	}, nil
}

func (s *DashboardService) GetTeacherDashboard(ctx context.Context, userID uint) (*model.TeacherDashboardStats, error) {
	total, err := s.QuestionRepo.CountByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count questions of user %d: %w", userID, err)
	}

	avg, err := s.AnalysisRepo.AveragesByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("average indices of user %d: %w", userID, err)
	}

	return &model.TeacherDashboardStats{
		TotalQuestionsCreated: total,
		AveragePValue:         avg.AvgPValue,
		AverageDIndex:         avg.AvgDIndex,
	}, nil
}
