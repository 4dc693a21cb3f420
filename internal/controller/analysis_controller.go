package controller

import (
	"errors"
	"fmt"
	"io"
	"item_bank_backend/internal/model"
	"item_bank_backend/internal/service"
	"item_bank_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	AnalysisService *service.ItemAnalysisService
}

func NewAnalysisController(analysisService *service.ItemAnalysisService) *AnalysisController {
	return &AnalysisController{AnalysisService: analysisService}
}

// TriggerAnalysisRequest 学生测验总分，缺省时只计算难度
type TriggerAnalysisRequest struct {
	Scores map[string]float64 `json:"scores"`
}

func writeAnalysisError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrAnalysisNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrUnsupportedQuestionType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrLockTimeout):
		util.Error(ctx, http.StatusServiceUnavailable, "analysis for this question is busy, retry later")
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 触发题目分析
// @Description 计算并保存题目（可选场次）的难度指数与区分度，重复触发覆盖旧结果
// @Tags 题目分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Param test_session_identifier query string false "测验场次"
// @Param body body TriggerAnalysisRequest false "学生总分"
// @Success 200 {object} util.Response
// @Router /api/analysis/questions/{id} [post]
func (c *AnalysisController) TriggerAnalysis(ctx *gin.Context) {
	var req TriggerAnalysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, "invalid request body: "+err.Error())
		return
	}

	session := util.OptionalString(ctx.Query(util.QuerySessionIdentifier))
	result, err := c.AnalysisService.GetOrCreateAnalysis(ctx.Request.Context(), ctx.Param("id"), session, req.Scores)
	if err != nil {
		writeAnalysisError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取题目分析结果
// @Description 读取已保存的分析结果，不触发计算
// @Tags 题目分析
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Param test_session_identifier query string false "测验场次"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/analysis/questions/{id} [get]
func (c *AnalysisController) GetAnalysis(ctx *gin.Context) {
	session := util.OptionalString(ctx.Query(util.QuerySessionIdentifier))
	result, err := c.AnalysisService.GetAnalysis(ctx.Request.Context(), ctx.Param("id"), session)
	if err != nil {
		writeAnalysisError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取选项统计
// @Description 单选题各选项的选择次数与占比（全部场次）
// @Tags 题目分析
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/analysis/questions/{id}/option-stats [get]
func (c *AnalysisController) GetOptionStats(ctx *gin.Context) {
	stats, err := c.AnalysisService.GetOptionStats(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeAnalysisError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 分析结果汇总
// @Tags 题目分析
// @Produce json
// @Security BearerAuth
// @Param subject query string false "学科（模糊匹配）"
// @Param topic query string false "知识点（模糊匹配）"
// @Param question_type query string false "题型"
// @Param min_responses query int false "最少作答数"
// @Param skip query int false "偏移" default(0)
// @Param limit query int false "数量" default(100)
// @Success 200 {object} util.Response
// @Router /api/analysis/summary-stats [get]
func (c *AnalysisController) GetSummaryStats(ctx *gin.Context) {
	minResponses, err := util.ParseNonNegativeInt(ctx.Query("min_responses"), 0)
	if err != nil {
		util.BadRequest(ctx, "min_responses: "+err.Error())
		return
	}
	skip, err := util.ParseNonNegativeInt(ctx.Query("skip"), 0)
	if err != nil {
		util.BadRequest(ctx, "skip: "+err.Error())
		return
	}
	limit, err := util.ParseNonNegativeInt(ctx.Query("limit"), util.DefaultSummaryLimit)
	if err != nil {
		util.BadRequest(ctx, "limit: "+err.Error())
		return
	}
	if limit == 0 || limit > util.MaxSummaryLimit {
		util.BadRequest(ctx, fmt.Sprintf("limit must be between 1 and %d", util.MaxSummaryLimit))
		return
	}

	questionType := ctx.Query("question_type")
	switch model.QuestionType(questionType) {
	case "", model.MultipleChoice, model.ShortAnswer, model.Essay:
	default:
		util.BadRequest(ctx, "unknown question_type: "+questionType)
		return
	}

	filter := model.AnalysisSummaryFilter{
		Subject:      ctx.Query("subject"),
		Topic:        ctx.Query("topic"),
		QuestionType: questionType,
		MinResponses: minResponses,
		Skip:         skip,
		Limit:        limit,
	}

	results, err := c.AnalysisService.ListSummary(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
