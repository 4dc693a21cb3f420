package controller

import (
	"item_bank_backend/internal/service"
	"item_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 管理员仪表盘
// @Description 题目总数、用户总数、最近新增题目及区分度最差的题目
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/statistics/admin-dashboard [get]
func (c *DashboardController) GetAdminDashboard(ctx *gin.Context) {
	stats, err := c.DashboardService.GetAdminDashboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 教师仪表盘
// @Description 当前教师所出题目数量及平均 P 值、D 值
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/statistics/teacher-dashboard [get]
func (c *DashboardController) GetTeacherDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.GetTeacherDashboard(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
