package app

import (
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/middleware"
	"item_bank_backend/internal/model"
	"item_bank_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAnalysisRoutes(authGroup, c)
		a.registerStatisticsRoutes(authGroup, c)
	}
}

func (a *App) registerAnalysisRoutes(group *gin.RouterGroup, c *controllers) {
	analysis := group.Group("/analysis")
	{
		analysis.GET("/summary-stats", c.analysis.GetSummaryStats)
		analysis.GET("/questions/:id", c.analysis.GetAnalysis)
		analysis.GET("/questions/:id/option-stats", c.analysis.GetOptionStats)

		// 触发计算仅限教师（管理员自动放行）
		analysis.POST("/questions/:id", middleware.RoleMiddleware(model.Teacher), c.analysis.TriggerAnalysis)
	}
}

func (a *App) registerStatisticsRoutes(group *gin.RouterGroup, c *controllers) {
	statistics := group.Group("/statistics")
	{
		statistics.GET("/admin-dashboard", middleware.RoleMiddleware(model.Admin), c.dashboard.GetAdminDashboard)
		statistics.GET("/teacher-dashboard", middleware.RoleMiddleware(model.Teacher), c.dashboard.GetTeacherDashboard)
	}
}
