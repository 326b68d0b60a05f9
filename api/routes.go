package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/what-beats-backend/internal/admin"
	"github.com/SlpAus/what-beats-backend/internal/comparison"
	"github.com/SlpAus/what-beats-backend/internal/game"
	"github.com/SlpAus/what-beats-backend/internal/platform/database"
	"github.com/SlpAus/what-beats-backend/internal/ratelimit"
	"github.com/SlpAus/what-beats-backend/internal/report"
	"github.com/SlpAus/what-beats-backend/internal/user"
)

// Handlers 汇集路由注册所需的全部处理器。
type Handlers struct {
	Game       *game.Handler
	Comparison *comparison.Handler
	Report     *report.Handler
	Admin      *admin.Handler
	Limiter    *ratelimit.Limiter
}

// RegisterRoutes 注册全部HTTP路由。
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"redis":  database.IsRedisHealthy(),
		})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(user.IdentifyMiddleware())
	{
		apiGroup.POST("/start-game", h.Game.StartGame)
		apiGroup.POST("/submit-comparison", h.Limiter.Middleware(), h.Game.SubmitComparison)
		apiGroup.GET("/game-status/:session_id", h.Game.GetStatus)
		apiGroup.POST("/end-game", h.Game.EndGame)

		apiGroup.GET("/stats/comparisons", h.Comparison.GetStats)
		apiGroup.GET("/stats/high-scores", h.Game.GetHighScores)
		apiGroup.GET("/scoreboard", h.Game.GetScoreboard)
		apiGroup.GET("/scoreboard/stats", h.Game.GetScoreboardStats)

		apiGroup.POST("/report-comparison", h.Report.Create)
		apiGroup.GET("/reports/:report_id", h.Report.Get)
		apiGroup.GET("/reports", h.Report.List)

		apiGroup.POST("/admin/login", h.Admin.Login)
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(admin.AuthMiddleware())
		{
			adminGroup.GET("/reports", h.Report.List)
			adminGroup.PUT("/reports/:report_id/status", h.Report.UpdateStatus)
			adminGroup.PUT("/comparisons", h.Admin.CorrectComparison)
		}
	}
}
