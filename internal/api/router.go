package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/activity-ranks/internal/config"
	"github.com/jengzang/activity-ranks/internal/handler"
	"github.com/jengzang/activity-ranks/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, profiles *handler.ProfileHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Activity ranks API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 用户档案接口
		users := api.Group("/profiles/:username")
		{
			users.POST("/upload", middleware.RateLimit(cfg.UploadRateLimit, time.Minute), profiles.Upload)
			users.GET("", profiles.GetDashboard)
		}

		// 排行榜与段位
		api.GET("/leaderboard", profiles.GetLeaderboard)
		api.GET("/ranks", profiles.GetRanks)

		// 管理接口
		admin := api.Group("/admin")
		{
			admin.POST("/migrate-achievements", profiles.MigrateAchievements)
		}
	}

	return r
}
