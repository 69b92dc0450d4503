package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"navy-training/backend/config"
	"navy-training/backend/internal/api/handler"
	"navy-training/backend/internal/api/middleware"
	"navy-training/backend/pkg/jwt"
	"navy-training/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流均降级关闭
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 避免 *redis.Client(nil) 装进非 nil 接口
	var blacklist middleware.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	writeLimit := middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	adminOnly := middleware.RoleAuth(middleware.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, blacklist))
	{
		v1.POST("/session/logout", h.Session.Logout)

		// 训练申请模块
		requests := v1.Group("/requests")
		{
			requests.POST("", writeLimit, h.TrainingRequest.CreateRequest)
			requests.GET("", h.TrainingRequest.ListRequests)
			requests.GET("/availability", h.TrainingRequest.GetAvailability)
			requests.GET("/:id", h.TrainingRequest.GetRequest)
			requests.PATCH("/:id/status", adminOnly, writeLimit, h.TrainingRequest.UpdateStatus)
			requests.PATCH("/:id/instructors", adminOnly, writeLimit, h.TrainingRequest.AssignInstructors)
			requests.PATCH("/:id/plan", adminOnly, writeLimit, h.TrainingRequest.UpdatePlan)
		}

		// 讲师日程模块
		schedules := v1.Group("/instructor-schedules")
		{
			schedules.GET("", h.InstructorSchedule.ListSchedules)
			schedules.GET("/instructor/:id", h.InstructorSchedule.ListByInstructor)
			schedules.POST("", adminOnly, writeLimit, h.InstructorSchedule.CreateSchedule)
			schedules.DELETE("/:id", adminOnly, writeLimit, h.InstructorSchedule.DeleteSchedule)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/instructor-schedules", adminOnly, h.Export.ExportSchedules)
		}

		// 日历订阅（:id 形如 "5.ics"）
		v1.GET("/calendar/instructors/:id", h.Calendar.InstructorFeed)
	}

	return r
}
