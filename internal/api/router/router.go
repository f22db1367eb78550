package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/config"
	"github.com/Masaru124/Attendance-app/internal/api/handler"
	"github.com/Masaru124/Attendance-app/internal/api/middleware"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/identity"
	"github.com/Masaru124/Attendance-app/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup builds the Gin engine with every route wired.
func Setup(cfg *config.Config, h *handler.Handler, access service.AccessService, verifier identity.TokenVerifier, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	staff := []string{model.RoleTeacher, model.RoleAdmin}

	// ── API v1 (all routes require a verified token) ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(verifier, rdb, logger))
	{
		// user module
		users := v1.Group("/users")
		{
			users.GET("/me", h.User.Me)
			users.GET("", middleware.RequireRoles(access, model.RoleAdmin), h.User.List)
			users.PUT("/:id/role", middleware.RequireRoles(access, model.RoleAdmin), h.User.UpdateRole)
		}

		// attendance module
		attendance := v1.Group("/attendance")
		{
			sessions := attendance.Group("/sessions")
			{
				sessions.POST("", middleware.RequireRoles(access, staff...), h.Attendance.CreateSession)
				sessions.GET("", middleware.RequireRoles(access, staff...), h.Attendance.ListSessions)
				sessions.GET("/:id", middleware.RequireRoles(access, staff...), h.Attendance.GetSession)
				sessions.GET("/:id/qr", middleware.RequireRoles(access, staff...), h.Attendance.SessionQR)
				sessions.POST("/:id/close", middleware.RequireRoles(access, staff...), h.Attendance.CloseSession)
				sessions.GET("/:id/records", middleware.RequireRoles(access, staff...), h.Attendance.SessionRecords)
				sessions.GET("/:id/export", middleware.RequireRoles(access, staff...), h.Attendance.ExportSession)
			}

			attendance.POST("/mark", middleware.RateLimit(rdb, 10, time.Minute), h.Attendance.Mark)
			attendance.GET("/my", h.Attendance.MyRecords)
		}

		// leave module
		leave := v1.Group("/leave")
		{
			leave.POST("/apply", h.Leave.Apply)
			leave.GET("/my", h.Leave.MyLeaves)
			leave.GET("/my/calendar.ics", h.Leave.Calendar)
			leave.GET("/pending", middleware.RequireRoles(access, staff...), h.Leave.PendingLeaves)
			leave.GET("/all", middleware.RequireRoles(access, model.RoleAdmin), h.Leave.AllLeaves)
			leave.POST("/batch-action", middleware.RequireRoles(access, staff...), h.Leave.BatchReview)
			leave.GET("/:id", middleware.RequireRoles(access, staff...), h.Leave.GetLeave)
			leave.POST("/:id/action", middleware.RequireRoles(access, staff...), h.Leave.Review)
			leave.DELETE("/:id", h.Leave.Cancel)
		}

		// notification module
		notifications := v1.Group("/notifications")
		{
			notifications.POST("/fcm-token", h.Notification.SaveToken)
			notifications.DELETE("/fcm-token", h.Notification.DeleteToken)
			notifications.GET("/tokens", h.Notification.ListTokens)
		}
	}

	return r
}
