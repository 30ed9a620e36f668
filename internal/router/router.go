package router

import (
	"context"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/handler"
	"github.com/attenda/attenda-backend/internal/middleware"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Attendance   *handler.AttendanceHandler
	Dashboard    *handler.DashboardHandler
	Class        *handler.ClassHandler
	Subject      *handler.SubjectHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
	Leave        *handler.LeaveHandler
	Activity     *handler.ActivityHandler
	Stats        *handler.StatsHandler
	Stream       *handler.NotificationStreamHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as rate limiter cleanup.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── 1. Auth (Public, Rate Limited) ────────────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimitPerMin, time.Minute)
	limited := authLimiter.Middleware()

	router.POST("/login", limited, handlers.Auth.Login)
	router.POST("/forgot-password", limited, handlers.Auth.ForgotPassword)
	router.POST("/reset-password", limited, handlers.Auth.ResetPassword)
	// Registered on the engine so the /api token check does not apply.
	router.POST("/api/admin/login", limited, handlers.Auth.AdminLogin)

	// ─── 2. WebSocket (token in query) ─────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/notifications", handlers.Stream.Stream)
	}

	// ─── 3. API (single global token check) ────────────────────────────
	api := router.Group("/api")
	api.Use(middleware.RequireJWT(authService))

	attendance := api.Group("/attendance")
	{
		attendance.POST("", handlers.Attendance.Save)
		attendance.POST("/", handlers.Attendance.Save)
		registerAttendanceRoutes(attendance, handlers.Attendance)
	}

	teacher := api.Group("/teacher")
	{
		registerAttendanceRoutes(teacher, handlers.Attendance)
		teacher.GET("/:id/dashboard", handlers.Dashboard.Teacher)
	}

	api.GET("/student/:id/dashboard", handlers.Dashboard.Student)
	api.POST("/student/:id/leave-requests", handlers.Leave.CreateLeaveRequest)
	api.GET("/student/:id/leave-requests", handlers.Leave.ListStudentLeaveRequests)

	api.GET("/users", handlers.User.ListUsers)

	stats := api.Group("/stats")
	{
		stats.GET("/admins", handlers.Stats.Admins())
		stats.GET("/students", handlers.Stats.Students())
		stats.GET("/teachers", handlers.Stats.Teachers())
		stats.GET("/classes", handlers.Stats.Classes())
		stats.GET("/attendance", handlers.Stats.Attendance())
		stats.GET("/today-rate", handlers.Stats.TodayRate)
	}

	// ─── 4. Admin ──────────────────────────────────────────────────────
	admin := api.Group("/admin")
	{
		admin.GET("/stats", handlers.Dashboard.AdminStats)
		admin.GET("/profile", handlers.User.Profile)
		admin.GET("/roles", handlers.User.ListRoles)
		admin.GET("/activity", handlers.Activity.ListActivity)

		admin.GET("/notifications", handlers.Dashboard.AdminNotifications)
		admin.POST("/notifications", handlers.Notification.CreateNotification)
		admin.DELETE("/notifications/:id", handlers.Notification.DeleteNotification)

		admin.GET("/teacher/:id/dashboard", handlers.Dashboard.Teacher)
		admin.GET("/teacher/:id/classes", handlers.Dashboard.TeacherClasses)
		admin.GET("/teacher/:id/notifications", handlers.Dashboard.TeacherNotifications)

		admin.GET("/classes", handlers.Class.ListClasses)
		admin.POST("/classes", handlers.Class.CreateClass)
		admin.PATCH("/classes/:id", handlers.Class.UpdateClass)
		admin.DELETE("/classes/:id", handlers.Class.DeleteClass)

		admin.GET("/subjects", handlers.Subject.ListSubjects)
		admin.POST("/subjects", handlers.Subject.CreateSubject)
		admin.PATCH("/subjects/:id", handlers.Subject.UpdateSubject)
		admin.DELETE("/subjects/:id", handlers.Subject.DeleteSubject)

		for _, r := range []struct {
			path string
			role model.RoleName
		}{
			{"/teachers", model.RoleTeacher},
			{"/students", model.RoleStudent},
		} {
			admin.GET(r.path, handlers.User.List(r.role))
			admin.POST(r.path, handlers.User.Create(r.role))
			admin.PATCH(r.path+"/:id", handlers.User.Update(r.role))
			admin.DELETE(r.path+"/:id", handlers.User.Delete(r.role))
		}

		admin.GET("/leave-requests", handlers.Leave.ListLeaveRequests)
		admin.PATCH("/leave-requests/:id", handlers.Leave.ReviewLeaveRequest)
	}

	return router
}

// registerAttendanceRoutes mounts the teacher attendance endpoints. They are
// served under both /api/attendance and /api/teacher.
func registerAttendanceRoutes(g *gin.RouterGroup, h *handler.AttendanceHandler) {
	g.POST("/attendance", h.Save)
	g.GET("/attendance/student/:studentId", h.ListForStudent)
	g.GET("/attendance/percentage", h.Percentage)
}
