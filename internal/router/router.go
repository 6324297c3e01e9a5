package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-client/internal/config"
	"github.com/stemsi/exstem-client/internal/handler"
	"github.com/stemsi/exstem-client/internal/middleware"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Student *handler.StudentHandler
	Attempt *handler.AttemptHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Rate Limited) ──────────────────────────────────
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireRole(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireRole(authService, model.RoleStudent))
	{
		studentAPI.GET("/exams", handlers.Student.ListExams)
		studentAPI.GET("/results", handlers.Student.ListResults)
		studentAPI.GET("/results/:id", handlers.Student.GetResult)

		attempts := studentAPI.Group("/attempts")
		attempts.Use(middleware.NoStore())
		{
			attempts.POST("", handlers.Attempt.Start)
			attempts.GET("/:attempt_id", handlers.Attempt.Get)
			attempts.PUT("/:attempt_id/answers/:question_id", handlers.Attempt.RecordAnswer)
			attempts.POST("/:attempt_id/advance", handlers.Attempt.Advance)
			attempts.POST("/:attempt_id/submit", handlers.Attempt.Submit)
			attempts.DELETE("/:attempt_id", handlers.Attempt.Discard)
		}
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireRole(authService, model.RoleStudent))
	{
		ws.GET("/attempts/:attempt_id/stream", handlers.WS.AttemptStream)
	}

	// ─── 4. System Group ───────────────────────────────────────────────
	router.GET("/api/v1/system/status", handlers.System.Status)

	return router
}
