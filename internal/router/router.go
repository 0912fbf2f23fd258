package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/handler"
	"github.com/riedtal/admission-backend/internal/middleware"
	"github.com/riedtal/admission-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Application *handler.ApplicationHandler
	Task        *handler.TaskHandler
	Exam        *handler.ExamHandler
	Payment     *handler.PaymentHandler
	Program     *handler.ProgramHandler
	System      *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
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
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/healthz", handlers.System.Health)

	// Rate limiter for the public submission endpoint (30 per minute per IP).
	submitLimiter := middleware.NewRateLimiter(30, time.Minute)

	api := router.Group("/api/v1")
	{
		// ─── Applicant-facing ──────────────────────────────────────
		api.POST("/applications", submitLimiter.Middleware(), handlers.Application.Submit)
		api.GET("/applications/:id", handlers.Application.Get)

		programs := api.Group("/study-programs")
		programs.Use(middleware.CacheControl(300))
		{
			programs.GET("", handlers.Program.List)
		}

		// ─── Admission office ──────────────────────────────────────
		api.GET("/tasks", handlers.Task.List)
		api.POST("/tasks/:applicationId/complete", handlers.Task.Complete)

		// ─── Examination office ────────────────────────────────────
		api.POST("/exams/:applicationId/result", handlers.Exam.Result)

		// ─── Fee ledger ────────────────────────────────────────────
		api.POST("/payments/update-status", handlers.Payment.UpdateStatus)
		api.GET("/payments/:applicationId", handlers.Payment.Get)
	}

	return router
}
