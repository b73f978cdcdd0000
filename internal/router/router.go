package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rtuhub/sgpa-backend/internal/config"
	"github.com/rtuhub/sgpa-backend/internal/handler"
	"github.com/rtuhub/sgpa-backend/internal/middleware"
	"github.com/rtuhub/sgpa-backend/internal/response"
	"github.com/rtuhub/sgpa-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Result  *handler.ResultHandler
	Subject *handler.SubjectHandler
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
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the upload route: OCR and PDF parsing are expensive.
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 2. Results Group (Public, Rate Limited) ───────────────────────
	results := router.Group("/api/v1/results")
	{
		results.POST("/calculate", uploadLimiter.Middleware(), handlers.Result.Calculate)
		results.GET("/:rollNo/:semester", handlers.Result.Get)
	}

	// ─── 3. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		subjectsGroup := adminAPI.Group("/subjects")
		{
			subjectsGroup.GET("", handlers.Subject.GetAll)
			subjectsGroup.POST("", handlers.Subject.Create)
			subjectsGroup.PUT("/:id", handlers.Subject.Update)
			subjectsGroup.DELETE("/:id", handlers.Subject.Delete)
		}
	}

	return router
}
