package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/handler"
	"github.com/insightflow/insightflow-backend/internal/middleware"
	"github.com/insightflow/insightflow-backend/internal/response"
	"github.com/insightflow/insightflow-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Project       *handler.ProjectHandler
	Questionnaire *handler.QuestionnaireHandler
	Respond       *handler.RespondHandler
	Stats         *handler.StatsHandler
	AI            *handler.AIHandler
	Admin         *handler.AdminHandler
	Monitor       *handler.MonitorHandler
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Survey-Passcode"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the unauthenticated respondent surface
	// (60 requests per minute per IP).
	publicLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── 1. Public Group (No Auth, Rate Limited) ───────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(publicLimiter.Middleware())
	{
		publicAPI.GET("/surveys/:id", handlers.Respond.GetSurvey)
		publicAPI.POST("/surveys/:id/passcode", handlers.Respond.VerifyPasscode)
		publicAPI.POST("/surveys/:id/responses", handlers.Respond.Submit)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	// ─── 3. Authenticated Group (JWT + Active Session) ─────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		api.GET("/projects", handlers.Project.List)
		api.POST("/projects", handlers.Project.Create)
		api.GET("/projects/:id", handlers.Project.Get)
		api.PATCH("/projects/:id", handlers.Project.Update)
		api.DELETE("/projects/:id", handlers.Project.Delete)
		api.GET("/projects/:id/usage", handlers.Stats.ProjectUsage)

		api.GET("/questionnaires", handlers.Questionnaire.List)
		api.POST("/questionnaires", handlers.Questionnaire.Create)
		api.GET("/questionnaires/:id", handlers.Questionnaire.Get)
		api.PATCH("/questionnaires/:id", handlers.Questionnaire.Update)
		api.DELETE("/questionnaires/:id", handlers.Questionnaire.Delete)
		api.POST("/questionnaires/:id/publish", handlers.Questionnaire.Publish)
		api.POST("/questionnaires/:id/unpublish", handlers.Questionnaire.Unpublish)
		api.GET("/questionnaires/:id/responses", handlers.Questionnaire.ListResponses)
		api.GET("/questionnaires/:id/stats", handlers.Stats.QuestionStats)

		api.GET("/usage", handlers.Stats.Usage)

		api.POST("/ai/questions", handlers.AI.GenerateQuestions)
	}

	// ─── 4. WebSocket Group (WS Query Token Auth) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/questionnaires/:id/monitor", handlers.Monitor.MonitorResponses)
	}

	// ─── 5. Admin Group (JWT + Admin Role) ─────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
		middleware.RequireAdmin(),
	)
	{
		adminAPI.GET("/profiles", handlers.Admin.ListProfiles)
		adminAPI.PATCH("/profiles/:id", handlers.Admin.UpdateProfile)
	}

	return router
}
