package main

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/config"
	"github.com/huangang/codebook/backend/internal/handlers"
	"github.com/huangang/codebook/backend/internal/middleware"
	"github.com/huangang/codebook/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
// Reads are public; writes require a bearer token.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	handlers.RegisterValidators()

	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	writeLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r.GET("/health", svc.healthHandler.CheckHealth)
	r.GET("/metrics", svc.metricsHandler.Metrics)

	api := r.Group("/api")
	{
		auth := api.Group("/auth", writeLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// SSE (public route with internal token validation)
		api.GET("/events/reviews", svc.sseHandler.StreamReviewEvents)

		public := api.Group("", middleware.OptionalAuth())
		{
			public.GET("/skills", svc.skillHandler.List)
			public.GET("/skills/:slug", svc.skillHandler.Get)

			public.GET("/profiles", svc.profileHandler.List)
			public.GET("/profiles/:id", svc.profileHandler.Get)
			public.GET("/profiles/:id/skills", svc.profileHandler.Skills)
			public.GET("/profiles/:id/projects", svc.profileHandler.Projects)

			public.GET("/projects", svc.projectHandler.List)
			public.GET("/projects/:id", svc.projectHandler.Get)
			public.GET("/projects/:id/skills", svc.projectHandler.Skills)
			public.GET("/projects/:id/reviews", svc.reviewHandler.ListByProject)

			public.GET("/reviews", svc.reviewHandler.List)
		}

		protected := api.Group("", middleware.AuthRequired(), middleware.AuditLog())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			protected.GET("/me/profile", svc.profileHandler.Me)
			protected.POST("/profiles", svc.profileHandler.Create)
			protected.PATCH("/profiles/:id", svc.profileHandler.Update)

			protected.POST("/projects", svc.projectHandler.Create)
			protected.PATCH("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			reviews := protected.Group("/projects/:id/reviews", writeLimiter.WritesOnly())
			reviews.POST("", svc.reviewHandler.Submit)
			reviews.DELETE("", svc.reviewHandler.Withdraw)

			protected.GET("/notifications", svc.notificationHandler.List)
			protected.POST("/notifications/:id/read", svc.notificationHandler.MarkRead)

			admin := protected.Group("", middleware.AdminRequired())
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
		}
	}
}
