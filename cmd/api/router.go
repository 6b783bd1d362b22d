package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/config"
	"bcibizz-gateway/internal/handlers"
	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/services"
)

type routeDeps struct {
	store       services.SessionStore
	api         *services.APIClient
	jwt         *services.JWTService
	guard       *services.SessionGuard
	aggregator  *services.Aggregator
	hub         *handlers.WebSocketHub
	withdrawals *services.WithdrawService
}

func newRouter(cfg *config.Config, logger *zap.Logger, deps routeDeps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.guard, deps.api, deps.jwt, logger, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(deps.guard)
	dashboardHandler := handlers.NewDashboardHandler(deps.aggregator, logger)
	casinoHandler := handlers.NewCasinoHandler(logger)
	withdrawHandler := handlers.NewWithdrawHandler(deps.withdrawals)
	wsHandler := handlers.NewWebSocketHandler(deps.hub, deps.aggregator, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/health", handlers.Health)

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
		}
		public.GET("/session", authHandler.Session)
		public.GET("/rules", handlers.Rules)
	}

	protected := router.Group("/api")
	protected.Use(middleware.SessionMiddleware(deps.jwt, deps.guard, false))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/me", userHandler.Me)
		protected.GET("/preferences", userHandler.Preferences)
		protected.PUT("/preferences", userHandler.UpdatePreferences)
		protected.GET("/debts", userHandler.Debts)

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("", dashboardHandler.Get)
			dashboard.GET("/chart", dashboardHandler.Chart)
			dashboard.GET("/series", dashboardHandler.Series)
		}

		protected.GET("/casino-accounts", casinoHandler.List)

		withdraw := protected.Group("/withdraw")
		{
			withdraw.GET("", withdrawHandler.Get)
			withdraw.POST("", middleware.RateLimitMiddleware(deps.store, "withdraw", cfg.WithdrawRateLimit, time.Minute), withdrawHandler.Post)
			withdraw.POST("/accounts", withdrawHandler.AddAccount)
		}

		protected.GET("/ws", wsHandler.HandleWebSocket)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware(deps.jwt, deps.guard, false))
	{
		admin.GET("/profiles/by-phone/:phone", userHandler.ProfileByPhone)
	}

	return router
}
