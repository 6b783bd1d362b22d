package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "time/tzdata"

	"bcibizz-gateway/internal/config"
	"bcibizz-gateway/internal/handlers"
	"bcibizz-gateway/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer store.Close()

	api := services.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	jwtService := services.NewJWTService(cfg)
	guard := services.NewSessionGuard(store, api, jwtService, logger)
	aggregator := services.NewAggregator(logger)

	hub := handlers.NewWebSocketHub(logger)
	go hub.Run(ctx)

	withdrawals := services.NewWithdrawService(store, hub, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg, logger, routeDeps{
		store:       store,
		api:         api,
		jwt:         jwtService,
		guard:       guard,
		aggregator:  aggregator,
		hub:         hub,
		withdrawals: withdrawals,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", cfg.HTTPAddress()),
			zap.String("api_base_url", cfg.APIBaseURL),
			zap.String("session_backend", cfg.SessionBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (services.SessionStore, error) {
	if cfg.SessionBackend == config.SessionBackendMemory {
		return services.NewMemoryStore(), nil
	}
	return services.NewRedisStore(ctx, cfg)
}
