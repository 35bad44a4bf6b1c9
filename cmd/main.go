package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendora/storefront/internal/config"
	"trendora/storefront/internal/feed"
	"trendora/storefront/internal/handler"
	"trendora/storefront/internal/idle"
	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
	"trendora/storefront/internal/service"
	cryptopkg "trendora/storefront/pkg/crypto"
	jwtpkg "trendora/storefront/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize state store, broadcaster, and feed transport.
	// All three share the backend: Redis spans instances, memory is for
	// single-instance deployments.
	var stateStore repository.StateStore
	var broadcaster idle.Broadcaster
	var transport feed.Transport
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		stateStore = repository.NewRedisStateStore(redisClient)
		broadcaster = idle.NewRedisBroadcaster(redisClient, logger)
		transport = feed.NewRedisTransport(redisClient, logger)
		logger.Info("using Redis state backend")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		broadcaster = idle.NewMemoryBroadcaster()
		transport = feed.NewMemoryTransport()
		logger.Info("using in-memory state backend")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Initialize repositories
	productRepo := repository.NewPGProductRepository(db)
	conversationRepo := repository.NewPGConversationRepository(db)

	// 7. Preload the product catalog; cart totals require it.
	catalogService := service.NewCatalogService(productRepo)
	if err := catalogService.Refresh(context.Background()); err != nil {
		logger.Fatal("failed to load product catalog", zap.Error(err))
	}
	logger.Info("product catalog loaded")

	// 8. Initialize record cipher and JWT manager
	cipher, err := cryptopkg.NewCipher(cfg.Storefront.RecordKey)
	if err != nil {
		logger.Fatal("invalid record key", zap.Error(err))
	}
	jwtManager := jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.SessionTTL)

	// 9. Initialize services
	cartService := service.NewCartService(stateStore, catalogService, cfg.Storefront.StoreTTL)
	conversationService := service.NewConversationService(conversationRepo, transport, cfg.Storefront.FeedGraceWindow, logger)
	sessionService := service.NewSessionService(
		stateStore, cipher, jwtManager, broadcaster,
		cfg.Storefront.IdleTimeout,
		func(profileID uuid.UUID) { conversationService.Dispose(profileID) },
		logger,
	)

	// 10. Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	cartHandler := handler.NewCartHandler(cartService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	productHandler := handler.NewProductHandler(catalogService)

	// 11. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, sessionHandler, cartHandler, conversationHandler, productHandler)

	// 12. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 13. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	// 15. Tear down engines: no timer or subscription survives shutdown.
	sessionService.Close()
	conversationService.Close()
	logger.Info("server exited gracefully")
}
