package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/repository/postgres"
	adapterstorage "github.com/marcos-nsantos/photogram-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/cache"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/database"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/observability"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/server"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/storage"
	authUC "github.com/marcos-nsantos/photogram-backend/internal/usecase/auth"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/photo"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(pool)
	photoRepo := postgres.NewPhotoRepo(pool)

	// Infrastructure services
	jwtSvc := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	passwordHasher := auth.NewPasswordHasher(12)

	assets, err := newAssetStorage(cfg)
	if err != nil {
		logger.Fatal("failed to create asset storage", zap.Error(err))
	}
	imageProcessor := storage.NewImageProcessor()

	// Use cases
	authSvc := authUC.NewService(userRepo, jwtSvc, passwordHasher)
	userSvc := user.NewService(userRepo, passwordHasher)
	photoSvc := photo.NewService(photoRepo, userRepo, assets)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, assets)
	userHandler := handler.NewUserHandler(userSvc, assets, imageProcessor)
	photoHandler := handler.NewPhotoHandler(photoSvc, assets, imageProcessor, logger, cfg.Upload.MaxSizeBytes)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit)
	}

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		PhotoHandler:   photoHandler,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		Environment:    cfg.Server.Environment,
	})

	// Server
	srv := server.NewServer(server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Handler:         router.Engine(),
		Logger:          logger,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newAssetStorage(cfg *config.Config) (adapterstorage.AssetStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return storage.NewS3Storage(cfg.S3)
	default:
		return storage.NewLocalStorage(cfg.Storage)
	}
}
