package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/middleware"
)

type Router struct {
	engine         *gin.Engine
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	photoHandler   *handler.PhotoHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	logger         *zap.Logger
}

type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	PhotoHandler   *handler.PhotoHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	Logger         *zap.Logger
	Environment    string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:         engine,
		authHandler:    cfg.AuthHandler,
		userHandler:    cfg.UserHandler,
		photoHandler:   cfg.PhotoHandler,
		authMiddleware: cfg.AuthMiddleware,
		rateLimiter:    cfg.RateLimiter,
		logger:         cfg.Logger,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.CORS())
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")
	if r.rateLimiter != nil {
		api.Use(r.rateLimiter.Limit())
	}
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		users := api.Group("/users")
		{
			users.GET("/me", r.authMiddleware.RequireAuth(), r.userHandler.Me)
			users.PUT("/me", r.authMiddleware.RequireAuth(), r.userHandler.Update)
			users.GET("/:id", r.userHandler.GetByID)
		}

		// Reads are public; every mutation requires a verified actor.
		photos := api.Group("/photos")
		{
			photos.GET("", r.photoHandler.List)
			photos.GET("/search", r.photoHandler.Search)
			photos.GET("/user/:id", r.photoHandler.ListByUser)
			photos.GET("/:id", r.photoHandler.Get)

			photos.POST("", r.authMiddleware.RequireAuth(), r.photoHandler.Create)
			photos.PUT("/:id", r.authMiddleware.RequireAuth(), r.photoHandler.Update)
			photos.DELETE("/:id", r.authMiddleware.RequireAuth(), r.photoHandler.Delete)
			photos.PUT("/:id/like", r.authMiddleware.RequireAuth(), r.photoHandler.ToggleLike)
			photos.POST("/:id/comments", r.authMiddleware.RequireAuth(), r.photoHandler.Comment)
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
