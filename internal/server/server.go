package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/token"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	codec  *token.Codec
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, codec *token.Codec, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		codec:  codec,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	taskRepo := repository.NewTaskRepository(s.db, s.logger)

	authService := service.NewAuthService(userRepo, s.codec, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	taskHandler := handler.NewTaskHandler(taskRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.codec, userRepo, s.logger))
	{
		authRequired.GET("/auth/me", authHandler.Me)

		authRequired.GET("/tasks", taskHandler.List)
		authRequired.POST("/tasks", taskHandler.Create)
		authRequired.PUT("/tasks/:id", taskHandler.Update)
		authRequired.DELETE("/tasks/:id", taskHandler.Delete)
		authRequired.GET("/tasks/reminders", taskHandler.ListReminders)
		authRequired.POST("/tasks/:id/reminders/ack", taskHandler.AcknowledgeReminder)
	}
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server shutdown failed", zap.Error(err))
	}
	s.logger.Info("Server stopped.")
}
