package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "qna-service/docs"
	"qna-service/internal/auth"
	"qna-service/internal/config"
	"qna-service/internal/database"
	"qna-service/internal/handlers"
	"qna-service/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	tokens  *auth.Manager
	handler *handlers.Handler
	log     zerolog.Logger
}

// New assembles the HTTP server from already-initialized dependencies.
func New(cfg *config.Config, db database.Service, tokens *auth.Manager, handler *handlers.Handler, log zerolog.Logger) *http.Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		tokens:  tokens,
		handler: handler,
		log:     log,
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := middleware.RequireAuth(s.tokens, s.handler.Users)
	optionalAuth := middleware.OptionalAuth(s.tokens, s.handler.Users)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Question routes (public reads, anonymous tolerated)
		api.GET("/questions", optionalAuth, s.handler.Question.GetQuestions)
		api.GET("/questions/:id", optionalAuth, s.handler.Question.GetQuestion)

		// Answer routes (public reads)
		api.GET("/answers/:id", optionalAuth, s.handler.Answer.GetAnswer)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/me", s.handler.Auth.Me)
			protected.POST("/me/avatar", s.handler.Auth.UploadAvatar)

			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/vote", s.handler.Question.VoteQuestion)

			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.PUT("/answers/:id", s.handler.Answer.UpdateAnswer)
			protected.DELETE("/answers/:id", s.handler.Answer.DeleteAnswer)
			protected.POST("/answers/:id/vote", s.handler.Answer.VoteAnswer)
		}
	}

	return r
}
