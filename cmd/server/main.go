package main

// @title           QnA Service API
// @version         1.0
// @description     A RESTful Q&A bulletin board backend
// @host            localhost:8080
// @BasePath        /api
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"qna-service/internal/auth"
	"qna-service/internal/config"
	"qna-service/internal/database"
	"qna-service/internal/handlers"
	"qna-service/internal/server"
	"qna-service/internal/storage"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	// Avatar storage is optional; without it the upload endpoint reports 503.
	var avatars *storage.AvatarStore
	if cfg.MinioEndpoint != "" {
		avatars, err = storage.NewAvatarStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize object storage")
		}
	} else {
		log.Warn().Msg("MINIO_ENDPOINT not set, avatar uploads disabled")
	}

	handler := handlers.NewHandler(db.GetDB(), tokens, avatars)
	srv := server.New(cfg, db, tokens, handler, log)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
