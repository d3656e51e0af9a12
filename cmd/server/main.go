// Command movievault-server starts the movie catalog REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/movievault/movievault/internal/config"
	"github.com/movievault/movievault/internal/limiter"
	"github.com/movievault/movievault/internal/repository/mongodb"
	httpserver "github.com/movievault/movievault/internal/server/http"
	"github.com/movievault/movievault/internal/service"
	"github.com/movievault/movievault/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, connects to MongoDB and starts the HTTP server
// with graceful shutdown.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.DBName, cfg.StoreTimeout)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer func() { _ = db.Close(context.Background()) }()

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	// Repositories
	userRepo := mongodb.NewUserRepo(db)
	movieRepo := mongodb.NewMovieRepo(db)

	lim := limiter.NewMongo(db.Limits, 15*time.Minute, 5, 15*time.Minute)

	// Services
	issuer := token.NewIssuer([]byte(cfg.JWTSecret))
	verifier := token.NewVerifier([]byte(cfg.JWTSecret))
	authSvc := service.NewAuthService(userRepo, issuer, cfg.BcryptCost, lim)
	userSvc := service.NewUserService(userRepo, cfg.BcryptCost)
	movieSvc := service.NewMovieService(movieRepo)

	app := httpserver.New(authSvc, userSvc, movieSvc, userRepo, verifier, logger)

	handler := app.Router()
	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
