package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/audio"
	"github.com/Ebenezer-Bakouan/backend/internal/config"
	"github.com/Ebenezer-Bakouan/backend/internal/database"
	"github.com/Ebenezer-Bakouan/backend/internal/grading"
	"github.com/Ebenezer-Bakouan/backend/internal/handlers"
	"github.com/Ebenezer-Bakouan/backend/internal/llm"
	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/repository"
	"github.com/Ebenezer-Bakouan/backend/internal/security"
	"github.com/Ebenezer-Bakouan/backend/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logging.NewLogger(ctx)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Infof("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	grader, err := llm.New(ctx, cfg, llm.Purpose{
		Instructions: grading.Instructions,
		Schema:       grading.ResponseSchema(),
	})
	if err != nil {
		log.Fatalf("Failed to create grading client: %v", err)
	}
	generator, err := llm.New(ctx, cfg, llm.Purpose{
		Instructions: service.GenerationInstructions,
		Schema:       service.GenerationSchema(),
	})
	if err != nil {
		log.Fatalf("Failed to create generation client: %v", err)
	}

	synth, err := audio.NewSynthesizer(ctx, cfg)
	switch {
	case errors.Is(err, audio.ErrNarrationDisabled):
		log.Info("Narration disabled")
	case err != nil:
		log.Fatalf("Failed to create synthesizer: %v", err)
	}
	if closer, ok := synth.(io.Closer); ok {
		defer closer.Close()
	}

	store, err := audio.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create audio store: %v", err)
	}

	dictationRepo := repository.NewDictationRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	narrationService := service.NewNarrationService(synth, store, dictationRepo)
	dictationService := service.NewDictationService(dictationRepo, generator, narrationService, cfg.GradingTimeout)
	gradingService := service.NewGradingService(
		grading.NewPipeline(grader, cfg.GradingTimeout),
		dictationRepo,
		attemptRepo,
		progressRepo,
	)

	limiter := security.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go limiter.Cleanup(ctx, time.Hour)

	routes := handlers.Routes{
		Attempts:   handlers.NewAttemptHandler(gradingService, dictationService),
		Dictations: handlers.NewDictationHandler(dictationService, narrationService),
		Middleware: handlers.NewMiddleware(cfg.JWTSecret, limiter),
		MediaPath:  cfg.MediaPath,
	}

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Generation and grading calls can take up to the grading timeout.
		WriteTimeout: cfg.GradingTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
