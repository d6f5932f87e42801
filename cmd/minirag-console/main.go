package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Karim-Bennia/minirag-console/internal/api"
	"github.com/Karim-Bennia/minirag-console/internal/config"
	"github.com/Karim-Bennia/minirag-console/internal/minirag"
	"github.com/Karim-Bennia/minirag-console/internal/repository"
	"github.com/Karim-Bennia/minirag-console/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// .env is optional; viper picks the variables up through the environment
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	stateRepo := repository.NewStateRepository(db, logger)

	// Without a backend URL the console still starts; every network-initiating
	// action is rejected with a not-configured error instead
	var backend *minirag.Client
	if cfg.Backend.BaseURL != "" {
		backend = minirag.New(cfg.Backend.BaseURL)
	} else {
		logger.Warn("backend base URL not configured, uploads and queries are disabled")
	}

	ingestService := service.NewIngestService(cfg, backend, stateRepo, logger)
	chatService := service.NewChatService(cfg, backend, stateRepo, logger)

	router := api.SetupRouter(cfg, ingestService, chatService, stateRepo)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting minirag-console",
			zap.String("address", cfg.Address()),
			zap.String("backend", cfg.Backend.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
