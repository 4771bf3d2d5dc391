package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kyartuvzgo/kyartu-bot/internal/config"
	"github.com/kyartuvzgo/kyartu-bot/internal/handlers"
	"github.com/kyartuvzgo/kyartu-bot/internal/i18n"
	"github.com/kyartuvzgo/kyartu-bot/internal/middleware"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/ai"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/kv"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/persona"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/search"
	"github.com/kyartuvzgo/kyartu-bot/internal/services/session"
	"github.com/kyartuvzgo/kyartu-bot/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting Kyartu Vzgo backend...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics
	metrics := middleware.NewMetrics()
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Key-value store client
	kvClient, err := kv.NewClient(&cfg.Store, log, metrics)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize key-value store")
	}

	// Session cache layer
	sessions := session.NewManager(&cfg.Store.Local, kvClient, log, metrics)

	// AI service
	aiService := ai.NewClient(&cfg.Models, log)

	// Web search (cached)
	searcher := search.NewClient(&cfg.Search, sessions, metrics, log)

	// Persona analysis
	analyzer := persona.NewAnalyzer(log)

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg, log)

	// i18n
	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Handlers
	chatHandler := handlers.NewChatHandler(cfg, aiService, sessions, searcher, analyzer, rateLimiter, localizer, metrics, log)
	sessionHandler := handlers.NewSessionHandler(sessions, metrics, log)
	userHandler := handlers.NewUserHandler(sessions, localizer, metrics, log)
	reactionHandler := handlers.NewReactionHandler(sessions, metrics, log)

	router := handlers.NewRouter(chatHandler, sessionHandler, userHandler, reactionHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("API server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// Periodic store health check
	go startHealthChecks(ctx, kvClient, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	cancel()
	log.Info("Server stopped")
}

// startHealthChecks pings the remote store periodically so outages show up
// in the logs before a user hits them
func startHealthChecks(ctx context.Context, client *kv.Client, log *logrus.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := client.Ping(pingCtx); err != nil {
				log.WithError(err).Warn("Key-value store health check failed")
			}
			cancel()
		}
	}
}
