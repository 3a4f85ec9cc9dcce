package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintwin/internal/amqp"
	"fintwin/internal/backend"
	"fintwin/internal/chat"
	"fintwin/internal/chat/gemini"
	"fintwin/internal/chat/mock"
	"fintwin/internal/chat/openai"
	"fintwin/internal/config"
	apphttp "fintwin/internal/http"
	"fintwin/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Persistence backend
	result, err := backend.NewFactory(logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// AMQP publisher (optional)
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without export events", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewTransactionService(result.Store, publisher)

	// Chat provider; anything that fails to initialize falls back to the
	// deterministic mock so the dashboard stays usable.
	relay := chat.NewRelay(newGenerator(cfg, logger))

	srv := apphttp.NewServer(":"+cfg.Port, svc, relay)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fintwin server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"chat_provider", cfg.ChatProvider)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func newGenerator(cfg *config.Config, logger *slog.Logger) chat.Generator {
	switch cfg.ChatProvider {
	case "gemini":
		gen, err := gemini.New(cfg.ChatAPIKey, cfg.ChatModel, cfg.ChatBaseURL, cfg.ChatGrounding)
		if err != nil {
			logger.Warn("Failed to initialize Gemini provider, falling back to mock", "error", err)
			return mock.New()
		}
		logger.Info("Initialized Gemini chat provider", "grounding", cfg.ChatGrounding)
		return gen
	case "openai":
		gen, err := openai.New(cfg.ChatAPIKey, cfg.ChatModel, cfg.ChatBaseURL)
		if err != nil {
			logger.Warn("Failed to initialize OpenAI provider, falling back to mock", "error", err)
			return mock.New()
		}
		logger.Info("Initialized OpenAI chat provider")
		return gen
	default:
		logger.Info("Using mock chat provider")
		return mock.New()
	}
}
