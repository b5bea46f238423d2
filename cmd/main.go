package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mau.fi/whatsmeow/types/events"
	"golang.org/x/time/rate"

	"wavebot/internal/infrastructure"
	"wavebot/internal/interfaces/http"
	"wavebot/internal/repository"
	"wavebot/internal/usecases"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using environment as-is")
	}

	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pgClient, err := infrastructure.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()

	accounts := repository.NewAccountRepository(pgClient.Pool)
	profiles := repository.NewProfileRepository(pgClient.Pool)
	messages := repository.NewMessageRepository(pgClient.Pool)

	wa, err := infrastructure.NewWhatsAppClient(cfg.SessionDBPath)
	if err != nil {
		logger.Error("failed to initialize WhatsApp client", "error", err)
		os.Exit(1)
	}

	typing := infrastructure.NewTypingManager(wa, logger)
	dispatcher := usecases.NewDispatcher(wa, typing, logger)

	llm := infrastructure.NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.SiteURL)
	conversation := usecases.NewConversation(profiles, messages, llm, cfg.Model, logger)
	registration := usecases.NewRegistration(accounts, dispatcher, cfg.ChatBaseURL, logger)
	router := usecases.NewRouter(accounts, profiles, messages, dispatcher, registration, conversation, cfg.ChatBaseURL, logger)
	classifier := usecases.NewClassifier(cfg.QueueKeyword, logger)

	// Messages are handled synchronously so replies to one chat keep their
	// arrival order.
	wa.AddHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			msg, ok := classifier.Classify(v)
			if !ok {
				return
			}
			if err := router.HandleMessage(context.Background(), msg); err != nil {
				logger.Error("failed to handle message", "phone", msg.Phone, "error", err)
			}
		}
	})

	if err := wa.Connect(); err != nil {
		logger.Error("failed to connect WhatsApp client", "error", err)
		os.Exit(1)
	}

	limiter := infrastructure.NewRecipientRateLimiter(rate.Every(time.Second), 5)

	r := gin.Default()
	http.SetupRoutes(r, dispatcher, limiter, wa, logger)
	go func() {
		if err := r.Run(cfg.APIAddr); err != nil {
			logger.Error("HTTP server stopped", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("bot is running", "api_addr", cfg.APIAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	wa.Disconnect()
}
