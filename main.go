package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/healthmateapp/healthmate-server/internal/chat/state"
	"github.com/healthmateapp/healthmate-server/internal/config"
	"github.com/healthmateapp/healthmate-server/internal/database"
	"github.com/healthmateapp/healthmate-server/internal/logger"
	"github.com/healthmateapp/healthmate-server/internal/scheduler"
	"github.com/healthmateapp/healthmate-server/internal/server"
	"github.com/healthmateapp/healthmate-server/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting HealthMate server...")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	var stateManager state.Manager
	if redisManager, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port); err != nil {
		logger.Warningf("Redis unavailable, using in-memory chat state: %v", err)
		stateManager = state.NewMemoryManager()
	} else {
		stateManager = redisManager
	}
	defer stateManager.Close()

	aiService, err := services.NewAIService(context.Background(), cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Fatalf("Failed to create AI service: %v", err)
	}
	defer aiService.Close()

	emailService := services.NewEmailService(cfg.SMTP)
	userService := services.NewUserService(db, cfg.Auth, emailService)
	medicationService := services.NewMedicationService(db)
	bpService := services.NewBloodPressureService(db)
	sugarService := services.NewBloodSugarService(db)
	alertService := services.NewAlertService(db)
	reportService := services.NewReportService(db)
	insightService := services.NewInsightService(db, aiService)
	chatService := services.NewChatService(db, aiService, reportService, stateManager)
	logger.Info("Services initialized successfully")

	jobs := scheduler.New(userService, insightService, alertService, emailService)
	if err := jobs.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	srv := server.New(cfg, server.Services{
		Users:       userService,
		Medications: medicationService,
		BP:          bpService,
		Sugar:       sugarService,
		Alerts:      alertService,
		Reports:     reportService,
		Insights:    insightService,
		Chats:       chatService,
	})
	if err := srv.Run(); err != nil {
		logger.Fatalf("Server stopped with error: %v", err)
	}
}
