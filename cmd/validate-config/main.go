package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/healthmateapp/healthmate-server/internal/config"
)

func main() {
	fmt.Println("Validating configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration valid!")
	fmt.Printf("  - Server Port: %s\n", cfg.Server.Port)
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - Redis: %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)
	fmt.Printf("  - JWT Secret: %s\n", maskSecret(cfg.Auth.JWTSecret))
	fmt.Printf("  - Gemini API Key: %s\n", maskSecret(cfg.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskSecret(cfg.OpenAIAPIKey))
	fmt.Printf("  - SMTP: %s:%d (sender %s)\n", cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Sender)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
