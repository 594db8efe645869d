package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/config"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/logging"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize server", "error", err)
	}
	r := srv.SetupRouter()

	logger.Info("starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
