package main

import (
	"context"
	"flag"
	"log"

	"coachloop/internal/config"
	"coachloop/internal/logger"
	"coachloop/internal/service"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	username := flag.String("username", "admin", "manager login")
	password := flag.String("password", "", "manager password (required)")
	name := flag.String("name", "", "manager display name")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed: ", err)
	}

	// Step 1: schema
	if err := service.Migrate(db); err != nil {
		log.Fatal("migrate failed: ", err)
	}
	logger.Info("schema migrated", "driver", cfg.Database.Driver)

	// Step 2: manager account
	m, err := service.NewAuthService(db).UpsertManager(context.Background(), *username, *password, *name)
	if err != nil {
		log.Fatal("manager init failed: ", err)
	}
	logger.Info("manager ready", "id", m.ID, "username", m.Username)

	logger.Info("=== all done ===")
}
