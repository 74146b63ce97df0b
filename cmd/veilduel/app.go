package main

import (
	"github.com/veilduel/veilduel-backend/internal/config"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": path, "hint": "create a veilduel_config.json with a 'character_list' array of {name,max_health,damage} and optional keys: server.address, matchmaking.{rating_tolerance,queue_expiry_seconds}, abandon_after_minutes"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
