package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/veilduel/veilduel-backend/internal/api"
	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/logging"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()
	defer logging.Sync()

	// Configuration file path may be provided via VEILDUEL_CONFIG or
	// defaults to ./veilduel_config.json in the working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./veilduel_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via VEILDUEL_DB. Default to a
	// data/ directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = "./data/veilduel.db"
	}
	repo := createRepositoryOrExit(dbPath)
	handler := api.NewBattleHandler(repo, cfg)

	startMaintenance(repo, cfg)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteGuestSession, handler.GuestSession)
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteLeaderboard, handler.Leaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RouteProfile, handler.Profile)
		protected.POST(constants.RouteMatches, handler.CreateMatch)
		protected.POST(constants.RouteMatchesJoin, handler.JoinMatch)
		protected.GET(constants.RouteMatchByCode, handler.GetMatch)
		protected.POST(constants.RouteRoundCommit, handler.CommitAction)
		protected.POST(constants.RouteRoundReveal, handler.RevealAction)
		protected.POST(constants.RouteRoundResolve, handler.ResolveTurn)
		protected.POST(constants.RouteRoundReady, handler.ReadyForNextRound)
		protected.POST(constants.RouteMatchmakingJoin, handler.JoinQueue)
		protected.POST(constants.RouteMatchmakingLeave, handler.CancelQueue)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
