package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/velesar/fateweaver/internal/api"
	"github.com/velesar/fateweaver/internal/config"
	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/logging"
	"github.com/velesar/fateweaver/internal/service"
	"github.com/velesar/fateweaver/internal/storage"
)

func main() {
	// Load the content pack (required). Path may be provided via
	// FATEWEAVER_CONFIG or defaults to ./fateweaver_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid fateweaver configuration", err, logging.Fields{"config_path": configPath, "hint": "create a fateweaver_config.json with a 'hero' object, an 'enemy_list' array and a 'fate_deck' array; optional keys: summon_list, extra_cards, server.address"})
	}

	// Allow the DB path to be configured via FATEWEAVER_DB.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = constants.DefaultDBPath
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	handler := api.NewEncounterHandler(repo, cfg)

	startStaleScanner(repo)

	router := gin.Default()
	router.GET(constants.RouteHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
	})

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	handler.RegisterRoutes(apiRoutes)

	addr := cfg.ServerAddress
	if env := os.Getenv(constants.EnvAddr); env != "" {
		addr = env
	}
	if addr == "" {
		addr = constants.DefaultAddr
	}
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

// startStaleScanner periodically abandons in-progress encounters that
// have seen no activity for a day. Abandoned encounters keep their
// stored trace so they can still be replayed later.
func startStaleScanner(repo storage.Repository) {
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-24 * time.Hour)
			n, err := service.AbandonStale(repo, cutoff)
			if err != nil {
				logging.Error("stale scanner failed", err, nil)
				continue
			}
			if n > 0 {
				logging.Info("Abandoned stale encounters", logging.Fields{"count": n})
			}
		}
	}()
}
