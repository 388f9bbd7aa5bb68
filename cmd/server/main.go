package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/partydrop/backend/internal/api"
	"github.com/partydrop/backend/internal/boardcfg"
	"github.com/partydrop/backend/internal/config"
	"github.com/partydrop/backend/internal/database"
	"github.com/partydrop/backend/internal/engine"
	"github.com/partydrop/backend/internal/migrations"
	"github.com/partydrop/backend/internal/players"
	"github.com/partydrop/backend/internal/redis"
	"github.com/partydrop/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis. The board config store degrades to memory-only when
	// redis is unreachable; the simulation itself never needs it.
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Printf("[REDIS] Unavailable, running without persistence: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Roster store and board config
	playerStore := players.NewStore(db)
	configStore := boardcfg.NewStore(rdb)
	configStore.Load(context.Background())

	// Render feed hub and round engine manager
	hub := ws.NewHub()
	stall := time.Duration(cfg.RoundStallTimeoutSecs) * time.Second
	manager := engine.NewManager(playerStore, rdb, hub, stall)

	// Relay results published by other instances onto this hub
	ws.StartResultSubscriber(context.Background(), rdb, hub, manager.IsLocalRound)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, cfg, manager, configStore, playerStore, hub)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PartyDrop server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
