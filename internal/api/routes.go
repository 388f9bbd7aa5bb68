package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/partydrop/backend/internal/api/handlers"
	"github.com/partydrop/backend/internal/boardcfg"
	"github.com/partydrop/backend/internal/config"
	"github.com/partydrop/backend/internal/engine"
	"github.com/partydrop/backend/internal/middleware"
	"github.com/partydrop/backend/internal/players"
	"github.com/partydrop/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, mgr *engine.Manager, store *boardcfg.Store, ps *players.Store, hub *ws.Hub) {
	router.Use(middleware.CORSMiddleware(cfg))

	// No-cache middleware in development so the config form never fights
	// a stale copy
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Board configuration
		v1.GET("/board-config", handlers.GetBoardConfig(store))
		v1.PUT("/board-config", handlers.PutBoardConfig(store, ps))

		// Player roster
		player := v1.Group("/players")
		{
			player.GET("", handlers.ListPlayers(ps))
			player.POST("", handlers.CreatePlayer(ps))
			player.PUT("/:id", handlers.UpdatePlayer(ps))
			player.POST("/:id/archive", handlers.ArchivePlayer(ps))
		}

		// Round lifecycle and render feed
		round := v1.Group("/round")
		{
			round.POST("/start", handlers.StartRound(mgr, store))
			round.POST("/stop", handlers.StopRound(mgr))
			round.GET("/state", handlers.GetRoundState(mgr))
			round.GET("/ws", handlers.HandleRoundFeed(hub))
		}
	}
}
