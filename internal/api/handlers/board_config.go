package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partydrop/backend/internal/boardcfg"
	"github.com/partydrop/backend/internal/engine"
	"github.com/partydrop/backend/internal/players"
)

// GetBoardConfig returns the current board configuration.
func GetBoardConfig(store *boardcfg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Current())
	}
}

// PutBoardConfig validates, normalizes and stores a new board configuration.
// Persistence is fire-and-forget: a redis failure keeps the config in memory
// and is surfaced as a non-fatal "persisted": false.
func PutBoardConfig(store *boardcfg.Store, ps *players.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg engine.BoardConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board config: " + err.Error()})
			return
		}

		active := activePlayerCount(c.Request.Context(), ps)
		cfg = cfg.Normalized(active)

		persisted := store.Save(c.Request.Context(), cfg)
		c.JSON(http.StatusOK, gin.H{
			"config":    cfg,
			"persisted": persisted,
		})
	}
}

// activePlayerCount tolerates DB trouble: the bucket count falls back to the
// minimum of 2 rather than failing the config save.
func activePlayerCount(ctx context.Context, ps *players.Store) int {
	if ps == nil {
		return 0
	}
	roster, err := ps.Active(ctx)
	if err != nil {
		log.Printf("[CONFIG] Could not count active players, defaulting bucket count: %v", err)
		return 0
	}
	return len(roster)
}
