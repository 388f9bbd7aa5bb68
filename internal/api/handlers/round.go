package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partydrop/backend/internal/boardcfg"
	"github.com/partydrop/backend/internal/engine"
	"github.com/partydrop/backend/internal/ws"
)

// StartRound builds a round from the current board config and roster and
// starts it. A running round is stopped first; rounds never overlap.
func StartRound(mgr *engine.Manager, store *boardcfg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := mgr.StartRound(c.Request.Context(), store.Current())
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"round_id": id})
	}
}

// StopRound cancels the current round, if any.
func StopRound(mgr *engine.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr.StopRound()
		c.JSON(http.StatusOK, gin.H{"stopped": true})
	}
}

// GetRoundState returns the latest snapshot of the current round.
func GetRoundState(mgr *engine.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := mgr.Snapshot()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no round running"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// HandleRoundFeed upgrades to a websocket and streams render frames.
func HandleRoundFeed(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.HandleFeed(c.Writer, c.Request)
	}
}
