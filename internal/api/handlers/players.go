package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/partydrop/backend/internal/players"
)

// playerResponse is the wire shape of one roster entry, with the avatar
// already resolved to a displayable URL.
type playerResponse struct {
	players.Player
	Avatar string `json:"avatar"`
}

func toResponse(p players.Player) playerResponse {
	return playerResponse{Player: p, Avatar: players.AvatarFor(p)}
}

// ListPlayers returns the roster. ?archived=true includes archived entries.
func ListPlayers(ps *players.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeArchived := c.Query("archived") == "true"
		roster, err := ps.List(c.Request.Context(), includeArchived)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load roster"})
			return
		}
		out := make([]playerResponse, len(roster))
		for i, p := range roster {
			out[i] = toResponse(p)
		}
		c.JSON(http.StatusOK, gin.H{"players": out})
	}
}

type playerRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Active    *bool  `json:"active"`
}

// CreatePlayer adds a roster entry.
func CreatePlayer(ps *players.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req playerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player payload"})
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player name is required"})
			return
		}

		p, err := ps.Create(c.Request.Context(), req.Name, req.AvatarURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create player"})
			return
		}
		c.JSON(http.StatusCreated, toResponse(*p))
	}
}

// UpdatePlayer changes name, avatar and active flag.
func UpdatePlayer(ps *players.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
			return
		}

		var req playerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player payload"})
			return
		}

		current, err := ps.Get(c.Request.Context(), id)
		if errors.Is(err, players.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
			return
		}

		name := current.Name
		if s := strings.TrimSpace(req.Name); s != "" {
			name = s
		}
		avatar := current.AvatarURL
		if req.AvatarURL != "" {
			avatar = req.AvatarURL
		}
		active := current.Active
		if req.Active != nil {
			active = *req.Active
		}

		p, err := ps.Update(c.Request.Context(), id, name, avatar, active)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update player"})
			return
		}
		c.JSON(http.StatusOK, toResponse(*p))
	}
}

// ArchivePlayer hides a player from the roster and future rounds.
func ArchivePlayer(ps *players.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
			return
		}

		err = ps.Archive(c.Request.Context(), id)
		if errors.Is(err, players.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive player"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"archived": true})
	}
}
