package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/presence"
)

// PresenceHandler exposes the live presence registry over HTTP.
type PresenceHandler struct {
	registry *presence.Registry
}

// NewPresenceHandler constructs a PresenceHandler.
func NewPresenceHandler(registry *presence.Registry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

// OnlineUsers returns the usernames with at least one live session.
func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.registry.OnlineUsers()})
}
