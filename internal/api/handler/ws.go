package handler

import (
	"net/http"

	"futuremesh/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection to a WebSocket and registers
// it with the hub. The connection starts unauthenticated; the client must
// send a connect event carrying its token before anything else works.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn)
	h.Hub.RegisterCh <- client
	client.Run()
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
