package handler

import (
	"net/http"

	"webchat/backend/internal/chathub"
	"webchat/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and hands the connection to the
// hub. Authentication happens before the session exists: a bad token refuses
// the connection outright.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication error: No token provided"})
		return
	}

	userID, err := h.parseJWT(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication error: Invalid token"})
		return
	}

	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication error: User not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		UserID:  user.ID,
		Profile: user.Profile(),
		Conn:    conn,
		Hub:     h.Hub,
		Send:    make(chan models.OutEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
