package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/activity"
	"mlaconnect/backend/internal/api/middleware"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Non-browser clients send no Origin.
			return origin == "" || middleware.OriginAllowed(origin, h.AllowedOrigins)
		},
	}
}

// ServeWebSocket upgrades an authenticated MLA to the live activity feed.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	user := middleware.CurrentUser(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.Warn("websocket upgrade failed", zap.String("user", user.ID), zap.Error(err))
		return
	}

	client := activity.NewWebSocketClient(user.ID, conn, h.Hub, h.Log)
	select {
	case h.Hub.RegisterCh <- client:
	case <-h.Hub.Done():
		conn.Close()
		return
	}
	client.Run()
}
