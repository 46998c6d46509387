package ws

import (
	"context"
	"net/http"

	"skillswap_backend/internal/logger"
	"skillswap_backend/pkg/apperrors"
	"skillswap_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Manager     *WebSocketManager
	requireAuth gin.HandlerFunc
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; an empty list allows any origin.
func NewWebSocketHandler(manager *WebSocketManager, requireAuth gin.HandlerFunc, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WebSocketHandler{
		Manager:     manager,
		requireAuth: requireAuth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *WebSocketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.requireAuth, h.ServeWS)
}

func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := c.GetString(string(contextkeys.UserIDKey))
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "WebSocket upgrade error", err)
		return
	}

	// The request context ends with the handler; the connection outlives it.
	client := newClient(context.WithoutCancel(c.Request.Context()), h.Manager, conn, userID)
	select {
	case h.Manager.register <- client:
	case <-h.Manager.done:
		conn.Close()
		return
	}
	logger.CtxInfo(client.Ctx, "WebSocket client connected")

	go client.writePump()
	go client.readPump()
}
