package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pageza/nutriplan/backend/internal/realtime"
)

// RealtimeHandler upgrades authenticated requests to a WebSocket on the hub.
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler accepts handshakes from the given origins. Requests
// without an Origin header (non-browser clients) are accepted too.
func NewRealtimeHandler(hub *realtime.Hub, origins []string) *RealtimeHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (h *RealtimeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", h.Connect)
}

// Connect blocks for the lifetime of the connection.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Printf("[Realtime] upgrade failed for %s: %v", userID, err)
		return
	}
	h.hub.Serve(conn, userID)
}
