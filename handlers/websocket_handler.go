package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *brackets.Hub
	bracketService services.BracketService
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler создаёт обработчик; пустой allowedOrigins разрешает любой Origin.
func NewWebSocketHandler(hub *brackets.Hub, bs services.BracketService, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &WebSocketHandler{
		hub:            hub,
		bracketService: bs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin] || origins["*"]
			},
		},
	}
}

// ServeWs подписывает клиента на обновления сетки события.
// Клиент подключается к /ws/events/{eventID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Комнаты создаются только для существующих событий.
	if _, err := h.bracketService.GetProgress(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		requestLogger(r).Warn("websocket upgrade failed", slog.Int("event_id", eventID), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.EventRoom(eventID),
	}
	if !h.hub.Join(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
