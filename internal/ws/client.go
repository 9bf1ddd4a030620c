package ws

import (
	"log/slog"
	"net/http"
	"time"

	"treasury_go/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Subscriptions are read-only; any origin may attach.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeTopic upgrades GET /ws/{topic} to a websocket and streams every
// publish on that topic to the client until it disconnects.
func (h *Hub) ServeTopic(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if !domain.ValidTopic(topic) {
		http.Error(w, "unknown topic", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	sub := h.subscribe(topic)
	slog.Info("subscriber connected", slog.String("topic", topic))

	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

// writePump drains the subscriber queue onto the connection and keeps it
// alive with pings. Any write failure tears the subscription down.
func (h *Hub) writePump(conn *websocket.Conn, sub *subscriber) {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		h.unsubscribe(sub)
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-sub.ch:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; its job is to notice the peer going
// away and release the subscription.
func (h *Hub) readPump(conn *websocket.Conn, sub *subscriber) {
	defer func() {
		h.unsubscribe(sub)
		conn.Close()
		slog.Info("subscriber disconnected", slog.String("topic", sub.topic))
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
