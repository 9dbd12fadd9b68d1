package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/logger"
)

// StreamHub fans scheduler-produced analysis results out to websocket
// subscribers. Slow clients are dropped rather than allowed to block
// the broadcast.
type StreamHub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan *contracts.AnalysisResult
}

// NewStreamHub creates a new stream hub.
func NewStreamHub(log *logger.Logger) *StreamHub {
	return &StreamHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The dashboard is served from another origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]chan *contracts.AnalysisResult),
	}
}

// Publish broadcasts a result to all subscribers.
func (h *StreamHub) Publish(result *contracts.AnalysisResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, ch := range h.clients {
		select {
		case ch <- result:
		default:
			h.logger.WithField("remote", conn.RemoteAddr().String()).
				Warn("Dropping analysis update for slow subscriber")
		}
	}
}

// Serve handles GET /ws/analyses, upgrading to a websocket that
// receives every published analysis result as JSON.
func (h *StreamHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	ch := make(chan *contracts.AnalysisResult, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	h.logger.WithField("remote", conn.RemoteAddr().String()).Info("Stream subscriber connected")

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

// writeLoop pushes results and periodic pings to one subscriber.
func (h *StreamHub) writeLoop(conn *websocket.Conn, ch chan *contracts.AnalysisResult) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case result, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(result); err != nil {
				h.remove(conn)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(conn)
				return
			}
		}
	}
}

// readLoop drains client messages until the connection dies; inbound
// payloads are ignored, the stream is one-way.
func (h *StreamHub) readLoop(conn *websocket.Conn) {
	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// remove drops a subscriber and closes its connection.
func (h *StreamHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
	conn.Close()
}
