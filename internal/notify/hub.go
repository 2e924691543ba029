// README: WebSocket fan-out hub for driver sessions.
package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"entrega/internal/logger"
	"entrega/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sessionBacklog = 32
)

// Hub keeps one buffered outbox per connected driver session and fans every
// lifecycle event out to all of them. A session whose outbox is full misses
// the event; the client reconciles on its next list fetch.
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

type session struct {
	driverID types.ID
	conn     *websocket.Conn
	outbox   chan Event
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[*session]struct{}),
	}
}

// Run fans events from src out to all connected sessions until the source
// channel closes.
func (h *Hub) Run(src Source) {
	for e := range src.Events() {
		h.mu.RLock()
		for s := range h.sessions {
			select {
			case s.outbox <- e:
			default:
				// Slow session: drop, never block the fan-out loop.
			}
		}
		h.mu.RUnlock()
	}
}

// ServeWS upgrades the request and runs the session pumps. It returns when
// the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, driverID types.ID) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", logger.Error(err))
		return
	}

	s := &session{driverID: driverID, conn: conn, outbox: make(chan Event, sessionBacklog)}
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	go h.writePump(s)
	h.readPump(s)
}

func (h *Hub) remove(s *session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.outbox)
	}
	h.mu.Unlock()
}

// readPump discards inbound frames; it exists to process control messages and
// notice disconnects.
func (h *Hub) readPump(s *session) {
	defer func() {
		h.remove(s)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case e, ok := <-s.outbox:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := s.conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
