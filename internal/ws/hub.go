package ws

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type targeted struct {
	clientID uuid.UUID
	payload  []byte
}

// Hub tracks live connections per authenticated client and delivers targeted
// events. One client may hold several connections (tabs, devices).
type Hub struct {
	conns      map[*Conn]bool
	send       chan targeted
	register   chan *Conn
	unregister chan *Conn
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:      make(map[*Conn]bool),
		send:       make(chan targeted, 1024),
		register:   make(chan *Conn, 128),
		unregister: make(chan *Conn, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			if conn == nil {
				continue
			}
			h.mutex.Lock()
			h.conns[conn] = true
			total := len(h.conns)
			h.mutex.Unlock()
			h.logger.Info("ws connected",
				zap.Stringer("client_id", conn.clientID),
				zap.Int("total_conns", total),
			)

		case conn := <-h.unregister:
			if conn == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.send)
			}
			total := len(h.conns)
			h.mutex.Unlock()
			h.logger.Info("ws disconnected",
				zap.Stringer("client_id", conn.clientID),
				zap.Int("total_conns", total),
			)

		case msg := <-h.send:
			h.mutex.Lock()
			for c := range h.conns {
				if c.clientID != msg.clientID {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					// Full buffer means the reader is stuck. Drop inline;
					// the unregister channel may itself be full.
					delete(h.conns, c)
					close(c.send)
					h.logger.Info("ws dropped slow connection",
						zap.Stringer("client_id", c.clientID),
					)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) Register(conn *Conn) {
	if h == nil {
		return
	}
	h.register <- conn
}

func (h *Hub) Unregister(conn *Conn) {
	if h == nil {
		return
	}
	h.unregister <- conn
}

// Send queues a payload for every live connection of one client. Dropped when
// the hub's buffer is full; events are advisory, the REST API remains the
// source of truth.
func (h *Hub) Send(clientID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.send <- targeted{clientID: clientID, payload: payload}:
	default:
		h.logger.Warn("ws send dropped", zap.Stringer("client_id", clientID))
	}
}

func (h *Hub) ConnCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.conns)
}
