package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"go-backoffice/pkg/logger"
)

// Event types pushed to connected consoles.
const (
	EventInvoiceCreated   = "invoice_created"
	EventInvoiceDeleted   = "invoice_deleted"
	EventStockUpdate      = "stock_update"
	EventUserStatusUpdate = "user_status_update"
)

type Event struct {
	Type    string    `json:"type"`
	Action  string    `json:"action,omitempty"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	Broadcast  chan []byte
	log        logger.Logger
	mutex      sync.Mutex

	// done is closed when Run returns.
	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		Broadcast:  make(chan []byte, 64),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Attach hands conn to the running hub. It reports false, without blocking,
// once the hub has stopped.
func (h *Hub) Attach(conn Conn) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Detach removes conn. After the hub stopped it returns at once; the
// connection was already closed by Run.
func (h *Hub) Detach(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("ws client connected", "clients", n)

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Warn("ws write failed, dropping client", "error", err)
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues ev for every client. It never blocks; when the queue is
// full the event is dropped.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws marshal event", "type", ev.Type, "error", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, event dropped", "type", ev.Type)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
