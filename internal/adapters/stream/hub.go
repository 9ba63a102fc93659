package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"broker-demo-service/internal/domain"
)

const clientQueueSize = 32

// Hub fans simulation events out to connected dashboard clients over
// WebSocket. Publish never blocks: a client whose queue is full is
// dropped rather than stalling the engine.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader
}

type client struct {
	out  chan []byte
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // demo default
		},
	}
}

// Publish implements ports.EventSink.
func (h *Hub) Publish(ev domain.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("stream: marshal event kind=%s err=%v", ev.Kind, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.out <- b:
		default:
			delete(h.clients, c)
			close(c.done)
		}
	}
}

// ClientCount reports connected clients (for logging/tests).
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler upgrades the connection and streams events until the client
// goes away. The stream is one-way; inbound messages are discarded.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := &client{
			out:  make(chan []byte, clientQueueSize),
			done: make(chan struct{}),
		}
		h.mu.Lock()
		h.clients[c] = struct{}{}
		h.mu.Unlock()
		defer h.remove(c)

		// Writer goroutine: the read loop below owns connection teardown.
		go func() {
			for {
				select {
				case <-c.done:
					return
				case b, ok := <-c.out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.done)
	}
}
