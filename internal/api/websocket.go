package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboards may run on any origin
	},
}

// Hub fans channel and settlement events out to every dashboard
// subscribed on /stream. Handlers publish JSON event envelopes
// (routes.go's "channel.opened", "settlement.batched", etc.) through
// Broadcast; Hub does not interpret the payload, it just relays bytes.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

// NewHub creates an empty Hub. Callers must start Run in its own
// goroutine before any client can receive a broadcast.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains the broadcast channel and fans each message out to every
// connected client. A client whose write stalls past its deadline or
// errors is dropped rather than blocking the rest of the fan-out.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			err := client.WriteMessage(websocket.TextMessage, message)
			if err != nil {
				log.Printf("stream write error, dropping client: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades GET /stream to a websocket and registers the
// connection for event fan-out. It never reads application data from
// the client; the read loop exists only to detect disconnects.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("stream upgrade failed: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	total := len(h.clients)
	h.mutex.Unlock()

	log.Printf("stream subscriber connected, %d active", total)

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			remaining := len(h.clients)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("stream subscriber disconnected, %d active", remaining)
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("stream read error: %v", err)
				}
				break
			}
		}
	}()
}

// Broadcast enqueues a JSON event envelope for delivery to every
// connected subscriber. Safe to call from any handler goroutine.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}
