package events

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// sendBuffer is how many events a dashboard may fall behind before it
	// is dropped.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writeLoop is the connection's only writer.
func (c *wsClient) writeLoop() {
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Hub keeps the open websocket connections of each restaurant's dashboard
// and pushes that restaurant's order events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[string]map[*wsClient]struct{}{}}
}

// Serve upgrades the request and holds the connection until the client
// goes away. Incoming messages are read and dropped.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, restaurantID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	cl := newClient(conn)
	h.add(restaurantID, cl)
	log.Printf("📡 Dashboard connected to restaurant %s (%d watching)", restaurantID, h.Subscribers(restaurantID))
	defer func() {
		h.remove(restaurantID, cl)
		cl.close()
	}()

	go cl.writeLoop()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (h *Hub) add(restaurantID string, cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[restaurantID]
	if !ok {
		set = map[*wsClient]struct{}{}
		h.clients[restaurantID] = set
	}
	set[cl] = struct{}{}
}

func (h *Hub) remove(restaurantID string, cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[restaurantID]; ok {
		delete(set, cl)
		if len(set) == 0 {
			delete(h.clients, restaurantID)
		}
	}
}

// Subscribers reports how many dashboards watch restaurantID.
func (h *Hub) Subscribers(restaurantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[restaurantID])
}

// Publish queues e for every dashboard of its restaurant and returns
// without waiting for the writes. A dashboard whose queue is full is
// disconnected.
func (h *Hub) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients[e.RestaurantID]))
	for cl := range h.clients[e.RestaurantID] {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		select {
		case cl.send <- data:
		case <-cl.done:
		default:
			log.Printf("⚠️ Dropping slow websocket client for restaurant %s", e.RestaurantID)
			h.remove(e.RestaurantID, cl)
			cl.close()
		}
	}
	return nil
}
