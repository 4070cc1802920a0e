package events

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Actions a change event can carry.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Change describes one successful mutation on a resource family. Connected
// clients use it to invalidate their local caches.
type Change struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       string `json:"id"`
}

const clientBuffer = 16

var (
	mu        sync.Mutex
	clients   = make(map[*websocket.Conn]chan Change)
	broadcast = make(chan Change, 64)
)

// Publish queues a change event for every connected client. Handlers call
// this after the mutation has committed; a full broadcast queue drops the
// event rather than delaying the response.
func Publish(resource, action, id string) {
	select {
	case broadcast <- Change{Resource: resource, Action: action, ID: id}:
	default:
		log.Println("Event feed backlogged, dropping change event")
	}
}

// Run fans broadcast events out to every client. Slow clients whose buffer
// is full are dropped instead of blocking the publisher. Call once from
// main as a goroutine.
func Run() {
	for change := range broadcast {
		mu.Lock()
		for conn, ch := range clients {
			select {
			case ch <- change:
			default:
				log.Println("WebSocket client too slow, dropping connection")
				delete(clients, conn)
				close(ch)
			}
		}
		mu.Unlock()
	}
}

// WebSocketHandler registers the connection and streams change events to it
// until the peer goes away.
func WebSocketHandler(c *websocket.Conn) {
	ch := make(chan Change, clientBuffer)
	mu.Lock()
	clients[c] = ch
	mu.Unlock()

	log.Println("New WebSocket client connected to the event feed")

	done := make(chan struct{})
	go func() {
		// Drain the peer so close frames are processed
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		mu.Lock()
		if cur, ok := clients[c]; ok && cur == ch {
			delete(clients, c)
			close(ch)
		}
		mu.Unlock()
		c.Close()
	}()

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteJSON(change); err != nil {
				log.Println("Error sending change event:", err)
				return
			}
		case <-done:
			return
		}
	}
}
