// handlers/ws.go - Live leaderboard feed
//
// Pushes a fresh top-of-leaderboard snapshot to connected clients whenever
// the ranking changes (simulator ticks, snapshot syncs). Display-only.
package handlers

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"petpal/models"
	"petpal/services"
)

type leaderboardHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []models.LeaderboardEntry
	dirty   chan struct{}
}

var hub = &leaderboardHub{
	clients: make(map[*websocket.Conn]chan []models.LeaderboardEntry),
	dirty:   make(chan struct{}, 1),
}

// InitLeaderboardFeed wires the hub to the facade and starts the
// broadcaster. The change listener only signals a channel; it must not
// call back into the facade.
func InitLeaderboardFeed(facade *services.Progression) {
	facade.OnLeaderboardChange(func() {
		select {
		case hub.dirty <- struct{}{}:
		default:
		}
	})
	go hub.run(facade)
}

func (h *leaderboardHub) run(facade *services.Progression) {
	for range h.dirty {
		// Coalesce bursts of changes into one push.
		time.Sleep(200 * time.Millisecond)
		select {
		case <-h.dirty:
		default:
		}

		entries := facade.TopPlayers(20)
		h.mu.Lock()
		for _, ch := range h.clients {
			select {
			case ch <- entries:
			default:
			}
		}
		h.mu.Unlock()
	}
}

// WebSocketUpgrade gates /ws/leaderboard to actual websocket requests.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LeaderboardFeed streams leaderboard updates to a client.
// GET /ws/leaderboard
var LeaderboardFeed = websocket.New(func(conn *websocket.Conn) {
	ch := make(chan []models.LeaderboardEntry, 1)

	hub.mu.Lock()
	hub.clients[conn] = ch
	hub.mu.Unlock()

	defer func() {
		hub.mu.Lock()
		delete(hub.clients, conn)
		hub.mu.Unlock()
		conn.Close()
	}()

	// Initial snapshot so the client renders immediately.
	if err := conn.WriteJSON(fiber.Map{
		"type":    "leaderboard",
		"entries": services.GetProgression().TopPlayers(20),
	}); err != nil {
		return
	}

	// Reader goroutine: we ignore client messages but need to notice the
	// connection closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entries := <-ch:
			if err := conn.WriteJSON(fiber.Map{
				"type":    "leaderboard",
				"entries": entries,
			}); err != nil {
				log.Printf("Leaderboard feed write failed: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
})
