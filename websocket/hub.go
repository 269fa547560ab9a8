package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"servicehub-server/models"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub      *Hub
	ID       uint
	UserType string // "customer" or "worker"
	Conn     *websocket.Conn
	Send     chan []byte
}

// Event is the wire format pushed to connected clients
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub manages all WebSocket connections, keyed by user ID
type Hub struct {
	// Registered clients
	Clients map[uint]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Broadcast channel for events to all connected workers
	Broadcast chan *Event

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *Event),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: ID=%d, Type=%s", client.ID, client.UserType)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client.ID]; ok {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: ID=%d, Type=%s", client.ID, client.UserType)

		case event := <-h.Broadcast:
			h.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to every connected worker client
func (h *Hub) broadcastEvent(event *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Error marshaling event: %v", err)
		return
	}

	for _, client := range h.Clients {
		if client.UserType != "worker" {
			continue
		}
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, client.ID)
		}
	}
}

// SendToUser sends an event to a specific connected user. Users that
// are offline simply miss the push; the notification row is their
// durable copy.
func (h *Hub) SendToUser(userID uint, event *Event) {
	h.mu.RLock()
	client, exists := h.Clients[userID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Error marshaling event: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ User %d's send buffer is full", userID)
	}
}

// BroadcastNewJob announces a freshly posted job to connected workers
func (h *Hub) BroadcastNewJob(job *models.Job) {
	h.Broadcast <- &Event{
		Type:      "new_job",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"job_id":      job.ID,
			"reference":   job.Reference,
			"title":       job.Title,
			"category_id": job.CategoryID,
			"budget":      job.Budget,
			"city":        job.City,
			"urgency":     job.Urgency,
		},
	}
}

// NotifyAward tells the winning worker and each rejected worker how the
// award resolved. Delivery is best effort; the database notifications
// written in the award transaction are authoritative.
func (h *Hub) NotifyAward(job *models.Job, bid *models.Bid, rejectedWorkers []uint) {
	now := time.Now()

	h.SendToUser(bid.WorkerID, &Event{
		Type:      "bid_accepted",
		Timestamp: now,
		Data: map[string]interface{}{
			"job_id":    job.ID,
			"reference": job.Reference,
			"bid_id":    bid.ID,
			"amount":    bid.Amount,
		},
	})

	for _, workerID := range rejectedWorkers {
		h.SendToUser(workerID, &Event{
			Type:      "bid_rejected",
			Timestamp: now,
			Data: map[string]interface{}{
				"job_id":    job.ID,
				"reference": job.Reference,
			},
		})
	}
}

// ConnectedCount returns the number of connected clients
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}
