package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types
const (
	EventScheduleChanged = "schedule.changed"
)

// Topic names clients subscribe to
const (
	TopicMaster = "master"
)

// TeacherTopic is the topic of one teacher's week
func TeacherTopic(id int64) string { return fmt.Sprintf("teacher:%d", id) }

// StudentTopic is the topic of one student's week
func StudentTopic(id int64) string { return fmt.Sprintf("student:%d", id) }

// CourseTopic is the topic of one course's slots
func CourseTopic(id int64) string { return fmt.Sprintf("course:%d", id) }

// Event is a server push sent over WebSocket
type Event struct {
	// Type of event, e.g. "schedule.changed"
	Type string `json:"type"`

	// Topics the event is delivered on
	Topics []string `json:"topics"`

	TermID    int64   `json:"termId"`
	TeacherID int64   `json:"teacherId,omitempty"`
	CourseIDs []int64 `json:"courseIds,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and delivers events to the
// clients subscribed to their topics
type Hub struct {
	// Registered clients organized by topic
	clients map[string]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles client registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic := range client.topics {
		if _, ok := h.clients[topic]; !ok {
			h.clients[topic] = make(map[*Client]bool)
		}
		h.clients[topic][client] = true
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Int("topics", len(client.topics)).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client from every topic. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	found := false
	for topic := range client.topics {
		if members, ok := h.clients[topic]; ok {
			if _, ok := members[client]; ok {
				found = true
				delete(members, client)
			}
			if len(members) == 0 {
				delete(h.clients, topic)
			}
		}
	}
	if found {
		close(client.send)
		h.logger.Info().Int64("userID", client.userID).Msg("Client unregistered")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[*Client]bool)
	for _, members := range h.clients {
		for c := range members {
			seen[c] = true
		}
	}
	for c := range seen {
		h.removeLocked(c)
	}
}

// broadcastEvent delivers an event once to every client subscribed to any
// of its topics
func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make(map[*Client]bool)
	for _, topic := range event.Topics {
		for client := range h.clients[topic] {
			targets[client] = true
		}
	}

	for client := range targets {
		select {
		case client.send <- data:
		default:
			// Slow or gone; drop the client
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("type", event.Type).
		Strs("topics", event.Topics).
		Int("clientCount", len(targets)).
		Msg("Event broadcasted")
}

// Publish queues an event for delivery. It never blocks once the hub has
// stopped.
func (h *Hub) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

// join registers client unless the hub has stopped
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client unless the hub has stopped
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// GetClientsCount returns the number of clients subscribed to topic
func (h *Hub) GetClientsCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
