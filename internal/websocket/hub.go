package websocket

import (
	"sync"

	"voice-intake-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub tracks the live connection per conversation. A conversation normally
// has exactly one client (the assistant modal that opened it); reconnects
// replace the previous entry.
type Hub struct {
	// Registered clients map: ConversationID -> Clients
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ConversationID] = append(h.clients[client.ConversationID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"conversation_id": client.ConversationID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ConversationID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ConversationID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ConversationID]) == 0 {
					delete(h.clients, client.ConversationID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"conversation_id": client.ConversationID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToConversation delivers a directive to every client attached to the
// conversation. Slow clients are dropped rather than blocking the hub.
func (h *Hub) SendToConversation(conversationID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[conversationID] {
		select {
		case client.Send <- data:
		default:
			// Buffer full. The unregister path closes Send under the lock.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}
