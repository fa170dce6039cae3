package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "shongi:events"

// Hub manages all WebSocket connections and event delivery.
// It uses Redis Pub/Sub for horizontal scaling across multiple instances;
// without Redis it degrades to single-instance local delivery.
type Hub struct {
	// Map of userID -> set of client connections (one user can have multiple tabs/devices)
	clients map[uuid.UUID]map[*Client]bool
	mu      sync.RWMutex

	// Channels for registering/unregistering clients
	register   chan *Client
	unregister chan *Client

	// Redis client for Pub/Sub (horizontal scaling), may be nil
	rdb *redis.Client

	// Callback when user comes online/offline
	onStatusChange func(userID uuid.UUID, online bool)
}

// NewHub creates a new WebSocket Hub
func NewHub(rdb *redis.Client, onStatusChange func(userID uuid.UUID, online bool)) *Hub {
	return &Hub{
		clients:        make(map[uuid.UUID]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rdb:            rdb,
		onStatusChange: onStatusChange,
	}
}

// Run starts the Hub's main event loop
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Notify delivers an event to one user on any instance. This satisfies
// the notifier the services publish through.
func (h *Hub) Notify(userID uuid.UUID, event model.WSEvent) {
	h.SendToUser(userID, &event)
}

// addClient registers a new client connection
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
		// User just came online (first connection)
		if h.onStatusChange != nil {
			go h.onStatusChange(client.UserID, true)
		}
		h.publish(&TargetedEvent{
			Event: &model.WSEvent{
				Type: model.WSEventOnline,
				Payload: model.OnlineEvent{
					UserID:   client.UserID,
					IsOnline: true,
				},
			},
		})
	}
	h.clients[client.UserID][client] = true
	log.Printf("✅ Client connected: %s (total connections: %d)", client.UserID, len(h.clients[client.UserID]))
}

// removeClient unregisters a client connection
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.UserID]; ok {
		delete(clients, client)
		close(client.send)

		if len(clients) == 0 {
			// User has no more connections (offline)
			delete(h.clients, client.UserID)
			if h.onStatusChange != nil {
				go h.onStatusChange(client.UserID, false)
			}
			h.publish(&TargetedEvent{
				Event: &model.WSEvent{
					Type: model.WSEventOffline,
					Payload: model.OnlineEvent{
						UserID:   client.UserID,
						IsOnline: false,
					},
				},
			})
		}
	}
	log.Printf("❌ Client disconnected: %s", client.UserID)
}

// SendToUser sends an event to a specific user (all their connections)
func (h *Hub) SendToUser(userID uuid.UUID, event *model.WSEvent) {
	h.publish(&TargetedEvent{
		TargetUserID: userID,
		Event:        event,
	})
}

// SendToUsers sends an event to multiple users
func (h *Hub) SendToUsers(userIDs []uuid.UUID, event *model.WSEvent) {
	for _, userID := range userIDs {
		h.SendToUser(userID, event)
	}
}

// sendToLocalUser sends an event to a user on this instance only
func (h *Hub) sendToLocalUser(userID uuid.UUID, event *model.WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		data, err := json.Marshal(event)
		if err != nil {
			log.Printf("Error marshaling event: %v", err)
			return
		}
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send buffer is full, close connection
				close(client.send)
				delete(clients, client)
			}
		}
	}
}

// broadcastToLocal sends an event to all connected local clients
func (h *Hub) broadcastToLocal(event *model.WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling broadcast event: %v", err)
		return
	}

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				close(client.send)
				delete(clients, client)
			}
		}
	}
}

// IsUserOnline checks if a user has any active connections on this instance
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// GetOnlineUserIDs returns all currently connected user IDs on this instance
func (h *Hub) GetOnlineUserIDs() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userIDs := make([]uuid.UUID, 0, len(h.clients))
	for userID := range h.clients {
		userIDs = append(userIDs, userID)
	}
	return userIDs
}

// ========== Redis Pub/Sub for Horizontal Scaling ==========

// TargetedEvent wraps an event with a target user ID for Redis Pub/Sub.
// A nil target means broadcast.
type TargetedEvent struct {
	TargetUserID uuid.UUID      `json:"target_user_id,omitempty"`
	Event        *model.WSEvent `json:"event"`
}

// publish routes an event through Redis when available, otherwise
// delivers it locally
func (h *Hub) publish(targeted *TargetedEvent) {
	if h.rdb == nil {
		h.deliver(targeted)
		return
	}

	jsonData, err := json.Marshal(targeted)
	if err != nil {
		log.Printf("Error marshaling for Redis: %v", err)
		return
	}

	if err := h.rdb.Publish(context.Background(), redisChannel, jsonData).Err(); err != nil {
		log.Printf("Error publishing to Redis: %v", err)
	}
}

// deliver hands a targeted event to the right local clients
func (h *Hub) deliver(targeted *TargetedEvent) {
	if targeted.Event == nil {
		return
	}
	if targeted.TargetUserID != uuid.Nil {
		h.sendToLocalUser(targeted.TargetUserID, targeted.Event)
		return
	}
	h.broadcastToLocal(targeted.Event)
}

// subscribeRedis subscribes to Redis and delivers events to local clients
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("📡 Redis Pub/Sub subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			var targeted TargetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &targeted); err != nil {
				log.Printf("Error unmarshaling Redis message: %v", err)
				continue
			}
			h.deliver(&targeted)
		}
	}
}
