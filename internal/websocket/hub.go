package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"learnflow-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the Redis channel instances use to reach connections
// held by their peers.
const ClusterChannel = "note_events"

// Envelope is the frame written to every socket.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	// done is closed once Run has returned and nothing reads the channels above.
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication, may be nil
	rdb *redis.Client

	instanceID string
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register hands client to Run. Once the hub has stopped the client's Send
// channel is closed instead, which ends its write pump.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
}

// ConnectedClients reports how many local connections a user has.
func (h *Hub) ConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendLocal delivers to this instance's connections of userID only.
func (h *Hub) SendLocal(userID uuid.UUID, msgType string, data interface{}) error {
	frame, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		return err
	}
	h.deliver(userID, frame)
	return nil
}

// Send delivers locally and asks peer instances to do the same.
func (h *Hub) Send(ctx context.Context, userID uuid.UUID, msgType string, data interface{}) error {
	frame, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		return err
	}
	h.deliver(userID, frame)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{
		Origin:       h.instanceID,
		TargetUserID: userID.String(),
		Message:      frame,
	})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, ClusterChannel, payload).Err()
}

func (h *Hub) deliver(userID uuid.UUID, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.Send <- frame:
		default:
			// Slow consumer. Drop the connection; the client refetches on reconnect.
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
			select {
			case h.unregister <- client:
			default:
			}
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			uid, err := uuid.Parse(payload.TargetUserID)
			if err != nil {
				continue
			}
			h.deliver(uid, payload.Message)
		}
	}
}
