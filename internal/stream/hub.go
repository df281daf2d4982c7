package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Envelope is the wire format for every message on a trip channel.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	TripID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(tripID string) *Client {
	client := &Client{
		TripID: tripID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tripID] == nil {
		h.clients[tripID] = map[*Client]struct{}{}
	}
	h.clients[tripID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tripClients, ok := h.clients[client.TripID]; ok {
		delete(tripClients, client)
		if len(tripClients) == 0 {
			delete(h.clients, client.TripID)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(tripID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[tripID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(tripID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// BroadcastEvent wraps data in the {type,data} envelope and broadcasts it to
// every subscriber of the trip.
func (h *Hub) BroadcastEvent(tripID, eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("envelope marshal error: %v", err)
		return
	}
	payload, err := json.Marshal(Envelope{Type: eventType, Data: raw})
	if err != nil {
		log.Printf("envelope marshal error: %v", err)
		return
	}
	h.Broadcast(tripID, payload)
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "trips:*:broadcast")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		tripID := tripIDFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[tripID]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(tripID string) string {
	return "trips:" + tripID + ":broadcast"
}

func tripIDFromChannel(ch string) string {
	// trips:{trip}:broadcast
	const prefix = "trips:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
