package stream

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LocationUpdate is the flat inbound message a driver client sends while
// moving. Everything else on the socket uses the {type,data} envelope.
type LocationUpdate struct {
	Type     string  `json:"type"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Speed    float64 `json:"speed"`
	Heading  float64 `json:"heading"`
	Accuracy float64 `json:"accuracy"`
	StopID   string  `json:"stop_id,omitempty"`
}

// TripFeed is the trip-side surface the socket handler needs: a snapshot for
// the initial_data push, location persistence, and ETA computation. The trip
// service implements it.
type TripFeed interface {
	Snapshot(ctx context.Context, tripID string) (any, error)
	SaveLocation(ctx context.Context, tripID string, msg LocationUpdate) error
	BroadcastETA(ctx context.Context, tripID, stopID string) error
}

func RegisterRoutes(r fiber.Router, hub *Hub, feed TripFeed) {
	r.Get("/trips/:tripID", websocket.New(func(c *websocket.Conn) {
		tripID := c.Params("tripID")
		client := hub.Register(tripID)

		// Seed the socket with a full snapshot so late joiners do not wait
		// for the next push.
		if feed != nil {
			if snap, err := feed.Snapshot(context.Background(), tripID); err == nil {
				raw, _ := json.Marshal(snap)
				payload, _ := json.Marshal(Envelope{Type: "initial_data", Data: raw})
				if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
					hub.Unregister(client)
					return
				}
			}
		}

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			handleInbound(feed, tripID, raw)
		}

		// Unregister closes Send, which ends the writer goroutine.
		hub.Unregister(client)
		<-done
	}))
}

func handleInbound(feed TripFeed, tripID string, raw []byte) {
	if feed == nil {
		return
	}

	var msg LocationUpdate
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("trip %s: inbound parse error: %v", tripID, err)
		return
	}

	switch msg.Type {
	case "location_update":
		if err := feed.SaveLocation(context.Background(), tripID, msg); err != nil {
			log.Printf("trip %s: save location: %v", tripID, err)
		}
	case "request_eta":
		if err := feed.BroadcastETA(context.Background(), tripID, msg.StopID); err != nil {
			log.Printf("trip %s: eta: %v", tripID, err)
		}
	default:
		// Unknown inbound types are dropped; the protocol is append-only.
	}
}
