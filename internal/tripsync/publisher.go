package tripsync

import (
	"context"

	"backend-schoolbus/internal/trip"
)

// Publisher is the producer side of the channel: it forwards device samples
// as location_update messages at whatever cadence the source provides. There
// is no buffering; a sample that cannot be sent right now is gone.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Run consumes samples until the context ends or the channel closes. It
// returns how many samples went out and how many were dropped.
func (p *Publisher) Run(ctx context.Context, samples <-chan trip.Location) (sent, dropped int) {
	for {
		select {
		case <-ctx.Done():
			return sent, dropped
		case loc, ok := <-samples:
			if !ok {
				return sent, dropped
			}
			if p.client.PublishLocation(loc) {
				sent++
			} else {
				dropped++
			}
		}
	}
}
