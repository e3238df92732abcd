// Package pubsub is the in-process notification fan-out: named channels with
// any number of live subscribers, at-most-once best-effort delivery. The
// services receive a Publisher explicitly so tests can substitute their own.
package pubsub

import (
	"context"
	"sync"

	"eats-backend/models"
)

// Channel names used across the services and the subscription endpoints.
const (
	PendingOrders = "pendingOrders"
	CookedOrders  = "cookedOrders"
	OrderUpdates  = "orderUpdates"
)

// PendingOrder is the payload on the pending-order channel. OwnerID lets a
// subscriber keep only the orders of restaurants it owns.
type PendingOrder struct {
	Order   models.Order `json:"order"`
	OwnerID uint         `json:"owner_id"`
}

// Event is a single published message as seen by a subscriber.
type Event struct {
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload"`
}

// Publisher is the write half of the fan-out.
type Publisher interface {
	Publish(channel string, payload interface{})
}

const subscriberBuffer = 16

// Bus fans published events out to the current subscribers of a channel.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan Event]struct{})}
}

func (b *Bus) Publish(channel string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[channel] {
		select {
		case ch <- Event{Channel: channel, Payload: payload}:
		default:
		}
	}
}

// Subscribe attaches a new subscriber to a channel. The returned stream is
// closed, and the subscriber detached, when ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, channel string) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[chan Event]struct{})
	}
	b.subs[channel][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[channel], ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Tee sends every publish to each wrapped publisher in order.
type Tee []Publisher

func (t Tee) Publish(channel string, payload interface{}) {
	for _, p := range t {
		p.Publish(channel, payload)
	}
}
