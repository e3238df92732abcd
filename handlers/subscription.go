package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"eats-backend/middleware"
	"eats-backend/models"
	"eats-backend/pubsub"
	"eats-backend/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the frontend origin; auth happens via JWT.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SubscriptionHandler pushes live order events over websockets. Each
// connection gets its own bus subscription, torn down when the client goes
// away. Delivery is best effort; a missed event is not replayed.
type SubscriptionHandler struct {
	Bus    *pubsub.Bus
	Orders *services.Orders
}

// PendingOrders streams new orders of the calling owner's restaurants.
func (h *SubscriptionHandler) PendingOrders(c *gin.Context) {
	owner := middleware.GetUser(c)
	h.stream(c, pubsub.PendingOrders, func(ev pubsub.Event) (interface{}, bool) {
		pending, ok := ev.Payload.(pubsub.PendingOrder)
		if !ok || pending.OwnerID != owner.ID {
			return nil, false
		}
		return pending.Order, true
	})
}

// CookedOrders streams every order that becomes ready for pickup.
func (h *SubscriptionHandler) CookedOrders(c *gin.Context) {
	h.stream(c, pubsub.CookedOrders, func(ev pubsub.Event) (interface{}, bool) {
		return ev.Payload, true
	})
}

// OrderUpdates streams changes of one order the caller may view.
func (h *SubscriptionHandler) OrderUpdates(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	// GetOrder enforces the same visibility rule the updates are gated by.
	if _, err := h.Orders.GetOrder(middleware.GetUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	h.stream(c, pubsub.OrderUpdates, func(ev pubsub.Event) (interface{}, bool) {
		order, ok := ev.Payload.(models.Order)
		if !ok || order.ID != id {
			return nil, false
		}
		return order, true
	})
}

// stream upgrades the connection and forwards matching events until either
// side disconnects.
func (h *SubscriptionHandler) stream(c *gin.Context, channel string, match func(pubsub.Event) (interface{}, bool)) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain the read side so close frames cancel the subscription.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for ev := range h.Bus.Subscribe(ctx, channel) {
		payload, ok := match(ev)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(gin.H{"channel": channel, "payload": payload}); err != nil {
			return
		}
	}
}
