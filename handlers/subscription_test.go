package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eats-backend/models"
	"eats-backend/pubsub"
)

func TestPendingOrdersSubscription(t *testing.T) {
	r, bus := setupRouter(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ownerToken := register(t, r, "owner@test.dev", models.RoleOwner)

	w := doJSON(t, r, http.MethodGet, "/api/me", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var meResp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	ownerID := meResp.User.ID

	// Websocket clients cannot set headers, so the token rides the query string.
	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/pending-orders?token=" + ownerToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// A token-less dial is rejected before the upgrade.
	_, badResp, badErr := websocket.DefaultDialer.Dial(strings.Replace(srv.URL, "http", "ws", 1)+"/ws/pending-orders", nil)
	require.Error(t, badErr)
	require.Equal(t, http.StatusUnauthorized, badResp.StatusCode)
	badResp.Body.Close()

	// The handler subscribes after the upgrade completes, so keep publishing
	// until the reader sees a frame. Each tick sends another owner's order
	// first; the first frame received proves that one was filtered out.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bus.Publish(pubsub.PendingOrders, pubsub.PendingOrder{
					Order:   models.Order{ID: 99, RestaurantID: 2},
					OwnerID: ownerID + 1,
				})
				bus.Publish(pubsub.PendingOrders, pubsub.PendingOrder{
					Order:   models.Order{ID: 7, RestaurantID: 1},
					OwnerID: ownerID,
				})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame struct {
		Channel string       `json:"channel"`
		Payload models.Order `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, pubsub.PendingOrders, frame.Channel)
	assert.Equal(t, uint(7), frame.Payload.ID)
}
