package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"entrega/internal/logger"
	"entrega/internal/types"
)

func TestHubFanOut(t *testing.T) {
	hub := NewHub(logger.Nop())
	bus := NewBus()
	defer bus.Close()
	go hub.Run(bus)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, types.ID("d1"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The session registers inside ServeWS; give the server a moment before
	// publishing so the event cannot race the registration.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		n := len(hub.sessions)
		hub.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	want := Event{OrderID: types.ID("o9"), From: "available", To: "accepted", At: time.Now().UTC()}
	require.NoError(t, bus.Publish(context.Background(), want))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, want.OrderID, got.OrderID)
	require.Equal(t, want.To, got.To)
}
