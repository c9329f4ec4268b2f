package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamPushesSnapshots(t *testing.T) {
	srv, session := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The current snapshot arrives immediately on connect.
	var first struct {
		Assets []any `json:"assets"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Empty(t, first.Assets)

	// Every recomputation is pushed.
	_, err = session.AddTransaction(buyRequest("Apple", 3, 100))
	require.NoError(t, err)

	var next struct {
		Assets []struct {
			Name string `json:"name"`
		} `json:"assets"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&next))
	require.Len(t, next.Assets, 1)
	assert.Equal(t, "Apple", next.Assets[0].Name)
}
