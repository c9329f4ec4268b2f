package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// The tracker is a single-user app typically served on localhost and
// consumed by its own frontend; origin checking gains nothing here.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// stream upgrades to a websocket and pushes the current snapshot
// followed by every newly published one, replacing the frontend's
// polling loop.
func (s *Server) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	snapshots, cancel := s.session.Subscribe()
	defer cancel()

	// Drain incoming frames so a client close is noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.session.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case snapshot := <-snapshots:
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
