package events

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// NewWebsocketHandler wires the hub to an HTTP endpoint. Each connection
// becomes one subscriber; signals read from the socket are validated and
// re-published to everyone. allowedOrigins guards the upgrade handshake;
// an empty list allows any origin.
func NewWebsocketHandler(hub *Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header["Origin"]
			if len(origin) == 0 || len(allowedOrigins) == 0 {
				return true
			}
			u, err := url.Parse(origin[0])
			if err != nil {
				return false
			}
			for _, allowed := range allowedOrigins {
				au, err := url.Parse(allowed)
				if err != nil {
					continue
				}
				if u.Host == au.Host {
					return true
				}
			}
			return false
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.Error("websocket upgrade failed", "error", err)
			return
		}

		sub := hub.Subscribe()
		done := make(chan struct{})

		go writePump(conn, sub, done)
		readPump(conn, hub)

		// Reader is gone: tear down the writer and the subscription.
		close(done)
		hub.Unsubscribe(sub)
		conn.Close()
	}
}

// readPump consumes signals published by this client and fans them out.
// It returns when the connection drops or sends garbage.
func readPump(conn *websocket.Conn, hub *Hub) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var signal api.Signal
		if err := conn.ReadJSON(&signal); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn("websocket read failed", "error", err)
			}
			return
		}
		if !api.ValidSignalKind(signal.Kind) {
			logger.Log.Warn("dropping signal with unknown kind", "kind", signal.Kind)
			continue
		}
		hub.Publish(signal)
	}
}

// writePump forwards hub deliveries to the connection and keeps it alive
// with pings.
func writePump(conn *websocket.Conn, sub chan api.Signal, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case signal, ok := <-sub:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(signal); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
