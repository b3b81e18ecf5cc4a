package server

import (
	"net/http"
	"net/url"
	"strings"

	"landlord-game/internal/auth"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// newUpgrader builds the websocket upgrader. "*" allows every origin.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowAll {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // Non-browser clients
			}
			if u, err := url.Parse(origin); err == nil && allowed[u.Scheme+"://"+u.Host] {
				return true
			}
			return allowed[origin]
		},
	}
}

// ServeWs handles WebSocket requests from clients. When issuer is non-nil the
// request must carry a valid token in the "token" query parameter or the
// Authorization header.
func ServeWs(hub *Hub, upgrader *websocket.Upgrader, issuer *auth.Issuer, w http.ResponseWriter, r *http.Request) {
	var name string
	if issuer != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = r.Header.Get("Authorization")
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			hub.logger.Info("rejected websocket connection", zap.String("remote", r.RemoteAddr), zap.Error(err))
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		name = claims.PlayerName
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		Name: name,
	}
	hub.register(client)

	// Allow collection of memory referenced by the caller by doing all work in new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
