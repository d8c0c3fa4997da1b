package config

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin in development or when PUBLIC_URL is
// unset; otherwise only the public origin may connect.
func NewWebSocket() (*WebSocket, error) {
	var allowed *url.URL
	if public := PublicURL(); public != "" && !Development() {
		u, err := url.Parse(public)
		if err != nil {
			return nil, err
		}
		allowed = u
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowed == nil {
				return true
			}
			origin, err := url.Parse(r.Header.Get("Origin"))
			if err != nil {
				return false
			}
			return origin.Scheme == allowed.Scheme && origin.Host == allowed.Host
		},
	}

	return &WebSocket{Upgrader: upgrader}, nil
}
