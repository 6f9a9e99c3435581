package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// NewUpgrader accepts any origin in development and same-host origins
// otherwise.
func (c Config) NewUpgrader() websocket.Upgrader {
	upgrader := websocket.Upgrader{}
	if c.Development() {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
	return upgrader
}
