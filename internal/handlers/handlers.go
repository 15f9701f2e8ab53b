package handlers

import (
	"net/http"

	"media-streamer/internal/guard"
	"media-streamer/internal/library"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// scanLogTail is how many trailing log lines a synchronous scan response
// carries. The WebSocket endpoint streams everything and has no tail.
const scanLogTail = 200

type Handlers struct {
	registry *library.Registry
	guards   *guard.Registry
	scanner  *library.Scanner
	upgrader websocket.Upgrader
}

func New(registry *library.Registry, guards *guard.Registry, scanner *library.Scanner) *Handlers {
	return &Handlers{
		registry: registry,
		guards:   guards,
		scanner:  scanner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is enforced by the CORS middleware in front of
			// the router, not per connection.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// domainFor resolves the {domain} route variable to a configured library,
// or nil when the name is unknown.
func (h *Handlers) domainFor(r *http.Request) *library.Domain {
	return h.registry.Get(mux.Vars(r)["domain"])
}
