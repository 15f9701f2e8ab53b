package handlers

import (
	"errors"
	"net/http"
	"sync/atomic"

	"media-streamer/internal/guard"
	"media-streamer/internal/library"
	"media-streamer/internal/logging"
	"media-streamer/internal/logsink"
	"media-streamer/internal/metrics"
)

// wsMessage is the one frame type spoken on a scan stream. Type is "log",
// "done" or "error"; the other fields are populated per type.
type wsMessage struct {
	Type    string          `json:"type"`
	Line    string          `json:"line,omitempty"`
	Message string          `json:"message,omitempty"`
	Result  *library.Result `json:"result,omitempty"`
}

// StreamScan runs a scan with its log streamed over a WebSocket. The client
// receives zero or more {"type":"log"} frames in scan order followed by
// exactly one terminal frame: {"type":"done"} with the result, or
// {"type":"error"}. Guard rejections arrive as an error frame since the
// connection is already upgraded.
func (h *Handlers) StreamScan(w http.ResponseWriter, r *http.Request) {
	d := h.domainFor(r)
	if d == nil {
		writeJSONError(w, "unknown library", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		logging.Warn("websocket upgrade failed for %s scan: %v", d.Name, err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logging.Debug("websocket close: %v", err)
		}
	}()

	metrics.WSConnectionsActive.Inc()
	defer metrics.WSConnectionsActive.Dec()

	release, err := h.guards.Get(d.Name).TryAcquire()
	if err != nil {
		h.recordGuardRejection(d.Name, err)
		_ = conn.WriteJSON(wsMessage{Type: "error", Message: err.Error()})
		return
	}
	defer release()

	// A failed write marks the client gone; the scan keeps running to
	// completion but stops talking to the socket.
	var clientGone atomic.Bool
	sink := logsink.Multi(logsink.Logger(), logsink.Func(func(line string) {
		if clientGone.Load() {
			return
		}
		if err := conn.WriteJSON(wsMessage{Type: "log", Line: line}); err != nil {
			clientGone.Store(true)
		}
	}))

	result, err := h.scanner.Scan(r.Context(), d, sink)
	if clientGone.Load() {
		return
	}
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Message: err.Error()})
		return
	}
	_ = conn.WriteJSON(wsMessage{Type: "done", Result: &result})
}

func (h *Handlers) recordGuardRejection(domain string, err error) {
	var debounced *guard.DebounceError
	reason := "busy"
	if errors.As(err, &debounced) {
		reason = "debounce"
	}
	metrics.GuardRejectionsTotal.WithLabelValues(domain, reason).Inc()
}
