package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"media-streamer/internal/guard"
	"media-streamer/internal/library"
	"media-streamer/internal/logsink"
	"media-streamer/internal/metrics"
)

// ScanResponse is the body of a successful synchronous scan.
type ScanResponse struct {
	Result library.Result `json:"result"`
	Logs   []string       `json:"logs"`
}

// RunScan triggers a synchronous scan of one library. The response carries
// the scan result and the trailing log lines. Concurrent scans of the same
// library are rejected with 409, and a scan that completed inside the
// debounce window with 429 plus a Retry-After hint.
func (h *Handlers) RunScan(w http.ResponseWriter, r *http.Request) {
	d := h.domainFor(r)
	if d == nil {
		writeJSONError(w, "unknown library", http.StatusNotFound)
		return
	}

	release, err := h.guards.Get(d.Name).TryAcquire()
	if err != nil {
		h.writeGuardError(w, d.Name, err)
		return
	}
	defer release()

	// Scan lines go to both the server log and a tail buffer for the
	// response body.
	buf := logsink.NewBuffer(scanLogTail)
	result, err := h.scanner.Scan(r.Context(), d, logsink.Multi(buf, logsink.Logger()))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]interface{}{
			"error": err.Error(),
			"logs":  buf.Last(scanLogTail),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ScanResponse{
		Result: result,
		Logs:   buf.Last(scanLogTail),
	})
}

// writeGuardError maps a guard rejection to its HTTP status and records it.
func (h *Handlers) writeGuardError(w http.ResponseWriter, domain string, err error) {
	var debounced *guard.DebounceError
	switch {
	case errors.Is(err, guard.ErrBusy):
		metrics.GuardRejectionsTotal.WithLabelValues(domain, "busy").Inc()
		writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &debounced):
		metrics.GuardRejectionsTotal.WithLabelValues(domain, "debounce").Inc()
		w.Header().Set("Retry-After", strconv.Itoa(debounced.RetryAfterSeconds()))
		writeJSONError(w, err.Error(), http.StatusTooManyRequests)
	default:
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
