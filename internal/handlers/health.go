package handlers

import (
	"net/http"
)

// HealthCheck reports service liveness. The process serves traffic as soon
// as it starts; there is no warm-up phase, so this always returns 200.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "ok")
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}
