package handlers

import (
	"net/http"

	"media-streamer/internal/playlist"
)

// GetPlaylist returns the published playlist for a library. A playlist that
// does not exist yet, or that cannot be parsed, serves an empty array rather
// than an error so players always get something they can iterate.
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	d := h.domainFor(r)
	if d == nil {
		writeJSONError(w, "unknown library", http.StatusNotFound)
		return
	}

	tracks := playlist.Load(d.PlaylistPath)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, tracks)
}
