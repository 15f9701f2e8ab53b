// Package handlers implements the HTTP and WebSocket API.
//
// The JSON API lives under /api:
//
//   - GET  /api/health             liveness, always {"status":"ok"}
//   - GET  /api/version            build information
//   - GET  /api/{domain}/playlist  published playlist, [] until first scan
//   - POST /api/scan/{domain}      synchronous scan with trailing log lines
//
// Scan progress can also be streamed over GET /ws/scan/{domain}: log frames
// in order, then one done or error frame.
//
// Static surfaces are plain file servers with corrected HLS content types
// ([MediaFileServer]) plus an optional exported frontend site
// ([SiteFileServer]).
//
// Scan endpoints share the per-domain guard: one scan in flight per library
// and a quiet window after completion. The HTTP endpoint reports rejections
// as 409 or 429; the WebSocket endpoint reports them as error frames.
package handlers
