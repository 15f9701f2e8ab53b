// Package middleware provides HTTP middleware for the media streamer.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with time-to-first-byte for streaming paths
//   - Response compression (gzip) tuned for playlists and manifests
//   - CORS enforcement with a configurable origin allowlist
//   - Request-ID propagation
package middleware
