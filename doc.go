// Package main provides the entry point for the Media Streamer application.
//
// Media Streamer is a self-hosted service that turns uploaded video and music
// files into HLS streams. It scans two upload libraries, decides per file
// whether streams can be copied or must be re-encoded, drives ffmpeg to
// produce segmented output, and publishes a playlist JSON per library.
//
// # Application Lifecycle
//
// The application follows a structured initialization sequence:
//
//  1. Memory Configuration: Sets GOMEMLIMIT from environment or container limits
//  2. Configuration Loading: Reads environment variables and prepares directories
//  3. Component Initialization:
//     - Codec Prober: ffprobe-based stream inspection
//     - Transcoder: ffmpeg-based HLS generation
//     - Poster Generator: poster frames for video output units
//     - Scan Guards: per-library single-flight and debounce enforcement
//  4. HTTP Server Setup: Configures routes, middleware, and starts servers
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components cleanly
//
// # Background Services
//
// Two optional goroutines run alongside the servers:
//
//   - Upload Watcher: Triggers scans from filesystem events (WATCH_UPLOADS)
//   - Metrics Server: Serves Prometheus metrics on its own port (METRICS_ENABLED)
//
// # Surfaces
//
// The application server exposes the JSON API under /api, scan log streaming
// under /ws, the generated HLS output and original uploads under their public
// prefixes, and optionally a statically exported frontend at /.
package main
