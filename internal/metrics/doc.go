// Package metrics provides Prometheus instrumentation for the media-streamer application.
//
// This package defines and exposes various metrics that can be scraped by Prometheus
// to monitor the health, performance, and behavior of the application. All metrics
// are prefixed with "media_streamer_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// The metrics are organized into the following categories:
//
// ## HTTP Metrics
//
// Track HTTP request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Scan Metrics
//
// Track library scans, one set per domain (video, music):
//   - ScanRunsTotal: Counter of scans by domain and outcome
//   - ScanLastRunDuration: Gauge of last scan duration
//   - ScanLastRunTimestamp: Gauge of last scan completion time
//   - ScanTracks: Gauge of playlist size after the last scan
//   - ScansInFlight: Gauge indicating if a scan is active
//
// ## Transcode Metrics
//
// Monitor per-file FFmpeg work inside a scan:
//   - TranscodeRunsTotal: Counter of transcode attempts by domain and result
//   - TranscodeDuration: Histogram of per-file transcode duration
//
// ## Guard Metrics
//
// Track concurrency-guard rejections:
//   - GuardRejectionsTotal: Counter by domain and reason (busy, debounce)
//
// ## Watcher Metrics
//
// Track the optional upload-directory watcher:
//   - WatcherEventsTotal: Counter of filesystem events by domain
//   - WatcherErrors: Counter of watcher errors
//
// ## WebSocket Metrics
//
//   - WSConnectionsActive: Gauge of open scan-streaming connections
//
// ## Application Info
//
// Expose build information:
//   - AppInfo: Gauge with version, commit, and Go version labels
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus registry
// using promauto. To expose them, mount the promhttp.Handler() on your
// metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// # Recording Metrics
//
// To record metrics from other packages, import this package and use the
// exported metric variables:
//
//	import "media-streamer/internal/metrics"
//
//	// Increment a counter
//	metrics.ScanRunsTotal.WithLabelValues("video", "success").Inc()
//
//	// Observe a histogram value
//	metrics.TranscodeDuration.WithLabelValues("music").Observe(12.3)
//
//	// Set a gauge value
//	metrics.ScanTracks.WithLabelValues("video").Set(42)
//
// # Prometheus Queries
//
// Example PromQL queries for common use cases:
//
// Request rate by endpoint:
//
//	sum(rate(media_streamer_http_requests_total[5m])) by (path)
//
// P95 transcode time:
//
//	histogram_quantile(0.95, sum(rate(media_streamer_transcode_duration_seconds_bucket[5m])) by (le, domain))
//
// Transcode failure rate:
//
//	sum(rate(media_streamer_transcode_runs_total{result="failure"}[1h])) by (domain) /
//	sum(rate(media_streamer_transcode_runs_total[1h])) by (domain)
//
// Guard pressure (rejections per scan):
//
//	rate(media_streamer_guard_rejections_total[1h]) /
//	rate(media_streamer_scan_runs_total[1h])
package metrics
