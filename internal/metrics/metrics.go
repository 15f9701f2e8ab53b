package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_streamer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_streamer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_streamer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_streamer_scan_runs_total",
			Help: "Total number of library scans by domain and outcome",
		},
		[]string{"domain", "status"},
	)

	ScanLastRunDuration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_streamer_scan_last_run_duration_seconds",
			Help: "Duration of the last scan in seconds",
		},
		[]string{"domain"},
	)

	ScanLastRunTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_streamer_scan_last_run_timestamp",
			Help: "Unix timestamp of the last completed scan",
		},
		[]string{"domain"},
	)

	ScanTracks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_streamer_scan_tracks",
			Help: "Number of tracks in the playlist written by the last scan",
		},
		[]string{"domain"},
	)

	ScansInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_streamer_scans_in_flight",
			Help: "Whether a scan is currently running (1 = running, 0 = idle)",
		},
		[]string{"domain"},
	)
)

// Transcode metrics
var (
	TranscodeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_streamer_transcode_runs_total",
			Help: "Total number of per-file transcode attempts by domain and result",
		},
		[]string{"domain", "result"},
	)

	TranscodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_streamer_transcode_duration_seconds",
			Help:    "Per-file transcode duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"domain"},
	)
)

// Guard metrics
var (
	GuardRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_streamer_guard_rejections_total",
			Help: "Total number of scan requests rejected by the concurrency guard",
		},
		[]string{"domain", "reason"}, // reason: "busy" or "debounce"
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_streamer_watcher_events_total",
			Help: "Total number of filesystem watcher events by domain",
		},
		[]string{"domain"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_streamer_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)

// WebSocket metrics
var (
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_streamer_ws_connections_active",
			Help: "Number of active WebSocket scan connections",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_streamer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
