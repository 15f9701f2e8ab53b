package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"media-streamer/internal/metrics"
)

// metricsResponseWriter wraps http.ResponseWriter to capture the status code
// and, for streaming paths, the time to first byte.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode      int
	startTime       time.Time
	firstByteTime   time.Time
	headerWritten   bool
	isStreamingPath bool
}

func newMetricsResponseWriter(w http.ResponseWriter, startTime time.Time, isStreamingPath bool) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter:  w,
		statusCode:      http.StatusOK,
		startTime:       startTime,
		isStreamingPath: isStreamingPath,
	}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	if !rw.headerWritten {
		rw.statusCode = code
		rw.headerWritten = true
		if rw.isStreamingPath {
			rw.firstByteTime = time.Now()
		}
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.headerWritten = true
		if rw.isStreamingPath {
			rw.firstByteTime = time.Now()
		}
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *metricsResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// GetDuration returns the duration to record. For a streaming path this is
// the time to first byte; measuring total duration there would just report
// how long the client kept the segment download open.
func (rw *metricsResponseWriter) GetDuration() time.Duration {
	if rw.isStreamingPath && !rw.firstByteTime.IsZero() {
		return rw.firstByteTime.Sub(rw.startTime)
	}
	return time.Since(rw.startTime)
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
	// StreamPrefixes are the public URL prefixes serving HLS output and
	// original uploads. Requests under them record time to first byte and
	// collapse into one path label per prefix.
	StreamPrefixes []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths:      []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
		StreamPrefixes: []string{"/video-hls/", "/music-hls/", "/video-upload/", "/music-upload/"},
	}
}

// isStreamingPath reports whether the path serves media payloads.
func (c MetricsConfig) isStreamingPath(path string) bool {
	for _, prefix := range c.StreamPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// normalizePath normalizes the path for metrics to avoid high cardinality.
// Every unit and file name under the streaming prefixes collapses into a
// {path} placeholder.
func (c MetricsConfig) normalizePath(path string) string {
	for _, prefix := range c.StreamPrefixes {
		if strings.HasPrefix(path, prefix) {
			return prefix + "{path}"
		}
	}

	// Cap depth for anything else.
	parts := strings.Split(path, "/")
	if len(parts) > 5 {
		return strings.Join(parts[:5], "/") + "/{path}"
	}
	return path
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics for certain paths
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Track in-flight requests
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			wrapped := newMetricsResponseWriter(w, start, config.isStreamingPath(r.URL.Path))

			next.ServeHTTP(wrapped, r)

			duration := wrapped.GetDuration().Seconds()
			path := config.normalizePath(r.URL.Path)
			status := strconv.Itoa(wrapped.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}
