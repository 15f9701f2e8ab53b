package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	if rw == nil {
		t.Fatal("Expected responseWriter to be created")
	}

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", rw.statusCode)
	}

	if rw.bytesWritten != 0 {
		t.Errorf("Expected bytesWritten to be 0, got %d", rw.bytesWritten)
	}

	if rw.wroteHeader {
		t.Error("Expected wroteHeader to be false initially")
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	rw.WriteHeader(http.StatusNotFound)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", rw.statusCode)
	}

	// Write header again - should be ignored
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Error("Status code should not change after first WriteHeader")
	}
}

func TestResponseWriterWrite(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	data := []byte("test data")
	n, err := rw.Write(data)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}

	if rw.bytesWritten != int64(len(data)) {
		t.Errorf("Expected bytesWritten to be %d, got %d", len(data), rw.bytesWritten)
	}
}

func TestDefaultLoggingConfig(t *testing.T) {
	config := DefaultLoggingConfig()

	if len(config.SkipPaths) != 0 {
		t.Errorf("Expected empty SkipPaths, got %d items", len(config.SkipPaths))
	}

	// Segment fetches must be skipped by default.
	expectedExts := []string{".ts", ".m4s", ".css", ".js"}
	for _, ext := range expectedExts {
		found := false
		for _, skip := range config.SkipExtensions {
			if skip == ext {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected extension %s in SkipExtensions", ext)
		}
	}

	if config.LogStaticFiles {
		t.Error("Expected LogStaticFiles to be false by default")
	}

	if !config.LogHealthChecks {
		t.Error("Expected LogHealthChecks to be true by default")
	}
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
	}{
		{
			name:   "Logs regular requests",
			path:   "/api/video/playlist",
			config: DefaultLoggingConfig(),
		},
		{
			name:   "Skips segment fetches when configured",
			path:   "/streams/video/clip/segment_000.ts",
			config: LoggingConfig{LogStaticFiles: false, SkipExtensions: []string{".ts"}},
		},
		{
			name:   "Logs health checks when enabled",
			path:   "/health",
			config: LoggingConfig{LogHealthChecks: true},
		},
		{
			name:   "Skips health checks when disabled",
			path:   "/health",
			config: LoggingConfig{LogHealthChecks: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})

			middleware := Logger(tt.config)
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
		})
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain field", "/api/video/playlist", "/api/video/playlist"},
		{"Newline replaced", "line1\nline2", "line1 line2"},
		{"Carriage return replaced", "a\rb", "a b"},
		{"Null byte stripped", "a\x00b", "ab"},
		{"ANSI escape stripped", "a\x1b[31mb", "a[31mb"},
		{"Tab preserved", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.expected {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultCompressionConfig(t *testing.T) {
	config := DefaultCompressionConfig()

	if config.MinSize != 1024 {
		t.Errorf("Expected MinSize to be 1024, got %d", config.MinSize)
	}

	if config.Level != gzip.DefaultCompression {
		t.Errorf("Expected Level to be DefaultCompression (%d), got %d", gzip.DefaultCompression, config.Level)
	}

	// HLS manifests must be compressible.
	expectedTypes := []string{
		"application/json",
		"application/vnd.apple.mpegurl",
	}

	for _, expected := range expectedTypes {
		found := false
		for _, ct := range config.CompressibleTypes {
			if ct == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected %s in CompressibleTypes", expected)
		}
	}
}

func TestCompressionMiddleware(t *testing.T) {
	tests := []struct {
		name              string
		responseBody      string
		contentType       string
		acceptEncoding    string
		expectCompression bool
	}{
		{
			name:              "Compresses large playlists",
			responseBody:      strings.Repeat(`{"id":"a1b2c3d4","title":"Song"},`, 100),
			contentType:       "application/json",
			acceptEncoding:    "gzip",
			expectCompression: true,
		},
		{
			name:              "Compresses HLS manifests",
			responseBody:      "#EXTM3U\n" + strings.Repeat("#EXTINF:6.0,\nsegment_000.ts\n", 100),
			contentType:       "application/vnd.apple.mpegurl",
			acceptEncoding:    "gzip",
			expectCompression: true,
		},
		{
			name:              "Doesn't compress small responses",
			responseBody:      `{"status":"ok"}`,
			contentType:       "application/json",
			acceptEncoding:    "gzip",
			expectCompression: false,
		},
		{
			name:              "Doesn't compress media segments",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "video/mp2t",
			acceptEncoding:    "gzip",
			expectCompression: false,
		},
		{
			name:              "Respects client without gzip support",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "application/json",
			acceptEncoding:    "",
			expectCompression: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.responseBody))
			})

			middleware := Compression(DefaultCompressionConfig())
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest("GET", "/test", http.NoBody)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}

			isCompressed := w.Header().Get("Content-Encoding") == "gzip"
			if isCompressed != tt.expectCompression {
				t.Errorf("Expected compression=%v, got compression=%v", tt.expectCompression, isCompressed)
			}

			if tt.expectCompression {
				// Verify we can decompress
				gr, err := gzip.NewReader(w.Body)
				if err != nil {
					t.Fatalf("Failed to create gzip reader: %v", err)
				}
				defer gr.Close()

				decompressed, err := io.ReadAll(gr)
				if err != nil {
					t.Fatalf("Failed to decompress: %v", err)
				}

				if string(decompressed) != tt.responseBody {
					t.Error("Decompressed content doesn't match original")
				}
			}
		})
	}
}

// =============================================================================
// Metrics Middleware Tests
// =============================================================================

func TestNewMetricsResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	startTime := time.Now()
	mrw := newMetricsResponseWriter(w, startTime, false)

	if mrw == nil {
		t.Fatal("Expected metricsResponseWriter to be created")
	}

	if mrw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", mrw.statusCode)
	}

	if mrw.isStreamingPath {
		t.Error("Expected isStreamingPath to be false for non-streaming")
	}

	mrwStreaming := newMetricsResponseWriter(w, startTime, true)
	if !mrwStreaming.isStreamingPath {
		t.Error("Expected isStreamingPath to be true for streaming")
	}
}

func TestMetricsResponseWriterFirstByte(t *testing.T) {
	t.Run("non-streaming has no first byte time", func(t *testing.T) {
		w := httptest.NewRecorder()
		mrw := newMetricsResponseWriter(w, time.Now(), false)

		mrw.WriteHeader(http.StatusCreated)

		if mrw.statusCode != http.StatusCreated {
			t.Errorf("Expected status code 201, got %d", mrw.statusCode)
		}
		if !mrw.firstByteTime.IsZero() {
			t.Error("Expected firstByteTime to be zero for non-streaming")
		}
	})

	t.Run("streaming records first byte on WriteHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		start := time.Now()
		mrw := newMetricsResponseWriter(w, start, true)

		mrw.WriteHeader(http.StatusOK)

		if mrw.firstByteTime.IsZero() {
			t.Error("Expected firstByteTime to be set for streaming endpoint")
		}
		if mrw.firstByteTime.Before(start) {
			t.Error("firstByteTime should be after startTime")
		}
	})

	t.Run("streaming records first byte on implicit Write", func(t *testing.T) {
		w := httptest.NewRecorder()
		mrw := newMetricsResponseWriter(w, time.Now(), true)

		mrw.Write([]byte("segment data"))

		if mrw.firstByteTime.IsZero() {
			t.Error("Expected firstByteTime to be set after Write")
		}
	})

	t.Run("first byte time does not move on later writes", func(t *testing.T) {
		w := httptest.NewRecorder()
		mrw := newMetricsResponseWriter(w, time.Now(), true)

		mrw.WriteHeader(http.StatusOK)
		first := mrw.firstByteTime

		time.Sleep(time.Millisecond)
		mrw.Write([]byte("more data"))

		if mrw.firstByteTime != first {
			t.Error("firstByteTime should not change after initial WriteHeader")
		}
	})
}

func TestMetricsResponseWriterGetDuration(t *testing.T) {
	t.Run("streaming returns time to first byte", func(t *testing.T) {
		w := httptest.NewRecorder()
		start := time.Now()
		mrw := newMetricsResponseWriter(w, start, true)

		time.Sleep(5 * time.Millisecond)
		mrw.WriteHeader(http.StatusOK)

		time.Sleep(20 * time.Millisecond)
		duration := mrw.GetDuration()

		// TTFB must not include the 20ms of "streaming" after the header.
		if duration >= 20*time.Millisecond {
			t.Errorf("Expected TTFB < 20ms, got %v (should measure time to first byte)", duration)
		}
	})

	t.Run("non-streaming returns total duration", func(t *testing.T) {
		w := httptest.NewRecorder()
		start := time.Now()
		mrw := newMetricsResponseWriter(w, start, false)

		mrw.WriteHeader(http.StatusOK)
		time.Sleep(10 * time.Millisecond)

		if duration := mrw.GetDuration(); duration < 10*time.Millisecond {
			t.Errorf("Expected duration >= 10ms, got %v", duration)
		}
	})
}

func TestIsStreamingPath(t *testing.T) {
	config := DefaultMetricsConfig()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Video manifest", "/video-hls/clip/playlist.m3u8", true},
		{"Music segment", "/music-hls/Artist-Song/segment_001.ts", true},
		{"Original upload", "/video-upload/clip.mp4", true},
		{"Playlist API", "/api/video/playlist", false},
		{"Root path", "/", false},
		{"Similar but not a prefix", "/video-hls-old/test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := config.isStreamingPath(tt.path)
			if result != tt.expected {
				t.Errorf("isStreamingPath(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := DefaultMetricsConfig()

	expectedPaths := []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"}
	for _, path := range expectedPaths {
		found := false
		for _, skip := range config.SkipPaths {
			if skip == path {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected %q to be in default SkipPaths", path)
		}
	}
}

func TestMetricsMiddlewareStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"404 Not Found", http.StatusNotFound},
		{"409 Conflict", http.StatusConflict},
		{"429 Too Many Requests", http.StatusTooManyRequests},
		{"500 Internal Server Error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			config := MetricsConfig{SkipPaths: []string{}}
			middleware := Metrics(config)
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest(http.MethodGet, "/api/test", http.NoBody)
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != tt.statusCode {
				t.Errorf("Expected status code %d, got %d", tt.statusCode, w.Code)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "Video stream path",
			path:     "/video-hls/My-Clip/segment_003.ts",
			expected: "/video-hls/{path}",
		},
		{
			name:     "Music stream path",
			path:     "/music-hls/Artist-Song/playlist.m3u8",
			expected: "/music-hls/{path}",
		},
		{
			name:     "Original video path",
			path:     "/video-upload/clip.mp4",
			expected: "/video-upload/{path}",
		},
		{
			name:     "Original music path",
			path:     "/music-upload/Artist - Song.mp3",
			expected: "/music-upload/{path}",
		},
		{
			name:     "Playlist API path",
			path:     "/api/video/playlist",
			expected: "/api/video/playlist",
		},
		{
			name:     "Scan API path",
			path:     "/api/scan/music",
			expected: "/api/scan/music",
		},
		{
			name:     "Root path",
			path:     "/",
			expected: "/",
		},
		{
			name:     "Deep unknown path gets truncated",
			path:     "/a/b/c/d/e/f/g/h",
			expected: "/a/b/c/d/{path}",
		},
	}

	config := DefaultMetricsConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := config.normalizePath(tt.path)
			if result != tt.expected {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestNormalizePathCardinality(t *testing.T) {
	config := DefaultMetricsConfig()

	// Every unit name must collapse to the same label value.
	streamPaths := []string{
		"/video-hls/unit1/playlist.m3u8",
		"/video-hls/unit2/segment_000.ts",
		"/video-hls/Another-Name/segment_421.ts",
	}

	for _, path := range streamPaths {
		if normalized := config.normalizePath(path); normalized != "/video-hls/{path}" {
			t.Errorf("Expected stream paths to normalize to /video-hls/{path}, got %q for %q", normalized, path)
		}
	}
}

// =============================================================================
// CORS Middleware Tests
// =============================================================================

func TestCORSAllowAll(t *testing.T) {
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/video/playlist", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("Allow-Origin = %q, want the request origin echoed", got)
	}
}

func TestCORSAllowlist(t *testing.T) {
	config := CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}
	handler := CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed origin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/video/playlist", http.NoBody)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("disallowed origin is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/video/playlist", http.NoBody)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", w.Code)
		}
	})

	t.Run("same-origin request passes untouched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/video/playlist", http.NoBody)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("No CORS headers expected without an Origin header")
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("preflight should not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/scan/video", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if methods := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "POST") {
		t.Errorf("Allow-Methods = %q, want POST included", methods)
	}
}

// =============================================================================
// Request-ID Middleware Tests
// =============================================================================

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/video/playlist", http.NoBody)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if seen == "" {
		t.Fatal("Expected a generated request ID in the context")
	}
	if got := w.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("Response X-Request-Id = %q, want %q", got, seen)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "proxy-assigned-id" {
			t.Errorf("Context request ID = %q, want proxy-assigned-id", got)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/video/playlist", http.NoBody)
	req.Header.Set("X-Request-Id", "proxy-assigned-id")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "proxy-assigned-id" {
		t.Errorf("Response X-Request-Id = %q, want the caller's value kept", got)
	}
}

func TestRequestIDFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Errorf("RequestIDFromContext = %q, want empty without middleware", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	config := DefaultLoggingConfig()
	middleware := Logger(config)
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest("GET", "/api/video/playlist", http.NoBody)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		wrappedHandler.ServeHTTP(w, req)
	}
}

func BenchmarkNormalizePath(b *testing.B) {
	config := DefaultMetricsConfig()
	paths := []string{
		"/video-hls/unit/segment_000.ts",
		"/api/video/playlist",
		"/music-upload/Artist - Song.mp3",
		"/",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, path := range paths {
			_ = config.normalizePath(path)
		}
	}
}
