// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - VIDEO_UPLOAD_DIR / MUSIC_UPLOAD_DIR: Source directories scanned for media
//   - VIDEO_HLS_DIR / MUSIC_HLS_DIR: Output directories for HLS renditions
//   - VIDEO_PLAYLIST_FILE / MUSIC_PLAYLIST_FILE: Playlist JSON paths
//   - VIDEO_HLS_PUBLIC_PREFIX / MUSIC_HLS_PUBLIC_PREFIX: Public URL prefixes for HLS output
//   - VIDEO_ORIG_PUBLIC_PREFIX / MUSIC_ORIG_PUBLIC_PREFIX: Public URL prefixes for originals
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - FFMPEG_TIMEOUT: Per-file transcode timeout, Go duration or bare seconds (default: 15m)
//   - FFMPEG_LOGLEVEL: Log level passed to ffmpeg (default: error)
//   - STRATEGY: Transcode strategy - auto, copy, transcode (default: auto)
//   - FORCE_REENCODE: Rebuild HLS output even when a manifest exists (default: false)
//   - VERBOSE: Emit per-file scan log lines (default: true)
//   - SCAN_DEBOUNCE: Minimum gap between scans of one library (default: 10s)
//   - WATCH_UPLOADS: Trigger scans from filesystem events (default: false)
//   - POSTERS_ENABLED: Generate poster images for video output (default: true)
//   - CORS_ALLOWED_ORIGINS: Comma-separated origin allowlist, * for any (default: *)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Directory Setup
//
// The package validates and creates required directories:
//   - HLS output and playlist directories: Required, created, must be writable
//   - Upload directories: Checked and created if possible; a missing upload
//     directory only degrades the scan, so failures are logged as warnings
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogTranscoderInit]: FFmpeg and ffprobe availability
//   - [LogWatcherInit]: Upload watcher configuration
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	// Initialize components...
//	startup.LogTranscoderInit()
//	startup.LogWatcherInit(config.WatchUploads)
//
//	// Start server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
