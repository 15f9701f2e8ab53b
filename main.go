package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-streamer/internal/codec"
	"media-streamer/internal/guard"
	"media-streamer/internal/handlers"
	"media-streamer/internal/library"
	"media-streamer/internal/logging"
	"media-streamer/internal/media"
	"media-streamer/internal/mediatypes"
	"media-streamer/internal/memory"
	"media-streamer/internal/metrics"
	"media-streamer/internal/middleware"
	"media-streamer/internal/startup"
	"media-streamer/internal/transcoder"
	"media-streamer/internal/watcher"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 10 * time.Second

func main() {
	startTime := time.Now()

	// Configure GOMEMLIMIT before anything allocates
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Build the two libraries from configuration
	strategy := codec.ParseStrategy(config.Strategy)
	video := &library.Domain{
		Name:         "video",
		UploadDir:    config.Video.UploadDir,
		HLSDir:       config.Video.HLSDir,
		PlaylistPath: config.Video.PlaylistFile,
		HLSPrefix:    config.Video.HLSPrefix,
		OrigPrefix:   config.Video.OrigPrefix,
		Extensions:   mediatypes.VideoExtensions,
		Strategy:     strategy,
		Policy:       codec.VideoPolicy{},
	}
	music := &library.Domain{
		Name:         "music",
		UploadDir:    config.Music.UploadDir,
		HLSDir:       config.Music.HLSDir,
		PlaylistPath: config.Music.PlaylistFile,
		HLSPrefix:    config.Music.HLSPrefix,
		OrigPrefix:   config.Music.OrigPrefix,
		Extensions:   mediatypes.AudioExtensions,
		Strategy:     strategy,
		Policy:       codec.AudioPolicy{},
		AudioOnly:    true,
	}
	registry := library.NewRegistry(video, music)

	// Initialize metrics
	metrics.InitializeMetrics(registry.Names())
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	// Initialize the scan pipeline
	startup.LogTranscoderInit()
	scanner := library.NewScanner(
		codec.NewProber(probeTimeout),
		transcoder.New(transcoder.Options{
			Timeout:       config.FFmpegTimeout,
			LogLevel:      config.FFmpegLogLevel,
			Capture:       transcoder.CaptureModeFor(config.Verbose, config.FFmpegLogLevel),
			ForceReencode: config.ForceReencode,
		}),
		media.NewPosterGenerator(config.PostersEnabled),
	)
	guards := guard.NewRegistry(config.ScanDebounce, registry.Names()...)

	// Initialize handlers
	h := handlers.New(registry, guards, scanner)

	// Setup router
	router := setupRouter(h, registry, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply middleware, innermost first
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	metricsConfig := middleware.DefaultMetricsConfig()
	metricsConfig.StreamPrefixes = streamPrefixes(registry)

	var handler http.Handler = router
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)
	handler = middleware.CORS(middleware.CORSConfig{AllowedOrigins: config.CORSAllowedOrigins})(handler)
	handler = middleware.Metrics(metricsConfig)(handler)
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.RequestID()(handler)

	// Create servers
	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: handler,
		// WriteTimeout stays 0: segment downloads and scan streams are
		// long-lived.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if metricsSrv != nil {
		g.Go(func() error {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	startup.LogWatcherInit(config.WatchUploads)
	if config.WatchUploads {
		w := watcher.New(registry, guards, scanner, watcher.DefaultSettle)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	// Start graceful shutdown handler
	go handleShutdown(cancel, srv, metricsSrv)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := g.Wait(); err != nil {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, registry *library.Registry, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	api.HandleFunc("/version", h.GetVersion).Methods("GET")
	api.HandleFunc("/scan/{domain}", h.RunScan).Methods("POST")
	api.HandleFunc("/{domain}/playlist", h.GetPlaylist).Methods("GET")

	// Scan log streaming
	r.HandleFunc("/ws/scan/{domain}", h.StreamScan).Methods("GET")

	// HLS output and original uploads
	for _, d := range registry.All() {
		r.PathPrefix(d.HLSPrefix + "/").Handler(handlers.MediaFileServer(d.HLSPrefix+"/", d.HLSDir))
		r.PathPrefix(d.OrigPrefix + "/").Handler(handlers.MediaFileServer(d.OrigPrefix+"/", d.UploadDir))
	}

	// Exported frontend site, when present
	if config.FrontendEnabled {
		if info, err := os.Stat(config.FrontendSiteDir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(handlers.SiteFileServer(config.FrontendSiteDir))
		} else {
			logging.Warn("frontend enabled but site directory %s is missing", config.FrontendSiteDir)
		}
	}

	return r
}

// streamPrefixes lists the media-serving URL prefixes for the metrics
// middleware.
func streamPrefixes(registry *library.Registry) []string {
	var prefixes []string
	for _, d := range registry.All() {
		prefixes = append(prefixes, d.HLSPrefix+"/", d.OrigPrefix+"/")
	}
	return prefixes
}

func handleShutdown(cancel context.CancelFunc, srv *http.Server, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()

	startup.LogShutdownStep("Stopping upload watcher")
	cancel()
	startup.LogShutdownStepComplete("Background workers stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
