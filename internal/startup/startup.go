package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"media-streamer/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// DomainConfig holds the per-library directories and public URL prefixes.
type DomainConfig struct {
	UploadDir    string
	HLSDir       string
	PlaylistFile string
	HLSPrefix    string
	OrigPrefix   string
}

// Config holds all application configuration
type Config struct {
	Video DomainConfig
	Music DomainConfig

	Port        string
	MetricsPort string

	FFmpegTimeout  time.Duration
	FFmpegLogLevel string
	Strategy       string
	ForceReencode  bool
	Verbose        bool

	ScanDebounce   time.Duration
	WatchUploads   bool
	PostersEnabled bool

	CORSAllowedOrigins []string

	FrontendEnabled bool
	FrontendSiteDir string

	LogStaticFiles  bool
	LogHealthChecks bool
	MetricsEnabled  bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	config := &Config{
		Video: DomainConfig{
			UploadDir:    getEnv("VIDEO_UPLOAD_DIR", filepath.Join(root, "video-upload")),
			HLSDir:       getEnv("VIDEO_HLS_DIR", filepath.Join(root, "video-hls")),
			PlaylistFile: getEnv("VIDEO_PLAYLIST_FILE", filepath.Join(root, "video-playlist", "playlist.json")),
			HLSPrefix:    getEnvPrefix("VIDEO_HLS_PUBLIC_PREFIX", "/video-hls"),
			OrigPrefix:   getEnvPrefix("VIDEO_ORIG_PUBLIC_PREFIX", "/video-upload"),
		},
		Music: DomainConfig{
			UploadDir:    getEnv("MUSIC_UPLOAD_DIR", filepath.Join(root, "music-upload")),
			HLSDir:       getEnv("MUSIC_HLS_DIR", filepath.Join(root, "music-hls")),
			PlaylistFile: getEnv("MUSIC_PLAYLIST_FILE", filepath.Join(root, "music-playlist", "playlist.json")),
			HLSPrefix:    getEnvPrefix("MUSIC_HLS_PUBLIC_PREFIX", "/music-hls"),
			OrigPrefix:   getEnvPrefix("MUSIC_ORIG_PUBLIC_PREFIX", "/music-upload"),
		},
		Port:            getEnv("PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		FFmpegTimeout:   getEnvDuration("FFMPEG_TIMEOUT", 15*time.Minute),
		FFmpegLogLevel:  getEnv("FFMPEG_LOGLEVEL", "error"),
		Strategy:        strings.ToLower(getEnv("STRATEGY", "auto")),
		ForceReencode:   getEnvBool("FORCE_REENCODE", false),
		Verbose:         getEnvBool("VERBOSE", true),
		ScanDebounce:    getEnvDuration("SCAN_DEBOUNCE", 10*time.Second),
		WatchUploads:    getEnvBool("WATCH_UPLOADS", false),
		PostersEnabled:  getEnvBool("POSTERS_ENABLED", true),
		FrontendEnabled: getEnvBool("FRONTEND_ENABLE", true),
		FrontendSiteDir: getEnv("FRONTEND_SITE_DIR", filepath.Join(root, "assets")),
		LogStaticFiles:  getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", true),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
	}
	config.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"})

	logging.Info("  VIDEO_UPLOAD_DIR:    %s", config.Video.UploadDir)
	logging.Info("  VIDEO_HLS_DIR:       %s", config.Video.HLSDir)
	logging.Info("  VIDEO_PLAYLIST_FILE: %s", config.Video.PlaylistFile)
	logging.Info("  MUSIC_UPLOAD_DIR:    %s", config.Music.UploadDir)
	logging.Info("  MUSIC_HLS_DIR:       %s", config.Music.HLSDir)
	logging.Info("  MUSIC_PLAYLIST_FILE: %s", config.Music.PlaylistFile)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  METRICS_PORT:        %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  FFMPEG_TIMEOUT:      %s", config.FFmpegTimeout)
	logging.Info("  FFMPEG_LOGLEVEL:     %s", config.FFmpegLogLevel)
	logging.Info("  STRATEGY:            %s", config.Strategy)
	logging.Info("  FORCE_REENCODE:      %v", config.ForceReencode)
	logging.Info("  VERBOSE:             %v", config.Verbose)
	logging.Info("  SCAN_DEBOUNCE:       %s", config.ScanDebounce)
	logging.Info("  WATCH_UPLOADS:       %v", config.WatchUploads)
	logging.Info("  POSTERS_ENABLED:     %v", config.PostersEnabled)
	logging.Info("  CORS_ALLOWED_ORIGINS: %s", strings.Join(config.CORSAllowedOrigins, ", "))
	logging.Info("  FRONTEND_ENABLE:     %v", config.FrontendEnabled)
	logging.Info("  FRONTEND_SITE_DIR:   %s", config.FrontendSiteDir)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	// Upload directories are supplied by the operator; a missing one is a
	// warning because the scan degrades gracefully without it.
	for _, d := range []struct{ path, name string }{
		{config.Video.UploadDir, "video upload"},
		{config.Music.UploadDir, "music upload"},
	} {
		if err := ensureDirectory(d.path, d.name); err != nil {
			logging.Warn("  %s directory issue: %v", d.name, err)
		}
	}

	// Output directories are ours and must be writable.
	for _, d := range []struct{ path, name string }{
		{config.Video.HLSDir, "video HLS"},
		{config.Music.HLSDir, "music HLS"},
		{filepath.Dir(config.Video.PlaylistFile), "video playlist"},
		{filepath.Dir(config.Music.PlaylistFile), "music playlist"},
	} {
		if err := ensureDirectory(d.path, d.name); err != nil {
			return nil, fmt.Errorf("%s directory error: %w", d.name, err)
		}
		if err := testWriteAccess(d.path); err != nil {
			return nil, fmt.Errorf("%s directory is not writable: %w", d.name, err)
		}
		logging.Info("  [OK] %s directory is writable", d.name)
	}

	return config, nil
}

// LogTranscoderInit logs transcoder initialization and checks FFmpeg
func LogTranscoderInit() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("TRANSCODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")

	if err := checkFFmpeg(); err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  Sources will be indexed without HLS output until ffmpeg is installed")
	} else {
		logging.Info("  [OK] FFmpeg is available")
	}

	if _, err := exec.LookPath("ffprobe"); err != nil {
		logging.Warn("  ffprobe not found in PATH; codec probing disabled, auto strategy will re-encode")
	} else {
		logging.Info("  [OK] ffprobe is available")
	}
}

// LogWatcherInit logs upload watcher initialization
func LogWatcherInit(enabled bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("UPLOAD WATCHER")
	logging.Info("------------------------------------------------------------")
	if enabled {
		logging.Info("  Watching upload directories for new files")
	} else {
		logging.Info("  Disabled (set WATCH_UPLOADS=true to enable)")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		// Sort group keys
		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		// Print routes by group
		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Get first segment
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    __  ___        ___      ______
   /  |/  /__ ___ / (_)__ _/ __/ /________ ___ ___ ___ _  ___ ____
  / /|_/ / -_) _  / / _ ` + "`" + `/\ \/ __/ __/ -_) _ ` + "`" + `/ _ ' _ \/ -_) __/
 /_/  /_/\__/\_,_/_/\_,_/___/\__/_/  \__/\_,_/_//_//_/\__/_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func checkFFmpeg() error {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get ffmpeg version: %w", err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  FFmpeg version: %s", strings.TrimSpace(lines[0]))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvPrefix reads a public URL prefix, stripping any trailing slash.
func getEnvPrefix(key, defaultValue string) string {
	return strings.TrimRight(getEnv(key, defaultValue), "/")
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept bare numbers as seconds for compatibility with older deployments.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
