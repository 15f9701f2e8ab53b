package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"media-streamer/internal/codec"
	"media-streamer/internal/logsink"
)

const (
	// ManifestName is the HLS stream descriptor written into every
	// completed output unit.
	ManifestName = "playlist.m3u8"

	// segmentPattern names the numbered segment files next to the manifest.
	segmentPattern = "segment_%03d.ts"

	// hlsSegmentSeconds is the fixed target segment duration.
	hlsSegmentSeconds = "6"

	// stderrTailBytes bounds the diagnostic captured on failure.
	stderrTailBytes = 1000
)

// ErrFFmpegNotFound reports that the transcoder executable is not on PATH.
// The pipeline degrades to hasHLS=false for the item; it is never fatal.
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

// ErrTimeout reports that a transcode exceeded its deadline and was killed.
var ErrTimeout = errors.New("ffmpeg timed out")

// CaptureMode selects how a child's output is handled.
type CaptureMode int

const (
	// CaptureBuffered collects output and surfaces only a stderr tail on
	// failure. Used when the configured log level is errors-only.
	CaptureBuffered CaptureMode = iota
	// CaptureStreamed lets the child inherit the process's standard
	// streams; the sink receives only a descriptive header.
	CaptureStreamed
)

// quiet ffmpeg loglevels that produce no routine output worth streaming.
var quietLogLevels = map[string]bool{
	"error": true,
	"fatal": true,
	"panic": true,
	"quiet": true,
}

// CaptureModeFor picks the capture strategy once from configuration:
// streamed when verbose or when the ffmpeg log level is chattier than
// errors-only, buffered otherwise.
func CaptureModeFor(verbose bool, logLevel string) CaptureMode {
	if verbose || !quietLogLevels[strings.ToLower(logLevel)] {
		return CaptureStreamed
	}
	return CaptureBuffered
}

// Options is the process-wide transcoder configuration, immutable after
// startup.
type Options struct {
	// Timeout bounds one ffmpeg run; on expiry the child is killed.
	Timeout time.Duration
	// LogLevel is passed to ffmpeg's -loglevel flag.
	LogLevel string
	// Capture selects the output-capture strategy.
	Capture CaptureMode
	// ForceReencode disables the existing-manifest short circuit.
	ForceReencode bool
}

// Job describes one transcode: a source file and its dedicated output unit,
// plus the codec decision made for it.
type Job struct {
	Source    string
	OutputDir string
	Decision  codec.Decision
	// AudioOnly drops the video stream (-vn) for the music domain.
	AudioOnly bool
}

// Transcoder runs ffmpeg as a supervised child process. It makes at most
// one attempt per job and never retries.
type Transcoder struct {
	binary string
	opts   Options
}

// New creates a Transcoder using the ffmpeg binary from PATH.
func New(opts Options) *Transcoder {
	return &Transcoder{binary: "ffmpeg", opts: opts}
}

// ManifestPath returns the location of the stream descriptor inside an
// output unit directory.
func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ManifestName)
}

// HasManifest reports whether an output unit holds a completed descriptor.
func HasManifest(outputDir string) bool {
	info, err := os.Stat(ManifestPath(outputDir))
	return err == nil && !info.IsDir()
}

// Run executes one transcode job, emitting progress to the sink. A nil
// return means the output unit holds a usable manifest (freshly produced or
// pre-existing). All failures are reported as ordinary errors for the caller
// to record; none abort a scan.
func (t *Transcoder) Run(ctx context.Context, job Job, sink logsink.Sink) error {
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		sink.Emit(fmt.Sprintf("WARN: cannot create output dir %s: %v", job.OutputDir, err))
		return fmt.Errorf("create output dir: %w", err)
	}

	manifest := ManifestPath(job.OutputDir)
	if !t.opts.ForceReencode && HasManifest(job.OutputDir) {
		sink.Emit(fmt.Sprintf("[SKIP] HLS already present: %s", manifest))
		return nil
	}

	if _, err := exec.LookPath(t.binary); err != nil {
		sink.Emit("WARN: ffmpeg not found in PATH, skipping transcode")
		return ErrFFmpegNotFound
	}

	args := t.buildArgs(job)
	sink.Emit(fmt.Sprintf("[FFMPEG] %s -> %s (strategy: %s, force=%v)",
		job.Source, manifest, job.Decision.Note, t.opts.ForceReencode))
	sink.Emit(fmt.Sprintf("         command: %s %s", t.binary, strings.Join(args, " ")))

	runCtx := ctx
	var cancel context.CancelFunc
	if t.opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, t.binary, args...)
	// Do not wait on pipe readers forever if a killed child leaves an
	// orphaned grandchild holding the descriptors.
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	switch t.opts.Capture {
	case CaptureStreamed:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	default:
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			sink.Emit(fmt.Sprintf("WARN: ffmpeg timed out after %s: %s", t.opts.Timeout, filepath.Base(job.Source)))
			return fmt.Errorf("%w after %s", ErrTimeout, t.opts.Timeout)
		}
		if t.opts.Capture == CaptureBuffered && stderr.Len() > 0 {
			sink.Emit(fmt.Sprintf("WARN: ffmpeg failed: %s\n%s", filepath.Base(job.Source), tail(stderr.Bytes(), stderrTailBytes)))
		} else {
			sink.Emit(fmt.Sprintf("WARN: ffmpeg failed: %s: %v", filepath.Base(job.Source), err))
		}
		return fmt.Errorf("ffmpeg %s: %w", job.Source, err)
	}

	sink.Emit(fmt.Sprintf("[OK] generated %s", manifest))
	return nil
}

// buildArgs assembles the segmented-stream command for one job.
func (t *Transcoder) buildArgs(job Job) []string {
	args := []string{"-y", "-nostdin", "-loglevel", t.opts.LogLevel, "-i", job.Source}
	args = append(args, job.Decision.VideoArgs...)
	args = append(args, job.Decision.AudioArgs...)
	if job.AudioOnly {
		args = append(args, "-vn")
	}
	args = append(args,
		"-hls_time", hlsSegmentSeconds,
		"-hls_list_size", "0",
		"-hls_flags", "independent_segments",
		"-hls_segment_filename", filepath.Join(job.OutputDir, segmentPattern),
		ManifestPath(job.OutputDir),
	)
	return args
}

// tail returns the last n bytes of b as a string.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
