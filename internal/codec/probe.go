package codec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Stream selectors understood by ffprobe.
const (
	// SelectVideo selects the first video stream.
	SelectVideo = "v:0"
	// SelectAudio selects the first audio stream.
	SelectAudio = "a:0"
)

const defaultProbeTimeout = 30 * time.Second

// Prober inspects a source file's stream codecs through ffprobe. Probing is
// read-only and bounded by a short timeout so a corrupt file can never stall
// a scan.
type Prober struct {
	binary  string
	timeout time.Duration
}

// NewProber creates a Prober using the ffprobe binary from PATH. A timeout
// of zero or less falls back to the default.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{binary: "ffprobe", timeout: timeout}
}

// StreamCodec returns the codec name of the selected stream, or an empty
// string with an error when the stream cannot be probed (missing ffprobe,
// timeout, no such stream). Callers treat "" as unknown.
func (p *Prober) StreamCodec(ctx context.Context, src, selector string) (string, error) {
	if _, err := exec.LookPath(p.binary); err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", p.binary, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-select_streams", selector,
		"-show_entries", "stream=codec_name",
		"-of", "default=nw=1:nk=1",
		src,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffprobe %s %s: %w (%s)",
			selector, src, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
