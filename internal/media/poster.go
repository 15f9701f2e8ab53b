package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // ffmpeg pipe frames are decoded from PNG
	"os/exec"
	"path/filepath"

	"github.com/disintegration/imaging"

	"media-streamer/internal/logging"
)

// PosterName is the poster frame written into a video output unit.
const PosterName = "poster.jpg"

// posterWidth is the target width; height follows the source aspect ratio.
const posterWidth = 640

// PosterGenerator extracts a single representative frame from a video
// source and saves a downscaled JPEG next to the HLS manifest. Poster
// generation is best-effort; a failure never affects the scan result.
type PosterGenerator struct {
	enabled bool
}

// NewPosterGenerator creates a PosterGenerator. When disabled, Generate is
// a no-op.
func NewPosterGenerator(enabled bool) *PosterGenerator {
	return &PosterGenerator{enabled: enabled}
}

// Enabled reports whether poster generation is active.
func (g *PosterGenerator) Enabled() bool {
	return g.enabled
}

// Generate extracts a frame from src and writes PosterName into outputDir.
func (g *PosterGenerator) Generate(ctx context.Context, src, outputDir string) error {
	if !g.enabled {
		return nil
	}

	img, err := g.extractFrame(ctx, src)
	if err != nil {
		return err
	}

	thumb := imaging.Resize(img, posterWidth, 0, imaging.Lanczos)
	dst := filepath.Join(outputDir, PosterName)
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("save poster %s: %w", dst, err)
	}

	logging.Debug("Wrote poster frame: %s", dst)
	return nil
}

// extractFrame asks ffmpeg for one PNG frame on stdout, seeking one second
// in first and retrying from the start for clips shorter than that.
func (g *PosterGenerator) extractFrame(ctx context.Context, src string) (image.Image, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	frame, err := g.runExtract(ctx, ffmpegPath, src, true)
	if err != nil {
		logging.Debug("Poster seek extract failed for %s: %v, retrying from start", src, err)
		frame, err = g.runExtract(ctx, ffmpegPath, src, false)
	}
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decode poster frame: %w", err)
	}
	return img, nil
}

func (g *PosterGenerator) runExtract(ctx context.Context, ffmpegPath, src string, seek bool) ([]byte, error) {
	args := []string{"-i", src}
	if seek {
		args = append(args, "-ss", "00:00:01")
	}
	args = append(args,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extract: %w, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame for %s", src)
	}
	return stdout.Bytes(), nil
}
