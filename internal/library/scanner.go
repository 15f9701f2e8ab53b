package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"media-streamer/internal/logsink"
	"media-streamer/internal/media"
	"media-streamer/internal/metrics"
	"media-streamer/internal/playlist"
	"media-streamer/internal/slug"
	"media-streamer/internal/transcoder"

	"media-streamer/internal/codec"
)

// Result summarizes one completed scan.
type Result struct {
	Count        int    `json:"count"`
	PlaylistPath string `json:"playlistPath"`
}

// Scanner drives the scan/decide/transcode/reconcile pipeline for any
// domain. One Scanner serves all domains; the guard package ensures a
// domain never runs twice concurrently, so no locking is needed here.
type Scanner struct {
	prober  *codec.Prober
	trans   *transcoder.Transcoder
	posters *media.PosterGenerator
}

// NewScanner creates a Scanner.
func NewScanner(prober *codec.Prober, trans *transcoder.Transcoder, posters *media.PosterGenerator) *Scanner {
	return &Scanner{prober: prober, trans: trans, posters: posters}
}

// Scan walks the domain's upload tree, transcodes every accepted file into
// its output unit, reconciles orphaned units back in, and rewrites the
// playlist. Per-item failures degrade the item to hasHLS=false; only a
// directory enumeration failure aborts the scan.
func (s *Scanner) Scan(ctx context.Context, d *Domain, sink logsink.Sink) (Result, error) {
	start := time.Now()
	metrics.ScansInFlight.WithLabelValues(d.Name).Inc()
	defer metrics.ScansInFlight.WithLabelValues(d.Name).Dec()

	tracks := []playlist.Track{}
	seen := make(map[string]bool)

	if _, err := os.Stat(d.UploadDir); err != nil {
		sink.Emit(fmt.Sprintf("[WARN] upload directory missing: %s", d.UploadDir))
	} else {
		sink.Emit(fmt.Sprintf("[SCAN] scanning %s (extensions: %s)", d.UploadDir, extensionList(d.Extensions)))
		found := 0
		err := filepath.WalkDir(d.UploadDir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if !d.Extensions[ext] {
				return nil
			}
			found++
			tracks = append(tracks, s.processFile(ctx, d, path, seen, sink))
			return nil
		})
		if err != nil {
			metrics.ScanRunsTotal.WithLabelValues(d.Name, "error").Inc()
			return Result{}, fmt.Errorf("walk %s: %w", d.UploadDir, err)
		}
		if found == 0 {
			sink.Emit(fmt.Sprintf("[SCAN] no processable files found under %s", d.UploadDir))
		}
	}

	tracks = append(tracks, s.reconcile(d, seen, sink)...)

	if err := playlist.Save(d.PlaylistPath, tracks); err != nil {
		metrics.ScanRunsTotal.WithLabelValues(d.Name, "error").Inc()
		return Result{}, err
	}
	sink.Emit(fmt.Sprintf("[DONE] wrote %d tracks to %s", len(tracks), d.PlaylistPath))

	metrics.ScanRunsTotal.WithLabelValues(d.Name, "success").Inc()
	metrics.ScanLastRunDuration.WithLabelValues(d.Name).Set(time.Since(start).Seconds())
	metrics.ScanLastRunTimestamp.WithLabelValues(d.Name).SetToCurrentTime()
	metrics.ScanTracks.WithLabelValues(d.Name).Set(float64(len(tracks)))

	return Result{Count: len(tracks), PlaylistPath: d.PlaylistPath}, nil
}

// processFile runs the decide/transcode/record steps for one source file
// and returns its playlist entry. It never fails: a transcode problem is
// recorded as hasHLS=false.
func (s *Scanner) processFile(ctx context.Context, d *Domain, path string, seen map[string]bool, sink logsink.Sink) playlist.Track {
	filename := filepath.Base(path)
	unit := slug.Make(filename)
	if seen[unit] {
		// Truncated-hash IDs carry no collision handling; last writer
		// wins, matching a re-upload of the same title.
		sink.Emit(fmt.Sprintf("WARN: slug collision: %s maps to existing unit %s", filename, unit))
	}
	seen[unit] = true

	outputDir := filepath.Join(d.HLSDir, unit)
	sink.Emit(fmt.Sprintf("[FILE] found: %s -> slug=%s", path, unit))

	decision := d.Policy.Decide(ctx, s.prober, d.Strategy, path)

	transcodeStart := time.Now()
	err := s.trans.Run(ctx, transcoder.Job{
		Source:    path,
		OutputDir: outputDir,
		Decision:  decision,
		AudioOnly: d.AudioOnly,
	}, sink)
	metrics.TranscodeDuration.WithLabelValues(d.Name).Observe(time.Since(transcodeStart).Seconds())

	hasHLS := err == nil
	if hasHLS {
		metrics.TranscodeRunsTotal.WithLabelValues(d.Name, "success").Inc()
	} else {
		metrics.TranscodeRunsTotal.WithLabelValues(d.Name, "failure").Inc()
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	artist, title := slug.ParseArtistTitle(stem)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	if err := writeMeta(outputDir, Meta{
		OriginalFile: filename,
		Artist:       artist,
		Title:        title,
		Format:       format,
	}); err != nil {
		sink.Emit(fmt.Sprintf("WARN: cannot write meta for %s: %v", unit, err))
	}

	if hasHLS && !d.AudioOnly && s.posters.Enabled() {
		if err := s.posters.Generate(ctx, path, outputDir); err != nil {
			sink.Emit(fmt.Sprintf("WARN: poster generation failed for %s: %v", unit, err))
		}
	}

	track := playlist.Track{
		ID:           slug.ShortID(unit),
		Artist:       artist,
		Title:        title,
		OriginalFile: strptr(d.OrigPrefix + "/" + filename),
		HasHLS:       hasHLS,
		Format:       format,
	}
	if hasHLS {
		track.HLSURL = strptr(streamURL(d, unit))
	}
	return track
}

// reconcile recovers playlist entries for output units whose source file is
// gone: any immediate subdirectory of the HLS root, not seen during the
// walk, that holds a completed manifest.
func (s *Scanner) reconcile(d *Domain, seen map[string]bool, sink logsink.Sink) []playlist.Track {
	entries, err := os.ReadDir(d.HLSDir)
	if err != nil {
		return nil
	}

	var tracks []playlist.Track
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		unit := entry.Name()
		if seen[unit] {
			continue
		}
		if !transcoder.HasManifest(filepath.Join(d.HLSDir, unit)) {
			continue
		}

		meta := readMeta(filepath.Join(d.HLSDir, unit))
		artist := meta.Artist
		if artist == "" {
			artist = slug.UnknownArtist
		}
		title := meta.Title
		if title == "" {
			title = unit
		}

		track := playlist.Track{
			ID:     slug.ShortID(unit),
			Artist: artist,
			Title:  title,
			HLSURL: strptr(streamURL(d, unit)),
			HasHLS: true,
			Format: meta.Format,
		}
		if meta.OriginalFile != "" {
			track.OriginalFile = strptr(d.OrigPrefix + "/" + meta.OriginalFile)
		}

		sink.Emit(fmt.Sprintf("[KEEP] orphaned output unit: %s", unit))
		tracks = append(tracks, track)
	}
	return tracks
}

// streamURL builds the public manifest URL for a unit.
func streamURL(d *Domain, unit string) string {
	return d.HLSPrefix + "/" + unit + "/" + transcoder.ManifestName
}

// extensionList renders an extension set for log lines, sorted.
func extensionList(exts map[string]bool) string {
	list := make([]string, 0, len(exts))
	for ext := range exts {
		list = append(list, ext)
	}
	sort.Strings(list)
	return strings.Join(list, ", ")
}

func strptr(s string) *string { return &s }
