// Package codec decides, per source file, whether ffmpeg should copy the
// existing streams into HLS segments or re-encode them. The decision policy
// is the one place the video and music pipelines genuinely differ, so it is
// expressed as two small Policy variants behind one interface.
package codec

import (
	"context"
	"fmt"
	"strings"
)

// Strategy controls whether source streams are copied as-is or re-encoded.
type Strategy string

const (
	// StrategyAuto probes the source and copies only codecs that are
	// already HLS-compatible.
	StrategyAuto Strategy = "auto"
	// StrategyCopy always copies all relevant streams verbatim.
	StrategyCopy Strategy = "copy"
	// StrategyTranscode always re-encodes to the compatible targets.
	StrategyTranscode Strategy = "transcode"
)

// ParseStrategy maps a configuration value to a Strategy, defaulting to auto.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyCopy:
		return StrategyCopy
	case StrategyTranscode:
		return StrategyTranscode
	default:
		return StrategyAuto
	}
}

// HLS-compatible targets. h264+aac plays everywhere HLS does.
const (
	compatibleVideoCodec = "h264"
	compatibleAudioCodec = "aac"
)

func videoCopyArgs() []string { return []string{"-c:v", "copy"} }
func audioCopyArgs() []string { return []string{"-c:a", "copy"} }

func videoTranscodeArgs() []string {
	return []string{"-c:v", "libx264", "-preset", "veryfast", "-crf", "23"}
}

func audioTranscodeArgs() []string {
	return []string{"-c:a", "aac", "-b:a", "128k"}
}

// Decision carries the chosen ffmpeg codec arguments plus a free-text note
// used only for logging. VideoArgs is nil for audio-only sources.
type Decision struct {
	VideoArgs []string
	AudioArgs []string
	Note      string
}

// Policy picks codec arguments for one source file. Implementations must be
// safe-by-default: when the source cannot be probed they re-encode rather
// than guess a destructive copy.
type Policy interface {
	Decide(ctx context.Context, prober *Prober, strategy Strategy, src string) Decision
}

// VideoPolicy decides for sources with a video and an audio stream.
type VideoPolicy struct{}

// Decide implements Policy for the video domain. Under the auto strategy a
// compatible video stream is copied, a compatible audio stream is copied,
// and everything else is re-encoded; an unprobeable source re-encodes both.
func (VideoPolicy) Decide(ctx context.Context, prober *Prober, strategy Strategy, src string) Decision {
	switch strategy {
	case StrategyCopy:
		return Decision{VideoArgs: videoCopyArgs(), AudioArgs: audioCopyArgs(), Note: "copy(force)"}
	case StrategyTranscode:
		return Decision{VideoArgs: videoTranscodeArgs(), AudioArgs: audioTranscodeArgs(), Note: "transcode(force)"}
	}

	vcodec, _ := prober.StreamCodec(ctx, src, SelectVideo)
	acodec, _ := prober.StreamCodec(ctx, src, SelectAudio)

	if vcodec == compatibleVideoCodec && acodec == compatibleAudioCodec {
		return Decision{VideoArgs: videoCopyArgs(), AudioArgs: audioCopyArgs(), Note: "copy(h264+aac)"}
	}
	if vcodec == compatibleVideoCodec && acodec != "" {
		return Decision{
			VideoArgs: videoCopyArgs(),
			AudioArgs: audioTranscodeArgs(),
			Note:      fmt.Sprintf("vcopy+atrans(%s->aac)", acodec),
		}
	}
	return Decision{VideoArgs: videoTranscodeArgs(), AudioArgs: audioTranscodeArgs(), Note: "transcode(fallback)"}
}

// AudioPolicy decides for audio-only sources.
type AudioPolicy struct{}

// Decide implements Policy for the music domain. Under the auto strategy an
// aac stream is copied and anything else, including an unprobeable one, is
// re-encoded.
func (AudioPolicy) Decide(ctx context.Context, prober *Prober, strategy Strategy, src string) Decision {
	switch strategy {
	case StrategyCopy:
		return Decision{AudioArgs: audioCopyArgs(), Note: "copy(force)"}
	case StrategyTranscode:
		return Decision{AudioArgs: audioTranscodeArgs(), Note: "transcode(force)"}
	}

	acodec, _ := prober.StreamCodec(ctx, src, SelectAudio)
	if acodec == compatibleAudioCodec {
		return Decision{AudioArgs: audioCopyArgs(), Note: "copy(aac)"}
	}
	if acodec == "" {
		acodec = "unknown"
	}
	return Decision{AudioArgs: audioTranscodeArgs(), Note: fmt.Sprintf("transcode(%s->aac)", acodec)}
}
