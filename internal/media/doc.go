// Package media generates poster frames for video output units.
//
// A poster is a single downscaled JPEG extracted from the source via FFmpeg
// and written next to the HLS manifest. Posters are cosmetic: generation is
// attempted only after a successful transcode and any failure is logged and
// ignored.
package media
