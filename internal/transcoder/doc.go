// Package transcoder supervises FFmpeg child processes that segment media
// files into HLS output units.
//
// It supports:
//   - Copy or re-encode codec arguments chosen by the codec package
//   - A hard per-run timeout with kill-on-expiry
//   - Streamed or buffered output capture, selected by configuration
//   - Idempotent short-circuiting when a completed manifest already exists
//
// Transcoding is performed using FFmpeg and requires it to be installed
// and available in the system PATH. A missing binary degrades the item to
// hasHLS=false rather than failing the scan.
package transcoder
