// Package library implements the scan pipeline that turns uploaded media
// files into HLS output units and a published playlist.
//
// A scan walks a domain's upload directory, derives a stable slug per file,
// asks the codec policy whether streams can be copied or must be re-encoded,
// runs FFmpeg into the slug's output unit, and writes a meta.json manifest
// alongside the stream. Units whose source file has been removed are
// reconciled back into the playlist from their manifest. Per-file failures
// degrade that entry to hasHLS=false; the scan keeps going.
//
// The same Scanner serves every configured Domain; video and music differ
// only in their descriptors.
package library
