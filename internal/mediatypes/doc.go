// Package mediatypes provides shared type definitions and utilities for media
// file handling across the media-streamer application.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # File Types
//
// The package defines a FileType enum for categorizing upload files:
//
//	mediatypes.FileTypeVideo // Accepted video formats (mp4, mkv, avi, etc.)
//	mediatypes.FileTypeAudio // Accepted audio formats (mp3, flac, ogg, etc.)
//	mediatypes.FileTypeOther // Unrecognized or unsupported files
//
// # Extension Detection
//
// Use GetFileType to determine the type of a file based on its extension:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	fileType := mediatypes.GetFileType(ext)
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type for HTTP responses. This
// matters most for the generated HLS artifacts, whose extensions are not in
// Go's built-in table:
//
//	mediatypes.GetMimeType(".m3u8") // "application/vnd.apple.mpegurl"
//	mediatypes.GetMimeType(".ts")   // "video/mp2t"
//
// # Supported Formats
//
// The extension maps (VideoExtensions, AudioExtensions) can be used directly
// for format validation or iteration:
//
//	if mediatypes.AudioExtensions[ext] {
//	    // File is an accepted audio upload
//	}
package mediatypes
