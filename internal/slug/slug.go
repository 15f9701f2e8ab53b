package slug

import (
	"crypto/md5" //nolint:gosec // MD5 used for short content IDs, not security
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// UnknownArtist is the artist used when a filename carries no artist part
// and an output unit has no usable metadata.
const UnknownArtist = "Unknown Artist"

var (
	// Anything that is not a word character (Unicode letter, digit or
	// underscore, which covers CJK and kana), whitespace, or hyphen
	// becomes a hyphen.
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

	// Runs of underscores, whitespace and hyphens collapse to one hyphen.
	separatorRuns = regexp.MustCompile(`[_\s-]+`)
)

// Make derives a filesystem- and URL-safe slug from an original filename.
// The extension is stripped, the stem is NFKC-normalized, unsafe characters
// are replaced with hyphens and separator runs are collapsed. If nothing
// survives, the first 8 hex characters of the stem's MD5 digest are used so
// that every input yields a non-empty, deterministic slug.
func Make(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	normalized := norm.NFKC.String(stem)
	safe := unsafeChars.ReplaceAllString(normalized, "-")
	safe = separatorRuns.ReplaceAllString(safe, "-")
	safe = strings.Trim(safe, "-")
	if safe == "" {
		return ShortID(stem)
	}
	return safe
}

// ShortID returns the first 8 hex characters of the MD5 digest of s.
// Collisions are not detected; the ID is a human-short stable handle,
// not a unique key.
func ShortID(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec
	return hex.EncodeToString(sum[:])[:8]
}

// ParseArtistTitle splits a filename stem of the form "Artist - Title" into
// its two parts. Only the first " - " separator is significant. When the
// stem has no separator, the artist falls back to UnknownArtist and the
// whole stem becomes the title.
func ParseArtistTitle(stem string) (artist, title string) {
	if before, after, found := strings.Cut(stem, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return UnknownArtist, stem
}
