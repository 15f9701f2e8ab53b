package playlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Track is one playable item in a domain's playlist. OriginalFile and HLSURL
// are public URLs, not filesystem paths; both are null when unknown. The
// invariant HasHLS == (HLSURL != nil) holds for every persisted track.
type Track struct {
	ID           string  `json:"id"`
	Artist       string  `json:"artist"`
	Title        string  `json:"title"`
	OriginalFile *string `json:"originalFile"`
	HLSURL       *string `json:"hlsUrl"`
	HasHLS       bool    `json:"hasHLS"`
	Format       string  `json:"format"`
}

// SortTracks orders tracks by title: stable, case-sensitive, empty titles
// first. This is the one canonical playlist order.
func SortTracks(tracks []Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Title < tracks[j].Title
	})
}

// Save sorts the tracks and rewrites the playlist file in whole, creating
// the parent directory when needed. The file is human-readable UTF-8 JSON.
func Save(path string, tracks []Track) error {
	SortTracks(tracks)

	if tracks == nil {
		tracks = []Track{}
	}
	data, err := json.MarshalIndent(tracks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal playlist: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create playlist directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write playlist %s: %w", path, err)
	}
	return nil
}

// Load reads a playlist file. A missing or unparsable file yields an empty
// playlist and a nil error: clients always get a JSON array, never a failure,
// for a playlist that does not exist yet.
func Load(path string) []Track {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Track{}
	}
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return []Track{}
	}
	if tracks == nil {
		tracks = []Track{}
	}
	return tracks
}
