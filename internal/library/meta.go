package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// metaName is the per-unit manifest file.
const metaName = "meta.json"

// Meta is the manifest persisted into every output unit. It survives the
// removal of the source file and lets reconciliation rebuild a playlist
// entry from the output directory alone.
type Meta struct {
	OriginalFile string `json:"originalFile"`
	Artist       string `json:"artist"`
	Title        string `json:"title"`
	Format       string `json:"format"`
}

// writeMeta persists the manifest, creating the unit directory when the
// transcoder never got far enough to do so. It is written even when the
// transcode failed, so metadata survives partial runs.
func writeMeta(outputDir string, meta Meta) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	data = append(data, '\n')
	path := filepath.Join(outputDir, metaName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readMeta loads a unit's manifest. A missing or corrupt file returns the
// zero Meta; callers substitute defaults.
func readMeta(outputDir string) Meta {
	data, err := os.ReadFile(filepath.Join(outputDir, metaName))
	if err != nil {
		return Meta{}
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}
	}
	return meta
}
