package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"media-streamer/internal/mediatypes"
)

// MediaFileServer serves files from root under the given public URL prefix.
// Content types come from the mediatypes table because Go's detection
// misidentifies HLS manifests and segments.
func MediaFileServer(prefix, root string) http.Handler {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ext := strings.ToLower(filepath.Ext(r.URL.Path)); ext != "" {
			w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
		}
		// Segments are immutable once written; manifests grow while a
		// transcode is in flight and must be revalidated.
		switch strings.ToLower(filepath.Ext(r.URL.Path)) {
		case ".ts":
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case ".m3u8":
			w.Header().Set("Cache-Control", "no-cache")
		}
		fs.ServeHTTP(w, r)
	})
}

// SiteFileServer serves a statically exported frontend from siteDir. Clean
// URLs resolve the way a static export expects: an exact file first, then a
// directory index, then the path with .html appended, then the export's 404
// page, and finally the root index.
func SiteFileServer(siteDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
		if rel == "" || rel == "." {
			http.ServeFile(w, r, filepath.Join(siteDir, "index.html"))
			return
		}

		direct := filepath.Join(siteDir, rel)
		if info, err := os.Stat(direct); err == nil {
			if !info.IsDir() {
				http.ServeFile(w, r, direct)
				return
			}
			if index := filepath.Join(direct, "index.html"); fileExists(index) {
				http.ServeFile(w, r, index)
				return
			}
		}

		if page := direct + ".html"; fileExists(page) {
			http.ServeFile(w, r, page)
			return
		}

		if notFound := filepath.Join(siteDir, "404.html"); fileExists(notFound) {
			if data, err := os.ReadFile(notFound); err == nil {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write(data)
				return
			}
		}
		http.ServeFile(w, r, filepath.Join(siteDir, "index.html"))
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
