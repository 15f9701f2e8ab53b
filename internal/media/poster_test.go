package media

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeFFmpegEmitting installs a fake ffmpeg that cats the given file to
// stdout, mimicking `-f image2pipe`.
func fakeFFmpegEmitting(t *testing.T, framePath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake executable helper requires a POSIX shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\ncat " + framePath + "\n"
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	// Prepend so the fake shadows any real ffmpeg while the script can
	// still find standard utilities like cat.
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// writeTestFrame writes a small PNG for the fake ffmpeg to emit.
func writeTestFrame(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1280, 720))
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateWritesPoster(t *testing.T) {
	fakeFFmpegEmitting(t, writeTestFrame(t))

	outDir := t.TempDir()
	g := NewPosterGenerator(true)

	if err := g.Generate(context.Background(), "/uploads/clip.mp4", outDir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(outDir, PosterName))
	if err != nil {
		t.Fatalf("poster not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("poster file is empty")
	}
}

func TestGenerateDisabledIsNoop(t *testing.T) {
	// No ffmpeg on PATH: an enabled generator would fail.
	t.Setenv("PATH", t.TempDir())

	outDir := t.TempDir()
	g := NewPosterGenerator(false)

	if err := g.Generate(context.Background(), "/uploads/clip.mp4", outDir); err != nil {
		t.Fatalf("disabled Generate() error = %v, want nil", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, PosterName)); !os.IsNotExist(err) {
		t.Error("disabled generator should not write a poster")
	}
}

func TestGenerateMissingFFmpeg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	g := NewPosterGenerator(true)
	if err := g.Generate(context.Background(), "/uploads/clip.mp4", t.TempDir()); err == nil {
		t.Fatal("Generate() without ffmpeg should return an error")
	}
}

func TestGenerateRejectsGarbageFrame(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.bin")
	if err := os.WriteFile(garbage, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	fakeFFmpegEmitting(t, garbage)

	g := NewPosterGenerator(true)
	if err := g.Generate(context.Background(), "/uploads/clip.mp4", t.TempDir()); err == nil {
		t.Fatal("Generate() with undecodable frame should return an error")
	}
}
