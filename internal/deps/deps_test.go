package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckFFprobeConfiguredPath(t *testing.T) {
	tmp := t.TempDir()
	probe := filepath.Join(tmp, executableName("ffprobe-custom"))
	if err := os.WriteFile(probe, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", "")

	status := CheckFFprobe(probe)
	if !status.Available {
		t.Fatalf("expected configured ffprobe to be available, got detail %q", status.Detail)
	}
	if status.Command != probe {
		t.Fatalf("expected command %q, got %q", probe, status.Command)
	}
	if got := ResolveFFprobePath(probe); got != probe {
		t.Fatalf("ResolveFFprobePath = %q, want %q", got, probe)
	}
}

func TestCheckFFprobeBesideSymlinkedFFmpeg(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	bundleDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	ffmpeg := filepath.Join(bundleDir, "ffmpeg")
	probe := filepath.Join(bundleDir, "ffprobe")
	if err := os.WriteFile(ffmpeg, script, 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	if err := os.WriteFile(probe, script, 0o644); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	binDir := t.TempDir()
	if err := os.Symlink(ffmpeg, filepath.Join(binDir, "ffmpeg")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := CheckFFprobe("")
	if status.Available {
		t.Fatalf("expected non-executable ffprobe to be rejected, got %#v", status)
	}

	if err := os.Chmod(probe, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	want, err := filepath.EvalSymlinks(probe)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	status = CheckFFprobe("")
	if !status.Available || status.Command != want {
		t.Fatalf("expected %q to be resolved, got %#v", want, status)
	}
}

func TestCheckFFprobeNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckFFprobe("")
	if status.Available {
		t.Fatal("expected ffprobe resolution to fail")
	}
	if status.Command != "ffprobe" {
		t.Fatalf("expected default command recorded, got %q", status.Command)
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when ffprobe is unavailable")
	}
	if got := ResolveFFprobePath(""); got != "ffprobe" {
		t.Fatalf("ResolveFFprobePath = %q, want ffprobe", got)
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
