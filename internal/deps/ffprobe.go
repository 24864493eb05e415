package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultFFprobe = "ffprobe"

// ResolveFFprobePath returns the ffprobe command to execute for the
// configured value. An empty value falls back to "ffprobe" on PATH.
func ResolveFFprobePath(configured string) string {
	status := CheckFFprobe(configured)
	return status.Command
}

// CheckFFprobe reports the ffprobe binary tag inspection will execute.
//
// Static FFmpeg bundles are often installed by symlinking only ffmpeg onto
// PATH. When the default name cannot be resolved, the directory the ffmpeg
// symlink points into is tried as well.
func CheckFFprobe(configured string) Status {
	result := Status{
		Name:        "FFprobe",
		Description: "Reads audio tags and durations",
	}

	command := strings.TrimSpace(configured)
	if command == "" {
		command = defaultFFprobe
	}
	if resolved, err := exec.LookPath(command); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	if command == defaultFFprobe {
		if ffmpegPath, err := exec.LookPath("ffmpeg"); err == nil {
			candidate := siblingBinary(ffmpegPath, defaultFFprobe)
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	result.Command = command
	result.Detail = fmt.Sprintf("binary %q not found", command)
	return result
}

func siblingBinary(path, name string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(path), name)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
