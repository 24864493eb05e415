package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"tracksift/internal/config"
	"tracksift/internal/testsupport"
)

// ffprobeEcho stands in for ffprobe: the fixture "audio" files already hold
// ffprobe JSON, so the stub prints its last argument.
const ffprobeEcho = "#!/bin/sh\nfor last; do :; done\ncat \"$last\"\n"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	library    string
	server     *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("DISCOGS_TOKEN", "")

	probe := filepath.Join(base, "bin", "ffprobe")
	testsupport.WriteText(t, probe, ffprobeEcho)
	if err := os.Chmod(probe, 0o755); err != nil {
		t.Fatalf("chmod ffprobe stub: %v", err)
	}
	cfg.Scan.FFprobeBinary = probe

	srv := httptest.NewServer(newDiscogsStub(t))
	t.Cleanup(srv.Close)
	cfg.Discogs.BaseURL = srv.URL

	configPath := filepath.Join(homeDir, ".config", "tracksift", "config.toml")
	writeTestConfig(t, configPath, cfg)

	library := cfg.Paths.SourceDir
	if err := os.MkdirAll(library, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		library:    library,
		server:     srv,
	}
}

// newDiscogsStub serves a catalog holding a single release, 1 "Amber",
// found by any query mentioning amber.
func newDiscogsStub(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/database/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Discogs token=test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		results := []map[string]any{}
		if strings.Contains(strings.ToLower(r.URL.Query().Get("q")), "amber") {
			results = append(results, map[string]any{"id": 1, "type": "release", "title": "Autechre - Amber", "year": "1994"})
		}
		writeStubJSON(t, w, map[string]any{"results": results})
	})
	mux.HandleFunc("/releases/1", func(w http.ResponseWriter, r *http.Request) {
		writeStubJSON(t, w, map[string]any{
			"id":      1,
			"title":   "Amber",
			"year":    1994,
			"artists": []map[string]any{{"name": "Autechre"}},
			"formats": []map[string]any{{"name": "CD", "qty": "1"}},
			"tracklist": []map[string]any{
				{"position": "1", "type_": "track", "title": "Foil", "duration": "3:20"},
				{"position": "2", "type_": "track", "title": "Montreal", "duration": "5:00"},
			},
		})
	})
	return mux
}

func writeStubJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode stub response: %v", err)
	}
}

type fixtureTrack struct {
	title   string
	seconds float64
}

// writeAlbum creates an album directory whose .wav files contain the ffprobe
// output the stub binary will echo.
func writeAlbum(t *testing.T, dir, artist, album string, tracks ...fixtureTrack) {
	t.Helper()
	for i, track := range tracks {
		probe := map[string]any{
			"streams": []map[string]any{{"codec_type": "audio"}},
			"format": map[string]any{
				"duration": fmt.Sprintf("%.3f", track.seconds),
				"tags": map[string]string{
					"artist": artist,
					"album":  album,
					"title":  track.title,
					"track":  strconv.Itoa(i + 1),
				},
			},
		}
		data, err := json.Marshal(probe)
		if err != nil {
			t.Fatalf("marshal probe fixture: %v", err)
		}
		testsupport.WriteText(t, filepath.Join(dir, fmt.Sprintf("%02d.wav", i+1)), string(data))
	}
}

func writeAmber(t *testing.T, dir string) {
	t.Helper()
	writeAlbum(t, dir, "Autechre", "Amber",
		fixtureTrack{"Foil", 200.4},
		fixtureTrack{"Montreal", 299.6},
	)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[discogs]
token = %q
base_url = %q

[rate_limit]
cooldown_seconds = 0.0
pause_seconds = 0.0

[scan]
ffprobe_binary = %q

[logging]
level = "error"

[notifications]
ntfy_topic = %q
`,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Discogs.Token,
		cfg.Discogs.BaseURL,
		cfg.Scan.FFprobeBinary,
		cfg.Notifications.NtfyTopic,
	)
	testsupport.WriteText(t, path, content)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
