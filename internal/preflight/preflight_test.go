package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracksift/internal/catalog/discogs"
	"tracksift/internal/testsupport"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
	if result := CheckReadableDirectory("test", f); result.Passed {
		t.Fatal("expected readable check to fail for file path")
	}
}

func TestCheckReadableDirectory_OK(t *testing.T) {
	result := CheckReadableDirectory("music", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read ok") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDiscogs_MissingToken(t *testing.T) {
	called := false
	result := CheckDiscogs(context.Background(), "  ", pingerFunc(func(context.Context) error {
		called = true
		return nil
	}))
	if result.Passed {
		t.Fatal("expected failure without token")
	}
	if called {
		t.Fatal("pinger should not be consulted without a token")
	}
}

func TestCheckDiscogs_NoPinger(t *testing.T) {
	result := CheckDiscogs(context.Background(), "tok", nil)
	if !result.Passed {
		t.Fatalf("expected pass without probe, got: %s", result.Detail)
	}
}

func TestCheckDiscogs_PingError(t *testing.T) {
	result := CheckDiscogs(context.Background(), "tok", pingerFunc(func(context.Context) error {
		return errors.New("boom")
	}))
	if result.Passed {
		t.Fatal("expected failure when ping fails")
	}
	if result.Detail != "boom" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDiscogs_Timeout(t *testing.T) {
	result := CheckDiscogs(context.Background(), "tok", pingerFunc(func(context.Context) error {
		return context.DeadlineExceeded
	}))
	if result.Passed || !strings.Contains(result.Detail, "timed out") {
		t.Fatalf("expected timeout detail, got %#v", result)
	}
}

func TestCheckDiscogs_ClientAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/database/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Discogs token=good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "You must authenticate to access this resource."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [], "pagination": {"page": 1, "pages": 1}}`))
	}))
	defer srv.Close()

	good, err := discogs.New("good", srv.URL, "tracksift-test")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if result := CheckDiscogs(context.Background(), "good", good); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	bad, err := discogs.New("bad", srv.URL, "tracksift-test")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	result := CheckDiscogs(context.Background(), "bad", bad)
	if result.Passed {
		t.Fatal("expected failure for bad token")
	}
	if result.Detail != "auth failed (invalid token)" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.SourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}

	results := RunAll(context.Background(), cfg, pingerFunc(func(context.Context) error { return nil }))
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %#v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %#v", failed)
	}
}

func TestRunAllReportsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDiscogsToken(""))
	cfg.Paths.SourceDir = ""
	cfg.Scan.FFprobeBinary = filepath.Join(t.TempDir(), "missing-ffprobe")

	results := RunAll(context.Background(), cfg, nil)
	if len(results) != 3 {
		t.Fatalf("expected 3 results without a source dir, got %d", len(results))
	}
	failed := Failed(results)
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	want := "State directory,FFprobe,Discogs"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("failed checks = %q, want %q", got, want)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
