package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"tracksift/internal/ledger"
	"tracksift/internal/testsupport"
)

func TestRecordAndLookup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	missing, err := store.Lookup(ctx, "/music/none")
	if err != nil || missing != nil {
		t.Fatalf("expected nil entry for unknown dir, got %+v, %v", missing, err)
	}

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := ledger.Entry{
		SourceDir: "/music/a",
		ReleaseID: 42,
		Title:     "Amber",
		Score:     0.5,
		Strategy:  "all",
		Rule:      "single",
		Status:    ledger.StatusMatched,
		RunID:     "run-1",
		UpdatedAt: when,
	}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := store.Lookup(ctx, "/music/a")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got == nil || got.ReleaseID != 42 || got.Title != "Amber" || got.Status != ledger.StatusMatched || !got.UpdatedAt.Equal(when) {
		t.Fatalf("unexpected entry: %+v", got)
	}

	entry.Status = ledger.StatusFailed
	entry.ReleaseID = 0
	entry.Error = "boom"
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record update: %v", err)
	}
	got, err = store.Lookup(ctx, "/music/a")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Status != ledger.StatusFailed || got.ReleaseID != 0 || got.Error != "boom" {
		t.Fatalf("upsert did not replace entry: %+v", got)
	}
}

func TestRecordValidates(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := store.Record(ctx, ledger.Entry{Status: ledger.StatusMatched}); err == nil {
		t.Fatal("expected error for empty source dir")
	}
	if err := store.Record(ctx, ledger.Entry{SourceDir: "/x", Status: "weird"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestListCountsRemoveClear(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	seed := []ledger.Entry{
		{SourceDir: "/m/c", Status: ledger.StatusFailed, Error: "x"},
		{SourceDir: "/m/a", Status: ledger.StatusMatched, ReleaseID: 1},
		{SourceDir: "/m/b", Status: ledger.StatusNoMatch},
		{SourceDir: "/m/d", Status: ledger.StatusMatched, ReleaseID: 2},
	}
	for _, e := range seed {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record %s: %v", e.SourceDir, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 || all[0].SourceDir != "/m/a" || all[3].SourceDir != "/m/d" {
		t.Fatalf("unexpected list order: %+v", all)
	}
	matched, err := store.List(ctx, ledger.StatusMatched)
	if err != nil || len(matched) != 2 {
		t.Fatalf("expected 2 matched entries, got %d (%v)", len(matched), err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[ledger.StatusMatched] != 2 || counts[ledger.StatusNoMatch] != 1 || counts[ledger.StatusFailed] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	removed, err := store.Remove(ctx, "/m/b")
	if err != nil || !removed {
		t.Fatalf("Remove existing: %v %v", removed, err)
	}
	removed, err = store.Remove(ctx, "/m/b")
	if err != nil || removed {
		t.Fatalf("Remove missing: %v %v", removed, err)
	}

	n, err := store.Clear(ctx, ledger.StatusFailed)
	if err != nil || n != 1 {
		t.Fatalf("Clear failed: %d %v", n, err)
	}
	n, err = store.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear all: %d %v", n, err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record(context.Background(), ledger.Entry{SourceDir: "/m/a", Status: ledger.StatusNoMatch}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = store.Close()

	store, err = ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	got, err := store.Lookup(context.Background(), "/m/a")
	if err != nil || got == nil || got.Status != ledger.StatusNoMatch {
		t.Fatalf("entry lost on reopen: %+v %v", got, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := ledger.Open(path); !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
