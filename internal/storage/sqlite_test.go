//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"luxgen/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreResultRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	want := sampleResult()
	if err := s.SaveResult(ctx, "run-1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := s.GetResult(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("saved result not found")
	}

	// The codec stamps the current versions on the way in.
	want.SchemaVersion = CurrentSchemaVersion
	want.CodecVersion = CurrentCodecVersion
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSQLiteStoreMissingRun(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if _, found, err := s.GetResult(ctx, "nope"); err != nil || found {
		t.Fatalf("missing result: found=%v err=%v", found, err)
	}
	if _, found, err := s.GetConvergence(ctx, "nope"); err != nil || found {
		t.Fatalf("missing convergence: found=%v err=%v", found, err)
	}
	if _, found, err := s.GetGenerationStats(ctx, "nope"); err != nil || found {
		t.Fatalf("missing stats: found=%v err=%v", found, err)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	first := sampleResult()
	if err := s.SaveResult(ctx, "run-1", first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := sampleResult()
	second.Best.Fitness = 0.95
	if err := s.SaveResult(ctx, "run-1", second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, _, err := s.GetResult(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Best.Fitness != 0.95 {
		t.Fatalf("upsert did not take: fitness %v", got.Best.Fitness)
	}
}

func TestSQLiteStoreConvergenceAndStats(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	history := []float64{0.4, 0.6, 0.8}
	if err := s.SaveConvergence(ctx, "run-1", history); err != nil {
		t.Fatalf("save convergence: %v", err)
	}
	gotHistory, found, err := s.GetConvergence(ctx, "run-1")
	if err != nil || !found {
		t.Fatalf("get convergence: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(gotHistory, history) {
		t.Fatalf("convergence mismatch: %v vs %v", gotHistory, history)
	}

	stats := []model.GenerationStats{
		{Generation: 0, BestFitness: 0.4, MeanFitness: 0.2, MinFitness: 0.1},
		{Generation: 1, BestFitness: 0.6, MeanFitness: 0.3, MinFitness: 0.1},
	}
	if err := s.SaveGenerationStats(ctx, "run-1", stats); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	gotStats, found, err := s.GetGenerationStats(ctx, "run-1")
	if err != nil || !found {
		t.Fatalf("get stats: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(gotStats, stats) {
		t.Fatalf("stats mismatch: %+v vs %+v", gotStats, stats)
	}
}

func TestSQLiteStoreRejectsStaleRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	// Plant a record whose payload carries an outdated schema version.
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	stale := []byte(`{"schema_version": 0, "codec_version": 1}`)
	if _, err := db.ExecContext(ctx, `
		INSERT INTO results (run_id, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
	`, "stale-run", 0, CurrentCodecVersion, stale); err != nil {
		t.Fatalf("insert stale row: %v", err)
	}

	if _, _, err := s.GetResult(ctx, "stale-run"); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("stale record: got %v, want ErrVersionMismatch", err)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := s.SaveConvergence(context.Background(), "run-1", []float64{1}); err == nil {
		t.Fatal("expected error before Init")
	}
}

func TestSQLiteStoreInitRequiresPath(t *testing.T) {
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteStoreCloseAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s := NewSQLiteStore(path)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.SaveResult(ctx, "run-1", sampleResult()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := s.GetResult(ctx, "run-1"); err == nil {
		t.Fatal("expected error after Close")
	}

	// Data survives across store instances.
	reopened := NewSQLiteStore(path)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reinit: %v", err)
	}
	defer reopened.Close()
	_, found, err := reopened.GetResult(ctx, "run-1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !found {
		t.Fatal("persisted result lost across reopen")
	}
}

func TestNewStoreSQLiteKind(t *testing.T) {
	s, err := NewStore("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("got %T, want *SQLiteStore", s)
	}
	if err := CloseIfSupported(s); err != nil {
		t.Fatalf("close: %v", err)
	}
}
