package kv

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "slot", []byte(`[1,2]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := s.Get(ctx, "slot")
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if string(value) != `[1,2]` {
		t.Fatalf("unexpected value %q", value)
	}

	// Whole-value overwrite, no append semantics.
	if err := s.Set(ctx, "slot", []byte(`[3]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, _, _ = s.Get(ctx, "slot")
	if string(value) != `[3]` {
		t.Fatalf("expected overwrite, got %q", value)
	}

	if err := s.Delete(ctx, "slot"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "slot"); ok {
		t.Fatal("expected key gone after delete")
	}
	if err := s.Delete(ctx, "slot"); err != nil {
		t.Fatalf("delete absent key should be a no-op: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "slots.db")
	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer s.Close()

	testStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "slots.db")
	ctx := context.Background()

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if err := s.Set(ctx, "slot", []byte(`persisted`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen sqlite store: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "slot")
	if err != nil || !ok || string(value) != "persisted" {
		t.Fatalf("expected persisted value after reopen: ok=%v err=%v value=%q", ok, err, value)
	}
}
