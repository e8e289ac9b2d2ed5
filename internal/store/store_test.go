package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

func newTestStore() (*TransactionStore, *kv.Memory) {
	backing := kv.NewMemory()
	s := New(backing, "")
	s.Load(context.Background())
	return s, backing
}

func TestAddThenReloadRoundtrip(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore()

	added, err := s.Add(ctx, decimal.NewFromFloat(12.50), "Food", "lunch", core.NewDate(2025, 4, 12))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected a fresh identifier")
	}

	// Simulate a cold start against the same slot.
	reloaded := New(backing, "")
	reloaded.Load(ctx)

	txs := reloaded.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction after reload, got %d", len(txs))
	}
	got := txs[0]
	if got.ID != added.ID || !got.Amount.Equal(added.Amount) ||
		got.Category != "Food" || got.Description != "lunch" ||
		got.Date.String() != "2025-04-12" {
		t.Fatalf("reload mismatch: %+v", got)
	}
}

func TestAddAssignsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		tx, err := s.Add(ctx, decimal.NewFromInt(1), "Gas", "", core.NewDate(2025, 1, 1))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate identifier %q", tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	kept, _ := s.Add(ctx, decimal.NewFromInt(5), "Gas", "", core.NewDate(2025, 1, 1))
	doomed, _ := s.Add(ctx, decimal.NewFromInt(7), "Food", "", core.NewDate(2025, 1, 2))

	if err := s.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, tx := range s.Transactions() {
		if tx.ID == doomed.ID {
			t.Fatal("deleted id still present")
		}
	}

	// Unknown id is a silent no-op.
	if err := s.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("delete unknown id: %v", err)
	}
	txs := s.Transactions()
	if len(txs) != 1 || txs[0].ID != kept.ID {
		t.Fatalf("collection changed by no-op delete: %+v", txs)
	}
}

func TestUpdateReplacesOnlyMatchingRecord(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	first, _ := s.Add(ctx, decimal.NewFromInt(10), "Food", "before", core.NewDate(2025, 2, 1))
	second, _ := s.Add(ctx, decimal.NewFromInt(20), "Gas", "other", core.NewDate(2025, 2, 2))

	changed := first
	changed.Amount = decimal.NewFromInt(99)
	if err := s.Update(ctx, first.ID, changed); err != nil {
		t.Fatalf("update: %v", err)
	}

	txs := s.Transactions()
	if !txs[0].Amount.Equal(decimal.NewFromInt(99)) {
		t.Fatalf("amount not updated: %+v", txs[0])
	}
	if txs[0].Category != "Food" || txs[0].Description != "before" || txs[0].ID != first.ID {
		t.Fatalf("other fields disturbed: %+v", txs[0])
	}
	if !txs[1].Amount.Equal(second.Amount) || txs[1].ID != second.ID {
		t.Fatalf("unrelated record disturbed: %+v", txs[1])
	}

	// Unknown id is a silent no-op.
	if err := s.Update(ctx, "no-such-id", changed); err != nil {
		t.Fatalf("update unknown id: %v", err)
	}
	if got := s.Transactions(); len(got) != 2 {
		t.Fatalf("collection changed by no-op update: %+v", got)
	}
}

func TestLoadSwallowsCorruptSlot(t *testing.T) {
	ctx := context.Background()
	backing := kv.NewMemory()
	if err := backing.Set(ctx, DefaultSlot, []byte(`{not json`)); err != nil {
		t.Fatalf("seed corrupt slot: %v", err)
	}

	s := New(backing, "")
	s.Load(ctx)
	if got := s.Transactions(); len(got) != 0 {
		t.Fatalf("expected empty collection for corrupt slot, got %d", len(got))
	}

	// The store stays usable after the swallowed failure.
	if _, err := s.Add(ctx, decimal.NewFromInt(3), "Food", "", core.NewDate(2025, 3, 3)); err != nil {
		t.Fatalf("add after corrupt load: %v", err)
	}
}

func TestPersistIsWholeCollectionOverwrite(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore()

	a, _ := s.Add(ctx, decimal.NewFromInt(1), "A", "", core.NewDate(2025, 1, 1))
	s.Add(ctx, decimal.NewFromInt(2), "B", "", core.NewDate(2025, 1, 2))
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reloaded := New(backing, "")
	reloaded.Load(ctx)
	txs := reloaded.Transactions()
	if len(txs) != 1 || txs[0].Category != "B" {
		t.Fatalf("slot not overwritten with current collection: %+v", txs)
	}
}
