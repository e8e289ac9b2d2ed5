// Package store owns the authoritative transaction collection. All other
// components receive read-only copies; mutations flow back only through
// Add, Update and Delete, each of which persists the whole collection.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// DefaultSlot is the slot key holding the serialized collection.
const DefaultSlot = "finance-tracker-transactions"

// TransactionStore holds the ordered collection in memory for the session
// lifetime and mirrors every mutation into the injected kv.Store slot.
// Insertion order is entry order, not chronological.
type TransactionStore struct {
	mu   sync.Mutex
	kv   kv.Store
	slot string
	txs  []core.Transaction
}

func New(backing kv.Store, slot string) *TransactionStore {
	if slot == "" {
		slot = DefaultSlot
	}
	return &TransactionStore{
		kv:   backing,
		slot: slot,
		txs:  make([]core.Transaction, 0),
	}
}

// Load rehydrates the collection from the persisted slot. A missing slot
// or an unreadable blob means "no data yet": the store starts empty and
// the failure is logged, never surfaced as an error state.
func (s *TransactionStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = make([]core.Transaction, 0)

	raw, ok, err := s.kv.Get(ctx, s.slot)
	if err != nil {
		slog.WarnContext(ctx, "Failed reading transaction slot, starting empty",
			"slot", s.slot, "error", err)
		return
	}
	if !ok {
		return
	}

	var txs []core.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		slog.WarnContext(ctx, "Stored transactions unreadable, starting empty",
			"slot", s.slot, "error", err)
		return
	}
	if txs != nil {
		s.txs = txs
	}
}

// Add assigns a fresh identifier, appends the record and persists. The
// store performs no validation; invariants are checked at the input
// boundary before the record gets here.
func (s *TransactionStore) Add(ctx context.Context, amount decimal.Decimal, category, description string, date core.Date) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
	}
	s.txs = append(s.txs, tx)

	if err := s.persistLocked(ctx); err != nil {
		return tx, err
	}
	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID, "category", tx.Category, "amount", tx.Amount, "date", tx.Date.String())
	return tx, nil
}

// Update replaces the full record matching id. An unknown id is a silent
// no-op: callers cannot distinguish "updated" from "not found".
func (s *TransactionStore) Update(ctx context.Context, id string, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		tx.ID = id
		s.txs[i] = tx
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Transaction updated", "id", id)
		return nil
	}
	return nil
}

// Delete removes the record with matching id; no-op if absent.
func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		s.txs = append(s.txs[:i], s.txs[i+1:]...)
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Transaction deleted", "id", id)
		return nil
	}
	return nil
}

// Transactions returns a copy of the collection in entry order.
func (s *TransactionStore) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// persistLocked serializes the full collection into the slot. A persist
// failure leaves the in-memory state as-is; there are no partial writes.
func (s *TransactionStore) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.txs)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	if err := s.kv.Set(ctx, s.slot, raw); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}
