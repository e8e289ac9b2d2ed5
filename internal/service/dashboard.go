// Package service orchestrates the transaction store, the active filter
// and the derived aggregates consumed by the presentation layer.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store"
)

// Snapshot is everything the presentation layer consumes for one filter
// state. All fields are derived read-only projections, recomputed from
// scratch after every mutation.
type Snapshot struct {
	Transactions      []core.Transaction  `json:"transactions"`
	Categories        []string            `json:"categories"`
	CategoryTotals    []core.CategoryTotal `json:"categoryTotals"`
	MonthlyTotals     []core.MonthlyTotal `json:"monthlyTotals"`
	CurrentMonthTotal decimal.Decimal     `json:"currentMonthTotal"`
	TotalAmount       decimal.Decimal     `json:"totalAmount"`
}

// Dashboard owns the active filter and memoizes snapshots per filter key.
// Every mutation purges the memo so all projections are rebuilt.
type Dashboard struct {
	mu        sync.Mutex
	store     *store.TransactionStore
	publisher *events.Client // nil when no broker is configured
	filter    core.Filter
	snapshots *cache.LRUCache[Snapshot]
	now       func() time.Time
}

// NewDashboard wires the service. now is injected so the current-month
// aggregate stays testable; pass time.Now in production.
func NewDashboard(st *store.TransactionStore, publisher *events.Client, cacheSize int, cacheTTL time.Duration, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{
		store:     st,
		publisher: publisher,
		snapshots: cache.NewLRUCache[Snapshot](cacheSize, cacheTTL),
		now:       now,
	}
}

// SetFilter replaces the whole filter tuple. Partial patches are not
// supported; callers send the complete filter on every change.
func (d *Dashboard) SetFilter(f core.Filter) {
	d.mu.Lock()
	d.filter = f
	d.mu.Unlock()
}

// Filter returns the active filter tuple.
func (d *Dashboard) Filter() core.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// Snapshot computes (or returns the memoized) projection set for the
// active filter. Categories always cover the full unfiltered collection
// so selection inputs never shrink under a filter.
func (d *Dashboard) Snapshot(ctx context.Context) Snapshot {
	d.mu.Lock()
	f := d.filter
	d.mu.Unlock()

	key := f.Key()
	if snap, ok := d.snapshots.Get(key); ok {
		slog.DebugContext(ctx, "Snapshot cache hit", "filter", key)
		return snap
	}

	all := d.store.Transactions()
	filtered := f.Apply(all)

	snap := Snapshot{
		Transactions:      filtered,
		Categories:        core.Categories(all),
		CategoryTotals:    core.CategoryTotals(filtered),
		MonthlyTotals:     core.MonthlyTotals(filtered),
		CurrentMonthTotal: core.CurrentMonthTotal(filtered, d.now()),
		TotalAmount:       core.TotalAmount(filtered),
	}
	d.snapshots.Set(key, snap)
	return snap
}

// AddTransaction appends a new record and invalidates derived state.
func (d *Dashboard) AddTransaction(ctx context.Context, amount decimal.Decimal, category, description string, date core.Date) (core.Transaction, error) {
	tx, err := d.store.Add(ctx, amount, category, description, date)
	if err != nil {
		return tx, err
	}
	d.snapshots.Purge()
	d.publish(ctx, events.TransactionCreated, tx.ID)
	return tx, nil
}

// UpdateTransaction replaces the record matching id. Unknown ids are a
// silent no-op, mirroring the store contract.
func (d *Dashboard) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) error {
	if err := d.store.Update(ctx, id, tx); err != nil {
		return err
	}
	d.snapshots.Purge()
	d.publish(ctx, events.TransactionUpdated, id)
	return nil
}

// DeleteTransaction removes the record matching id; no-op if absent.
func (d *Dashboard) DeleteTransaction(ctx context.Context, id string) error {
	if err := d.store.Delete(ctx, id); err != nil {
		return err
	}
	d.snapshots.Purge()
	d.publish(ctx, events.TransactionDeleted, id)
	return nil
}

func (d *Dashboard) publish(ctx context.Context, eventType events.EventType, id string) {
	if d.publisher == nil {
		return
	}
	msg := events.NewTransactionEventMessage(eventType, id)
	if err := d.publisher.PublishTransactionEvent(ctx, msg); err != nil {
		// The mutation already succeeded locally; the event is best-effort.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"type", eventType, "id", id, "error", err)
	}
}

// SnapshotCache exposes the memo for lifecycle management (periodic
// expired-entry cleanup).
func (d *Dashboard) SnapshotCache() *cache.LRUCache[Snapshot] {
	return d.snapshots
}

// Close releases the optional publisher connection.
func (d *Dashboard) Close() error {
	if d.publisher != nil {
		return d.publisher.Close()
	}
	return nil
}
