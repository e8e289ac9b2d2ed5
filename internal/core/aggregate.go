// Package core holds the transaction domain model and the pure
// filtering/aggregation logic the dashboard is built on.
package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// CategoryTotal is the summed amount for one category, with the
	// display color used by proportional breakdown charts.
	CategoryTotal struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Color  string          `json:"color"`
	}

	// MonthlyTotal is the summed amount for one calendar month,
	// keyed "YYYY-MM".
	MonthlyTotal struct {
		Month  string          `json:"month"`
		Amount decimal.Decimal `json:"amount"`
	}
)

// categoryPalette is pinned: color assignment is a pure function of the
// category name and the palette size, so changing either reshuffles every
// chart color.
var categoryPalette = [...]string{
	"#00d7d2",
	"#9333ea",
	"#f97316",
	"#10b981",
	"#f59e0b",
	"#3b82f6",
	"#ec4899",
	"#8b5cf6",
	"#14b8a6",
	"#ef4444",
}

// CategoryColor returns the deterministic palette color for a category
// name. The same name always yields the same color.
func CategoryColor(name string) string {
	sum := 0
	for _, b := range []byte(name) {
		sum += int(b)
	}
	return categoryPalette[sum%len(categoryPalette)]
}

// CategoryTotals groups txs by category and sums amounts per group.
// Groups are sorted descending by summed amount; ties keep the
// first-encountered order.
func CategoryTotals(txs []Transaction) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			index[tx.Category] = len(out)
			out = append(out, CategoryTotal{
				Name:   tx.Category,
				Amount: tx.Amount,
				Color:  CategoryColor(tx.Category),
			})
			continue
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// MonthlyTotals groups txs by calendar year-month and sums amounts per
// group, sorted ascending by month key. The lexicographic "YYYY-MM" sort
// equals chronological order.
func MonthlyTotals(txs []Transaction) []MonthlyTotal {
	index := make(map[string]int)
	out := make([]MonthlyTotal, 0)
	for _, tx := range txs {
		key := tx.Date.YearMonth()
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, MonthlyTotal{Month: key, Amount: tx.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}

// CurrentMonthTotal sums the transactions dated within the calendar month
// containing now. The evaluation instant is injected so the function
// stays pure and testable.
func CurrentMonthTotal(txs []Transaction, now time.Time) decimal.Decimal {
	total := decimal.Zero
	year, month := now.Year(), now.Month()
	for _, tx := range txs {
		if tx.Date.Year() == year && tx.Date.Month() == month {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TotalAmount sums all transaction amounts unconditionally.
func TotalAmount(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// Categories returns the sorted set of distinct category labels in txs.
// It is fed the full unfiltered collection to populate selection inputs.
func Categories(txs []Transaction) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tx := range txs {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	sort.Strings(out)
	return out
}
