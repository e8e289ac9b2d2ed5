package core

// Filter narrows the visible transaction set by an optional closed date
// range and/or an exact category match. Filters are complete tuples:
// callers always replace the whole filter, never patch parts of it.
type Filter struct {
	Start    Date
	End      Date
	Category string
}

// IsZero reports whether no filter dimension is set at all.
func (f Filter) IsZero() bool {
	return f.Start.IsZero() && f.End.IsZero() && f.Category == ""
}

// dateRangeActive reports whether the date check applies. Both bounds are
// required jointly; a lone start or end bound leaves the range inactive.
// This matches the tracker's historical behavior and is deliberate.
func (f Filter) dateRangeActive() bool {
	return !f.Start.IsZero() && !f.End.IsZero()
}

// Key returns a stable string identifying the filter, used as a cache key
// for derived snapshots.
func (f Filter) Key() string {
	start, end := "", ""
	if !f.Start.IsZero() {
		start = f.Start.String()
	}
	if !f.End.IsZero() {
		end = f.End.String()
	}
	return start + "|" + end + "|" + f.Category
}

// Apply returns the subset of txs matching the filter. An empty filter
// returns the input slice unchanged. Active conditions combine with AND;
// the category match is exact and case-sensitive.
func (f Filter) Apply(txs []Transaction) []Transaction {
	if f.IsZero() {
		return txs
	}

	rangeActive := f.dateRangeActive()
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if rangeActive {
			if tx.Date.Before(f.Start.Time) || tx.Date.After(f.End.Time) {
				continue
			}
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		out = append(out, tx)
	}
	return out
}
