package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleIndex renders the server-side dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap := s.dashboard.Snapshot(r.Context())
	filter := s.dashboard.Filter()

	type categoryRow struct {
		Name, Amount, Color string
		Width               int
	}
	type monthRow struct {
		Month, Amount string
	}
	type txRow struct {
		ID, Date, Category, Description, Amount string
	}
	data := struct {
		Total          string
		CurrentMonth   string
		Count          int
		Categories     []string
		FilterCategory string
		CategoryRows   []categoryRow
		MonthRows      []monthRow
		Transactions   []txRow
	}{
		Total:          snap.TotalAmount.StringFixed(2),
		CurrentMonth:   snap.CurrentMonthTotal.StringFixed(2),
		Count:          len(snap.Transactions),
		Categories:     snap.Categories,
		FilterCategory: filter.Category,
	}

	// Scale category bars against the largest group, which sorts first.
	maxAmount := decimal.Zero
	if len(snap.CategoryTotals) > 0 {
		maxAmount = snap.CategoryTotals[0].Amount
	}
	for _, ct := range snap.CategoryTotals {
		width := 0
		if maxAmount.Sign() > 0 {
			width = int(ct.Amount.Mul(hundred).Div(maxAmount).IntPart())
			if width > 0 && width < 2 { // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.CategoryRows = append(data.CategoryRows, categoryRow{
			Name:   ct.Name,
			Amount: ct.Amount.StringFixed(2),
			Color:  ct.Color,
			Width:  width,
		})
	}
	for _, mt := range snap.MonthlyTotals {
		data.MonthRows = append(data.MonthRows, monthRow{Month: mt.Month, Amount: mt.Amount.StringFixed(2)})
	}
	for _, tx := range snap.Transactions {
		data.Transactions = append(data.Transactions, txRow{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleTransactions serves the collection endpoints.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap := s.dashboard.Snapshot(r.Context())
		writeJSON(w, http.StatusOK, snap.Transactions)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := decodeTransactionRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.dashboard.AddTransaction(r.Context(), tx.Amount, tx.Category, tx.Description, tx.Date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err, "category", tx.Category)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleTransactionByID serves update and delete for a single record.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		tx, err := decodeTransactionRequest(r)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.dashboard.UpdateTransaction(r.Context(), id, tx); err != nil {
			slog.ErrorContext(r.Context(), "Transaction update error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to update transaction")
			return
		}
		// An unknown id is indistinguishable from a successful update.
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := s.dashboard.DeleteTransaction(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete transaction")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleFilter replaces the active filter tuple and returns the freshly
// derived snapshot.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	f, err := decodeFilterRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.dashboard.SetFilter(f)
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot(r.Context()))
}

// handleSummary returns every derived projection for the active filter.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot(r.Context()))
}
