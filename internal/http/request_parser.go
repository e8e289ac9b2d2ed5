// Request decoding and input-boundary validation. The store trusts its
// callers, so every invariant (positive amount, non-empty category, valid
// date) is enforced here before a record is built.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// transactionRequest is the create/update payload.
type transactionRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"omitempty,max=200"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
}

// filterRequest is the complete filter tuple; null fields mean "unset".
// Partial patches are not supported: the client resends the whole tuple
// on every change.
type filterRequest struct {
	StartDate *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Category  *string `json:"category"`
}

func decodeTransactionRequest(r *http.Request) (core.Transaction, error) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return core.Transaction{}, fmt.Errorf("malformed JSON body: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction date %q", req.Date)
	}

	tx := core.Transaction{
		Amount:      decimal.NewFromFloat(req.Amount),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
	}
	// Catches what struct tags cannot, e.g. a whitespace-only category.
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func decodeFilterRequest(r *http.Request) (core.Filter, error) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return core.Filter{}, fmt.Errorf("malformed JSON body: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return core.Filter{}, fmt.Errorf("invalid filter: %w", err)
	}

	var f core.Filter
	if req.StartDate != nil && *req.StartDate != "" {
		start, err := core.ParseDate(*req.StartDate)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid start date %q", *req.StartDate)
		}
		f.Start = start
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := core.ParseDate(*req.EndDate)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid end date %q", *req.EndDate)
		}
		f.End = end
	}
	if req.Category != nil {
		f.Category = *req.Category
	}
	return f, nil
}
