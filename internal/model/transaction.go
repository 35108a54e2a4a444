// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TxType classifies a transaction as money in or money out.
type TxType string

// Known transaction types.
const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single financial record as persisted by the
// remote service. The ID is opaque and assigned server-side.
type Transaction struct {
	Date     time.Time
	ID       string
	Type     TxType
	Category string
	Note     string
	Amount   float64
}

// TransactionDraft holds the fields a caller supplies when creating a
// transaction. Date is optional; the service defaults it to "now".
type TransactionDraft struct {
	Date     time.Time
	Type     TxType
	Category string
	Note     string
	Amount   float64
}

// Validate checks a draft before it is allowed near the network.
func (d TransactionDraft) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", d.Type)
	}
	if d.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero, got %v", d.Amount)
	}
	return nil
}

// Patch is a partial field set for an update call. Nil fields are omitted
// from the request body and left untouched server-side.
type Patch struct {
	Amount   *float64
	Category *string
	Note     *string
	Type     *TxType
	Date     *time.Time
}

// ParseAmount converts raw user input into a positive amount. It accepts a
// comma decimal separator and rejects empty, non-numeric, zero, and
// negative values.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be greater than zero, got %v", v)
	}
	return v, nil
}

// DayOf truncates a timestamp to calendar-day precision in UTC. Dates are
// compared at day granularity throughout; the service is timezone-naive.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
