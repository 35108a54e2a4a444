// Package service defines the interfaces for the remote collaborators this
// client consumes. Controllers depend on these, never on concrete clients.
package service

import (
	"context"
	"io"
	"time"

	"github.com/tally-fin/tally/internal/model"
)

// ListParams defines one page request against the transaction collection.
// Page is 1-based. Zero Start/End mean no date bound.
type ListParams struct {
	Start    time.Time
	End      time.Time
	Type     model.TypeFilter
	Page     int
	PageSize int
}

// Page is one normalized page of the transaction collection.
type Page struct {
	Items []model.Transaction
	Total int
	Page  int
}

// AggFilter parameterizes both aggregate queries. It uses a concrete
// transaction type; charts always show one side of the ledger.
type AggFilter struct {
	Start time.Time
	End   time.Time
	Type  model.TxType
}

// CategoryTotal is one categorical chart row, in server-returned order.
type CategoryTotal struct {
	Category string
	Total    float64
}

// DateTotal is one time-series row. Date stays a raw string here; the
// aggregate controller owns parsing and ordering.
type DateTotal struct {
	Date  string
	Total float64
}

// ReceiptResult is what the OCR pipeline hands back: the extracted text and
// candidate transaction drafts parsed from it.
type ReceiptResult struct {
	Text   string
	Drafts []model.TransactionDraft
}

// TransactionService is the remote transaction collection.
type TransactionService interface {
	ListTransactions(ctx context.Context, params ListParams) (Page, error)
	CreateTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch model.Patch) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// CategoryDirectory exposes the known category names per transaction type.
// Read-only from this client's perspective.
type CategoryDirectory interface {
	Categories(ctx context.Context) ([]model.Category, error)
}

// AggregateReader serves the two chart queries.
type AggregateReader interface {
	CategoryTotals(ctx context.Context, filter AggFilter) ([]CategoryTotal, error)
	DateTotals(ctx context.Context, filter AggFilter) ([]DateTotal, error)
}

// ReceiptParser turns an uploaded receipt into candidate drafts. The OCR
// pipeline behind it is a black box.
type ReceiptParser interface {
	ParseReceipt(ctx context.Context, filename string, r io.Reader) (ReceiptResult, error)
}

// RetryOptions configures retry behavior for idempotent operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
