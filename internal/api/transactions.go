package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

const dateLayout = "2006-01-02"

// ListTransactions fetches one page of the collection under the given
// filter parameters.
func (c *Client) ListTransactions(ctx context.Context, params service.ListParams) (service.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Type != "" && params.Type != model.FilterAll {
		query.Set("tx_type", string(params.Type))
	}
	if !params.Start.IsZero() {
		query.Set("start", params.Start.Format(dateLayout))
	}
	if !params.End.IsZero() {
		query.Set("end", params.End.Format(dateLayout))
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/transactions", query, &raw); err != nil {
		return service.Page{}, err
	}

	page, err := decodePage(raw, params.Page)
	if err != nil {
		slog.Warn("Unexpected list response shape", "error", err)
		return service.Page{}, err
	}

	slog.Debug("Listed transactions",
		"page", page.Page,
		"items", len(page.Items),
		"total", page.Total)
	return page, nil
}

// createPayload is the create request body. Date is omitted when unset so
// the service applies its own default.
type createPayload struct {
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Note     string  `json:"note"`
	Date     string  `json:"date,omitempty"`
	Amount   float64 `json:"amount"`
}

// CreateTransaction persists a draft. The draft must already be validated;
// this method revalidates anyway so an unvalidated amount can never reach
// the wire.
func (c *Client) CreateTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return model.Transaction{}, err
	}

	payload := createPayload{
		Type:     string(draft.Type),
		Amount:   draft.Amount,
		Category: draft.Category,
		Note:     draft.Note,
	}
	if !draft.Date.IsZero() {
		payload.Date = draft.Date.Format(time.RFC3339)
	}

	var wire wireTransaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, payload, &wire); err != nil {
		return model.Transaction{}, err
	}
	return wire.toModel(), nil
}

// UpdateTransaction submits a partial field set for one record. When the
// service echoes nothing back, the zero Transaction is returned and the
// caller merges the submitted patch instead.
func (c *Client) UpdateTransaction(ctx context.Context, id string, patch model.Patch) (model.Transaction, error) {
	body := map[string]any{}
	if patch.Amount != nil {
		body["amount"] = *patch.Amount
	}
	if patch.Category != nil {
		body["category"] = *patch.Category
	}
	if patch.Note != nil {
		body["note"] = *patch.Note
	}
	if patch.Type != nil {
		body["type"] = string(*patch.Type)
	}
	if patch.Date != nil {
		body["date"] = patch.Date.Format(dateLayout)
	}

	var wire wireTransaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), nil, body, &wire); err != nil {
		return model.Transaction{}, err
	}
	return wire.toModel(), nil
}

// DeleteTransaction removes one record by identifier.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, nil)
}
