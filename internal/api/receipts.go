package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// Fallbacks for receipt drafts the parser leaves sparse.
const (
	receiptCategory = "Receipt"
	receiptNote     = "Parsed from OCR"
)

// ocrResponse mirrors the OCR endpoint's envelope. The pipeline behind it
// is a black box; only text and candidate drafts come back.
type ocrResponse struct {
	Text   string `json:"text"`
	Parsed []struct {
		Type     string      `json:"type"`
		Category string      `json:"category"`
		Note     string      `json:"note"`
		Date     string      `json:"date"`
		Amount   json.Number `json:"amount"`
	} `json:"parsed_transactions"`
}

// ParseReceipt uploads a receipt image and returns the extracted text plus
// candidate transaction drafts. Candidates without a positive amount are
// dropped here; they could never pass the create path anyway.
func (c *Client) ParseReceipt(ctx context.Context, filename string, r io.Reader) (service.ReceiptResult, error) {
	op := "POST /ocr"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return service.ReceiptResult{}, fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return service.ReceiptResult{}, fmt.Errorf("%s: read receipt: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return service.ReceiptResult{}, fmt.Errorf("%s: finalize form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &buf)
	if err != nil {
		return service.ReceiptResult{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return service.ReceiptResult{}, &common.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return service.ReceiptResult{}, &common.AuthError{Op: op, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return service.ReceiptResult{}, &common.TransportError{Op: op, Status: resp.StatusCode}
	}

	var decoded ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return service.ReceiptResult{}, &common.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	result := service.ReceiptResult{Text: decoded.Text}
	for _, p := range decoded.Parsed {
		amount, _ := p.Amount.Float64()
		if amount <= 0 {
			slog.Debug("Dropping receipt candidate without positive amount", "amount", p.Amount)
			continue
		}
		draft := model.TransactionDraft{
			Type:     model.TxType(p.Type),
			Amount:   amount,
			Category: p.Category,
			Note:     p.Note,
			Date:     parseWireDate(p.Date),
		}
		if !draft.Type.Valid() {
			draft.Type = model.TypeExpense
		}
		if draft.Category == "" {
			draft.Category = receiptCategory
		}
		if draft.Note == "" {
			draft.Note = receiptNote
		}
		result.Drafts = append(result.Drafts, draft)
	}
	return result, nil
}
