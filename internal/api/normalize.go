package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// wireTransaction is the loosely typed record the service sends. The
// identifier arrives as either "id" or "_id" depending on the endpoint
// generation; both are accepted here and nowhere else.
type wireTransaction struct {
	ID       string          `json:"id"`
	AltID    string          `json:"_id"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Date     string          `json:"date"`
	Amount   json.Number     `json:"amount"`
	Raw      json.RawMessage `json:"-"`
}

func (w wireTransaction) toModel() model.Transaction {
	id := w.ID
	if id == "" {
		id = w.AltID
	}
	amount, _ := w.Amount.Float64()
	return model.Transaction{
		ID:       id,
		Type:     model.TxType(w.Type),
		Amount:   amount,
		Category: w.Category,
		Note:     w.Note,
		Date:     parseWireDate(w.Date),
	}
}

// parseWireDate accepts the date formats the service has been seen to emit.
// Anything unparsable becomes the zero time rather than an error; a bad
// date on one record must not sink a whole page.
func parseWireDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// pageEnvelope is the enveloped list response shape. Total is a pointer so
// "absent" stays distinguishable from an explicit zero.
type pageEnvelope struct {
	Items []wireTransaction `json:"items"`
	Total *int              `json:"total"`
	Page  int               `json:"page"`
}

// decodePage normalizes both list response shapes, legacy bare array and
// envelope object, into one Page. When the service provides no explicit
// total the item count stands in for it; when it echoes no page number the
// requested page is assumed.
func decodePage(data []byte, requestedPage int) (service.Page, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return service.Page{Page: requestedPage}, nil
	}

	var wire []wireTransaction
	var env pageEnvelope

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return service.Page{}, fmt.Errorf("decode transaction array: %w", err)
		}
		env = pageEnvelope{Items: wire}
	} else {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return service.Page{}, fmt.Errorf("decode transaction envelope: %w", err)
		}
	}

	items := make([]model.Transaction, 0, len(env.Items))
	for _, w := range env.Items {
		items = append(items, w.toModel())
	}

	total := len(items)
	if env.Total != nil {
		total = *env.Total
	}
	page := env.Page
	if page == 0 {
		page = requestedPage
	}

	return service.Page{Items: items, Total: total, Page: page}, nil
}

// wireCategory covers the object form of a directory entry. The name has
// been observed under three different keys.
type wireCategory struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
}

// decodeCategories normalizes a directory response whose entries may be
// bare strings or objects. Entries with no usable name are dropped.
func decodeCategories(data []byte) ([]model.Category, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, fmt.Errorf("decode category list: %w", err)
	}

	out := make([]model.Category, 0, len(raw))
	for _, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			if name != "" {
				out = append(out, model.Category{Name: name})
			}
			continue
		}

		var wc wireCategory
		if err := json.Unmarshal(entry, &wc); err != nil {
			continue
		}
		cname := wc.Name
		if cname == "" {
			cname = wc.Label
		}
		if cname == "" {
			cname = wc.Value
		}
		if cname == "" {
			continue
		}
		out = append(out, model.Category{Name: cname, Type: model.TxType(wc.Type), Icon: wc.Icon})
	}
	return out, nil
}
