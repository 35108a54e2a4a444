package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/tally-fin/tally/internal/service"
)

func aggregateQuery(filter service.AggFilter) url.Values {
	query := url.Values{}
	if filter.Type != "" {
		query.Set("tx_type", string(filter.Type))
	}
	if !filter.Start.IsZero() {
		query.Set("start", filter.Start.Format(dateLayout))
	}
	if !filter.End.IsZero() {
		query.Set("end", filter.End.Format(dateLayout))
	}
	return query
}

// CategoryTotals fetches summed amounts per category, in server order.
func (c *Client) CategoryTotals(ctx context.Context, filter service.AggFilter) ([]service.CategoryTotal, error) {
	var rows []struct {
		Category string      `json:"category"`
		Total    json.Number `json:"total"`
	}
	if err := c.get(ctx, "/aggregate/category", aggregateQuery(filter), &rows); err != nil {
		return nil, err
	}

	out := make([]service.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		total, _ := r.Total.Float64()
		out = append(out, service.CategoryTotal{Category: r.Category, Total: total})
	}
	return out, nil
}

// DateTotals fetches summed amounts per calendar date. Order is whatever
// the server felt like; callers sort.
func (c *Client) DateTotals(ctx context.Context, filter service.AggFilter) ([]service.DateTotal, error) {
	var rows []struct {
		Date  string      `json:"date"`
		Total json.Number `json:"total"`
	}
	if err := c.get(ctx, "/aggregate/date", aggregateQuery(filter), &rows); err != nil {
		return nil, err
	}

	out := make([]service.DateTotal, 0, len(rows))
	for _, r := range rows {
		total, _ := r.Total.Float64()
		out = append(out, service.DateTotal{Date: r.Date, Total: total})
	}
	return out, nil
}
