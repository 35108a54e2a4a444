package api

import (
	"context"
	"encoding/json"

	"github.com/tally-fin/tally/internal/model"
)

// Categories fetches the category directory.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/categories", nil, &raw); err != nil {
		return nil, err
	}
	return decodeCategories(raw)
}
