package main

import (
	"fmt"
	"time"

	"github.com/tally-fin/tally/internal/api"
	"github.com/tally-fin/tally/internal/config"
	"github.com/tally-fin/tally/internal/model"
)

// initClient builds the HTTP client from the resolved configuration.
func initClient() (*api.Client, error) {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg)
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

// parseTypeFlag parses an optional type filter flag value.
func parseTypeFlag(value string) (model.TypeFilter, error) {
	switch value {
	case "", "all":
		return model.FilterAll, nil
	case "income":
		return model.FilterIncome, nil
	case "expense":
		return model.FilterExpense, nil
	default:
		return "", fmt.Errorf("invalid type %q: expected income, expense, or all", value)
	}
}
