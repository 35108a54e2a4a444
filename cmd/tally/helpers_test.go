package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-fin/tally/internal/model"
)

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("start", "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDateFlag("start", "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseDateFlag("start", "03/09/2024")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestParseTypeFlag(t *testing.T) {
	for value, want := range map[string]model.TypeFilter{
		"":        model.FilterAll,
		"all":     model.FilterAll,
		"income":  model.FilterIncome,
		"expense": model.FilterExpense,
	} {
		got, err := parseTypeFlag(value)
		require.NoError(t, err, value)
		assert.Equal(t, want, got)
	}

	_, err := parseTypeFlag("transfer")
	assert.Error(t, err)
}
