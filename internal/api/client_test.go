package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
		Retry:   service.RetryOptions{MaxAttempts: 1},
	})
	require.NoError(t, err)
	return client
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.NoError(t, Config{BaseURL: "http://localhost:8000/api"}.Validate())
}

func TestClient_ListTransactions(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		q := r.URL.Query()
		gotQuery = map[string]string{
			"page":      q.Get("page"),
			"page_size": q.Get("page_size"),
			"tx_type":   q.Get("tx_type"),
			"start":     q.Get("start"),
			"end":       q.Get("end"),
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"1","type":"expense","amount":9.99,"date":"2024-01-15"}],"total":12,"page":2}`))
	})

	page, err := client.ListTransactions(context.Background(), service.ListParams{
		Page:     2,
		PageSize: 10,
		Type:     model.FilterExpense,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"page":      "2",
		"page_size": "10",
		"tx_type":   "expense",
		"start":     "2024-01-01",
		"end":       "2024-01-31",
	}, gotQuery)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].ID)
	assert.InDelta(t, 9.99, page.Items[0].Amount, 0.001)
}

func TestClient_ListTransactions_OmitsAllTypeFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("tx_type"))
		assert.False(t, r.URL.Query().Has("start"))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListTransactions(context.Background(), service.ListParams{
		Page: 1, PageSize: 10, Type: model.FilterAll,
	})
	require.NoError(t, err)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		check  func(t *testing.T, err error)
		name   string
		status int
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.True(t, common.IsAuth(err))
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.True(t, common.IsAuth(err))
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrNotFound)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var te *common.TransportError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, http.StatusInternalServerError, te.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			err := client.DeleteTransaction(context.Background(), "42")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_CreateTransaction_ValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"id":"1"}`))
	})

	_, err := client.CreateTransaction(context.Background(), model.TransactionDraft{
		Type:   model.TypeExpense,
		Amount: -5,
	})
	assert.Error(t, err)
	assert.Zero(t, calls, "invalid draft must never reach the wire")
}

func TestClient_CreateTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"abc","type":"expense","amount":7.5,"category":"Coffee","date":"2024-03-01T00:00:00"}`))
	})

	tx, err := client.CreateTransaction(context.Background(), model.TransactionDraft{
		Type:     model.TypeExpense,
		Amount:   7.5,
		Category: "Coffee",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", tx.ID)
	assert.Equal(t, model.TypeExpense, tx.Type)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
}

func TestClient_UpdateTransaction_EmptyEcho(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/transactions/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	amount := 15.0
	tx, err := client.UpdateTransaction(context.Background(), "7", model.Patch{Amount: &amount})
	require.NoError(t, err)

	// No echo means the zero transaction; the controller merges the patch.
	assert.Empty(t, tx.ID)
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name":"Rent","type":"expense","icon":"🏠"},"Misc"]`))
	})

	cats, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Rent", cats[0].Name)
	assert.Equal(t, "🏠", cats[0].Icon)
}

func TestClient_Aggregates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/aggregate/category":
			assert.Equal(t, "expense", r.URL.Query().Get("tx_type"))
			_, _ = w.Write([]byte(`[{"category":"Food","total":120.5},{"category":"Rent","total":900}]`))
		case "/aggregate/date":
			_, _ = w.Write([]byte(`[{"date":"2024-01-02","total":30}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	filter := service.AggFilter{Type: model.TypeExpense}

	cats, err := client.CategoryTotals(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].Category)
	assert.InDelta(t, 120.5, cats[0].Total, 0.001)

	dates, err := client.DateTotals(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, "2024-01-02", dates[0].Date)
}

func TestClient_ParseReceipt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ocr", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "receipt.jpg", header.Filename)

		_, _ = w.Write([]byte(`{
			"text": "TOTAL 23.40",
			"parsed_transactions": [
				{"amount": 23.40, "date": "2024-02-10"},
				{"amount": 0}
			]
		}`))
	})

	result, err := client.ParseReceipt(context.Background(), "receipt.jpg", bytes.NewReader([]byte("fake-image")))
	require.NoError(t, err)

	assert.Equal(t, "TOTAL 23.40", result.Text)
	require.Len(t, result.Drafts, 1, "non-positive candidates are dropped")
	draft := result.Drafts[0]
	assert.InDelta(t, 23.40, draft.Amount, 0.001)
	assert.Equal(t, model.TypeExpense, draft.Type)
	assert.Equal(t, "Receipt", draft.Category)
	assert.Equal(t, "Parsed from OCR", draft.Note)
}
