package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-fin/tally/internal/bus"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
	"github.com/tally-fin/tally/internal/tui/themes"
)

type stubTransactions struct {
	page service.Page
}

func (s *stubTransactions) ListTransactions(_ context.Context, params service.ListParams) (service.Page, error) {
	p := s.page
	p.Page = params.Page
	return p, nil
}

func (s *stubTransactions) CreateTransaction(_ context.Context, draft model.TransactionDraft) (model.Transaction, error) {
	return model.Transaction{ID: "new", Type: draft.Type, Amount: draft.Amount, Category: draft.Category, Date: draft.Date}, nil
}

func (s *stubTransactions) UpdateTransaction(_ context.Context, id string, _ model.Patch) (model.Transaction, error) {
	return model.Transaction{ID: id}, nil
}

func (s *stubTransactions) DeleteTransaction(context.Context, string) error { return nil }

type stubAggregates struct{}

func (stubAggregates) CategoryTotals(context.Context, service.AggFilter) ([]service.CategoryTotal, error) {
	return nil, nil
}

func (stubAggregates) DateTotals(context.Context, service.AggFilter) ([]service.DateTotal, error) {
	return nil, nil
}

func testModel(t *testing.T, svc *stubTransactions) Model {
	t.Helper()
	m := newModel(Config{
		Transactions: svc,
		Aggregates:   stubAggregates{},
		Bus:          bus.New(),
		Theme:        themes.Default,
	})
	return m
}

func loadedModel(t *testing.T, svc *stubTransactions) Model {
	t.Helper()
	m := testModel(t, svc)
	res := m.list.Fetch(context.Background(), m.list.SetFilter(model.NewFilter()))
	next, _ := m.Update(pageResultMsg{result: res})
	return next.(Model)
}

func keyPress(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{}
}

func TestModel_PageResultPopulatesList(t *testing.T) {
	svc := &stubTransactions{page: service.Page{
		Items: []model.Transaction{{ID: "1", Type: model.TypeExpense, Amount: 5, Date: time.Now()}},
		Total: 1,
	}}
	m := loadedModel(t, svc)

	require.Len(t, m.list.Items(), 1)
	assert.False(t, m.list.Loading())
	assert.Contains(t, m.View(), "1 total")
}

func TestModel_CreatedBroadcastBumpsRefreshCounter(t *testing.T) {
	svc := &stubTransactions{page: service.Page{Total: 0}}
	m := loadedModel(t, svc)

	next, _ := m.Update(createdBroadcastMsg{transaction: model.Transaction{
		ID: "b1", Type: model.TypeExpense, Amount: 3, Date: time.Now(),
	}})
	m = next.(Model)

	assert.Equal(t, 1, m.refreshCounter)
	assert.Equal(t, 1, m.list.Total(), "matching broadcast splices into the cache")
}

func TestModel_DeleteRequiresConfirmation(t *testing.T) {
	svc := &stubTransactions{page: service.Page{
		Items: []model.Transaction{{ID: "1", Type: model.TypeExpense, Amount: 5, Date: time.Now()}},
		Total: 1,
	}}
	m := loadedModel(t, svc)

	next, _ := m.Update(keyPress("d"))
	m = next.(Model)
	assert.Equal(t, StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), "Delete transaction?")

	// Declining returns to browsing with nothing issued.
	next, cmd := m.Update(keyPress("n"))
	m = next.(Model)
	assert.Equal(t, StateBrowsing, m.state)
	assert.Nil(t, cmd)
	assert.Len(t, m.list.Items(), 1)
}

func TestModel_ConfirmedDeleteIssuesCommand(t *testing.T) {
	svc := &stubTransactions{page: service.Page{
		Items: []model.Transaction{{ID: "1", Type: model.TypeExpense, Amount: 5, Date: time.Now()}},
		Total: 1,
	}}
	m := loadedModel(t, svc)

	next, _ := m.Update(keyPress("d"))
	m = next.(Model)
	next, cmd := m.Update(keyPress("y"))
	m = next.(Model)

	require.NotNil(t, cmd, "confirmation issues the delete")
	assert.Equal(t, StateBrowsing, m.state)

	msg := cmd()
	res, ok := msg.(deleteResultMsg)
	require.True(t, ok)
	assert.Equal(t, "1", res.result.ID)

	next, _ = m.Update(res)
	m = next.(Model)
	assert.Empty(t, m.list.Items())
	assert.Equal(t, 1, m.refreshCounter)
}

func TestModel_EditValidationStaysLocal(t *testing.T) {
	svc := &stubTransactions{page: service.Page{
		Items: []model.Transaction{{ID: "7", Type: model.TypeExpense, Amount: 10, Date: time.Now()}},
		Total: 1,
	}}
	m := loadedModel(t, svc)

	next, _ := m.Update(keyPress("e"))
	m = next.(Model)
	require.Equal(t, StateEditing, m.state)

	m.form.inputs[fieldAmount].SetValue("-5")
	next, cmd := m.Update(keyPress("enter"))
	m = next.(Model)

	assert.Nil(t, cmd, "invalid amounts never reach the network")
	assert.Equal(t, StateEditing, m.state, "the form stays open for correction")
	assert.Error(t, m.lastError)
}

func TestModel_EscCancelsEdit(t *testing.T) {
	svc := &stubTransactions{page: service.Page{
		Items: []model.Transaction{{ID: "7", Type: model.TypeExpense, Amount: 10, Date: time.Now()}},
		Total: 1,
	}}
	m := loadedModel(t, svc)

	next, _ := m.Update(keyPress("e"))
	m = next.(Model)
	next, _ = m.Update(keyPress("esc"))
	m = next.(Model)

	assert.Equal(t, StateBrowsing, m.state)
	assert.Nil(t, m.list.Editing())
}

func TestModel_ToggleViewLoadsCharts(t *testing.T) {
	svc := &stubTransactions{page: service.Page{Total: 0}}
	m := loadedModel(t, svc)

	next, cmd := m.Update(keyPress("tab"))
	m = next.(Model)

	assert.Equal(t, ViewCharts, m.view)
	require.NotNil(t, cmd, "first visit queries the aggregates")
	assert.True(t, m.charts.Loading())

	msg := cmd()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)

	next, _ = m.Update(snap)
	m = next.(Model)
	assert.False(t, m.charts.Loading())
}

func TestCycleMonth(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	f := model.NewFilter()

	f = cycleMonth(f, now)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), f.End)

	f = cycleMonth(f, now)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), f.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), f.End)

	f = cycleMonth(f, now)
	assert.True(t, f.Start.IsZero())
	assert.True(t, f.End.IsZero())
}

func TestCategoryKnownFor(t *testing.T) {
	directory := []model.Category{
		{Name: "Salary", Type: model.TypeIncome},
		{Name: "Groceries", Type: model.TypeExpense},
	}

	assert.True(t, categoryKnownFor(directory, model.TypeExpense, "Groceries"))
	assert.False(t, categoryKnownFor(directory, model.TypeIncome, "Groceries"),
		"a directory category from the other side is stale")
	assert.True(t, categoryKnownFor(directory, model.TypeIncome, "Freelance"),
		"user-entered names survive a type toggle")
	assert.True(t, categoryKnownFor(directory, model.TypeIncome, ""))
}

func TestNextTypeFilter(t *testing.T) {
	assert.Equal(t, model.FilterExpense, nextTypeFilter(model.FilterAll))
	assert.Equal(t, model.FilterIncome, nextTypeFilter(model.FilterExpense))
	assert.Equal(t, model.FilterAll, nextTypeFilter(model.FilterIncome))
}
