package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/browse"
	"github.com/tally-fin/tally/internal/bus"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

const requestTimeout = 30 * time.Second

// fetchPage issues one list fetch. The controller's cache is only touched
// when the result message is applied on the event loop.
func (m Model) fetchPage(req browse.PageRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return pageResultMsg{result: m.list.Fetch(ctx, req)}
	}
}

// performDelete issues the destructive call for an already confirmed row.
func (m Model) performDelete(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return deleteResultMsg{result: m.list.PerformDelete(ctx, id)}
	}
}

// performUpdate issues a validated row update.
func (m Model) performUpdate(req browse.UpdateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return updateResultMsg{result: m.list.PerformUpdate(ctx, req)}
	}
}

// createTransaction persists a draft and broadcasts the created record so
// every mounted list view reconciles it.
func createTransaction(svc service.TransactionService, b *bus.Bus, draft model.TransactionDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		created, err := svc.CreateTransaction(ctx, draft)
		if err != nil {
			return createResultMsg{err: err}
		}
		if b != nil {
			b.Publish(bus.Event{Kind: bus.TransactionCreated, Transaction: created})
		}
		return createResultMsg{transaction: created}
	}
}

// loadSnapshot runs both aggregate queries off the event loop.
func (m Model) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return snapshotMsg{snapshot: m.charts.Load(ctx)}
	}
}

// loadCategories fetches the category directory for the add form.
func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		if m.directory == nil {
			return categoriesLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		categories, err := m.directory.Categories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}
