package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/model"
)

// Run starts the interactive browser and blocks until it exits. The
// mutation bus subscription is taken for the lifetime of the program;
// broadcasts are marshaled onto the event loop through the program's
// message queue, never applied from the publisher's goroutine.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transactions == nil {
		return fmt.Errorf("transaction service is required")
	}
	if cfg.Aggregates == nil {
		return fmt.Errorf("aggregate reader is required")
	}

	m := newModel(cfg)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	if cfg.Bus != nil {
		m.list.Mount(func(created model.Transaction) {
			p.Send(createdBroadcastMsg{transaction: created})
		})
		defer m.list.Unmount()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
