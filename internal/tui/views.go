package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tally-fin/tally/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateAdding:
		return m.form.view(m.theme, "Add transaction")
	case StateEditing:
		return m.form.view(m.theme, "Edit transaction")
	case StateConfirmDelete:
		return m.renderConfirmDelete()
	case StateHelp:
		return m.renderHelp()
	}

	if m.view == ViewCharts {
		return m.renderCharts()
	}
	return m.renderList()
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Transactions"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(m.filterLabel()))
	b.WriteString("\n")

	items := m.list.Items()
	if m.list.Loading() && len(items) == 0 {
		b.WriteString(m.theme.StatusPending.Render("loading…"))
		b.WriteString("\n")
	} else if len(items) == 0 {
		b.WriteString(m.theme.Italic.Render("no transactions match this filter"))
		b.WriteString("\n")
	}

	for i, tx := range items {
		b.WriteString(m.renderRow(tx, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderRow(tx model.Transaction, selected bool) string {
	date := "          "
	if !tx.Date.IsZero() {
		date = tx.Date.Format("2006-01-02")
	}

	amount := fmt.Sprintf("%10.2f", tx.Amount)
	if tx.Type == model.TypeIncome {
		amount = m.theme.Income.Render("+" + strings.TrimSpace(amount))
	} else {
		amount = m.theme.Expense.Render("-" + strings.TrimSpace(amount))
	}

	icon := m.theme.CategoryIcon.Render(model.IconFor(m.categories, tx.Category))
	row := fmt.Sprintf("%s %s %-16s %12s  %s", date, icon, truncate(tx.Category, 16), amount, truncate(tx.Note, 30))

	if selected {
		return m.theme.Selected.Render("▸ " + row)
	}
	return m.theme.Normal.Render("  " + row)
}

func (m Model) renderFooter() string {
	pages := m.list.TotalPages()
	if pages == 0 {
		pages = 1
	}
	footer := fmt.Sprintf("page %d/%d · %d total", m.list.Page(), pages, m.list.Total())
	if m.list.Loading() {
		footer += " · " + m.theme.StatusPending.Render("refreshing")
	}
	if m.lastError != nil {
		footer += "\n" + m.theme.StatusError.Render(m.lastError.Error())
	} else if m.lastStatus != "" {
		footer += "\n" + m.theme.StatusSuccess.Render(m.lastStatus)
	}
	return m.theme.Subtitle.Render(footer) + "\n" + m.renderShortHelp()
}

func (m Model) renderShortHelp() string {
	var parts []string
	for _, b := range m.keymap.ShortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return m.theme.Italic.Render(strings.Join(parts, " · "))
}

func (m Model) filterLabel() string {
	f := m.list.Filter()
	label := "type: " + string(f.Type)
	if f.Type == "" {
		label = "type: all"
	}
	if !f.Start.IsZero() {
		label += fmt.Sprintf(" · %s — %s", f.Start.Format("2006-01-02"), f.End.Format("2006-01-02"))
	}
	return label
}

func (m Model) renderConfirmDelete() string {
	body := m.theme.Title.Render("Delete transaction?") + "\n" +
		m.theme.Normal.Render("This cannot be undone.") + "\n\n" +
		m.theme.Italic.Render("y/Enter delete · n/Esc keep")
	return m.theme.RoundedBox.BorderForeground(m.theme.Error).Render(body)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Keys"))
	b.WriteString("\n")
	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			b.WriteString(fmt.Sprintf("%-14s %s\n",
				m.theme.Bold.Render(binding.Help().Key),
				binding.Help().Desc))
		}
		b.WriteString("\n")
	}
	return m.theme.BorderedBox.Render(b.String())
}

func (m Model) renderCharts() string {
	snap := m.charts.Snapshot()

	title := fmt.Sprintf("Totals · %s", m.charts.Filter().Type)
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")

	if m.charts.Loading() {
		b.WriteString(m.theme.StatusPending.Render("loading…"))
		return b.String()
	}

	b.WriteString(m.theme.Subtitle.Render("By category"))
	b.WriteString("\n")
	b.WriteString(m.renderBars(categoryRows(snap.ByCategory)))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("By date"))
	b.WriteString("\n")
	b.WriteString(m.renderBars(dateRows(snap.ByDate)))
	b.WriteString("\n")
	b.WriteString(m.theme.Bold.Render(fmt.Sprintf("Overall: %.2f", snap.Overall)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Italic.Render("f income/expense · r reload · Tab back"))
	return b.String()
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
