package tui

import (
	"fmt"
	"strings"

	"github.com/tally-fin/tally/internal/service"
)

const barWidth = 30

type chartRow struct {
	label string
	value float64
}

func categoryRows(totals []service.CategoryTotal) []chartRow {
	rows := make([]chartRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, chartRow{label: t.Category, value: t.Total})
	}
	return rows
}

func dateRows(totals []service.DateTotal) []chartRow {
	rows := make([]chartRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, chartRow{label: t.Date, value: t.Total})
	}
	return rows
}

// renderBars draws a horizontal bar per row, scaled against the largest
// value. Rows render in the order given; ordering is the controller's job.
func (m Model) renderBars(rows []chartRow) string {
	if len(rows) == 0 {
		return m.theme.Italic.Render("no data") + "\n"
	}

	var max float64
	for _, r := range rows {
		if r.value > max {
			max = r.value
		}
	}

	var b strings.Builder
	for _, r := range rows {
		filled := 0
		if max > 0 {
			filled = int(r.value / max * barWidth)
		}
		if filled > barWidth {
			filled = barWidth
		}
		bar := m.theme.BarFull.Render(strings.Repeat("█", filled)) +
			m.theme.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
		b.WriteString(fmt.Sprintf("%-14s %s %10.2f\n", truncate(r.label, 14), bar, r.value))
	}
	return b.String()
}
