// Package aggregate implements the read-only chart queries: category
// totals and date-bucketed totals under a shared filter shape.
package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// Snapshot is one consistent pair of query results ready for chart
// consumers. ByDate is always ascending by date.
type Snapshot struct {
	ByCategory []service.CategoryTotal
	ByDate     []service.DateTotal
	Overall    float64
}

// Controller issues the two aggregate queries and tracks when a re-query
// is due: on filter change, or when the externally bumped refresh counter
// moves past the last one seen.
type Controller struct {
	svc     service.AggregateReader
	filter  service.AggFilter
	snap    Snapshot
	counter int
	loading bool
}

// NewController creates a controller defaulting to the expense side, the
// view users land on.
func NewController(svc service.AggregateReader) *Controller {
	return &Controller{
		svc:    svc,
		filter: service.AggFilter{Type: model.TypeExpense},
	}
}

// Filter returns the active aggregate filter.
func (c *Controller) Filter() service.AggFilter { return c.filter }

// SetFilter replaces the filter. Returns true when it actually changed and
// a re-query is due.
func (c *Controller) SetFilter(f service.AggFilter) bool {
	if f == c.filter {
		return false
	}
	c.filter = f
	return true
}

// Refresh records an externally supplied monotonic counter bump from a
// mutation-producing flow. Returns true when a re-query is due.
func (c *Controller) Refresh(counter int) bool {
	if counter <= c.counter {
		return false
	}
	c.counter = counter
	return true
}

// Begin marks a load in progress. Pair with Apply.
func (c *Controller) Begin() { c.loading = true }

// Load runs both queries concurrently. Each failure is caught where it
// happens, logged, and turned into an empty result; one failing query
// never blocks the other from rendering. Date rows come back stably
// sorted ascending, with unparsable dates ordered first as epoch zero.
func (c *Controller) Load(ctx context.Context) Snapshot {
	var byCategory []service.CategoryTotal
	var byDate []service.DateTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := c.svc.CategoryTotals(gctx, c.filter)
		if err != nil {
			slog.Warn("Category totals query failed", "error", err)
			return nil
		}
		byCategory = rows
		return nil
	})
	g.Go(func() error {
		rows, err := c.svc.DateTotals(gctx, c.filter)
		if err != nil {
			slog.Warn("Date totals query failed", "error", err)
			return nil
		}
		byDate = rows
		return nil
	})
	_ = g.Wait()

	sortByDate(byDate)

	var overall float64
	for _, row := range byDate {
		overall += row.Total
	}

	return Snapshot{ByCategory: byCategory, ByDate: byDate, Overall: overall}
}

// Apply stores a loaded snapshot and clears the loading flag.
func (c *Controller) Apply(s Snapshot) {
	c.snap = s
	c.loading = false
}

// Snapshot returns the last applied results.
func (c *Controller) Snapshot() Snapshot { return c.snap }

// Loading reports whether a load is in progress.
func (c *Controller) Loading() bool { return c.loading }

// sortByDate orders rows ascending by parsed date, stably so equal dates
// keep server order. A date that fails to parse sorts as epoch zero
// instead of crashing the chart.
func sortByDate(rows []service.DateTotal) {
	sort.SliceStable(rows, func(i, j int) bool {
		return parseChartDate(rows[i].Date).Before(parseChartDate(rows[j].Date))
	})
}

func parseChartDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}
