package model

import "time"

// TypeFilter is the type selection of a list filter. Unlike TxType it
// admits "all".
type TypeFilter string

// Type filter values.
const (
	FilterAll     TypeFilter = "all"
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
)

// DefaultPageSize is used when a filter does not specify one.
const DefaultPageSize = 10

// Filter is the current list selection: type, inclusive date range, and
// page size. Zero Start/End mean "unset".
type Filter struct {
	Start    time.Time
	End      time.Time
	Type     TypeFilter
	PageSize int
}

// NewFilter returns the default filter: all types, no date range.
func NewFilter() Filter {
	return Filter{Type: FilterAll, PageSize: DefaultPageSize}
}

// Matches reports whether a transaction belongs in the view under this
// filter. Dates are compared at day granularity; End is inclusive through
// end-of-day.
func (f Filter) Matches(tx Transaction) bool {
	if f.Type != FilterAll && f.Type != "" && string(f.Type) != string(tx.Type) {
		return false
	}
	day := DayOf(tx.Date)
	if !f.Start.IsZero() {
		if tx.Date.IsZero() || day.Before(DayOf(f.Start)) {
			return false
		}
	}
	if !f.End.IsZero() {
		if tx.Date.IsZero() || day.After(DayOf(f.End)) {
			return false
		}
	}
	return true
}

// EffectivePageSize returns the filter's page size, falling back to the
// default for zero or negative values.
func (f Filter) EffectivePageSize() int {
	if f.PageSize <= 0 {
		return DefaultPageSize
	}
	return f.PageSize
}
