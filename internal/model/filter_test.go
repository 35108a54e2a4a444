package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		tx     Transaction
		want   bool
	}{
		{
			name:   "all types matches income",
			filter: Filter{Type: FilterAll},
			tx:     Transaction{Type: TypeIncome, Date: date(2024, 1, 15)},
			want:   true,
		},
		{
			name:   "type mismatch",
			filter: Filter{Type: FilterExpense},
			tx:     Transaction{Type: TypeIncome, Date: date(2024, 1, 15)},
			want:   false,
		},
		{
			name:   "type match",
			filter: Filter{Type: FilterExpense},
			tx:     Transaction{Type: TypeExpense, Date: date(2024, 1, 15)},
			want:   true,
		},
		{
			name:   "empty type behaves like all",
			filter: Filter{},
			tx:     Transaction{Type: TypeIncome, Date: date(2024, 1, 15)},
			want:   true,
		},
		{
			name:   "date before start excluded",
			filter: Filter{Type: FilterAll, Start: date(2024, 1, 10)},
			tx:     Transaction{Type: TypeExpense, Date: date(2024, 1, 9)},
			want:   false,
		},
		{
			name:   "date on start boundary included",
			filter: Filter{Type: FilterAll, Start: date(2024, 1, 10)},
			tx:     Transaction{Type: TypeExpense, Date: date(2024, 1, 10)},
			want:   true,
		},
		{
			name:   "end is inclusive through end of day",
			filter: Filter{Type: FilterAll, End: date(2024, 1, 31)},
			tx:     Transaction{Type: TypeExpense, Date: time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)},
			want:   true,
		},
		{
			name:   "date after end excluded",
			filter: Filter{Type: FilterAll, End: date(2024, 1, 31)},
			tx:     Transaction{Type: TypeExpense, Date: date(2024, 2, 1)},
			want:   false,
		},
		{
			name:   "zero transaction date fails a bounded range",
			filter: Filter{Type: FilterAll, Start: date(2024, 1, 1)},
			tx:     Transaction{Type: TypeExpense},
			want:   false,
		},
		{
			name: "inside full range",
			filter: Filter{
				Type:  FilterExpense,
				Start: date(2024, 1, 1),
				End:   date(2024, 1, 31),
			},
			tx:   Transaction{Type: TypeExpense, Date: date(2024, 1, 20)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.tx))
		})
	}
}

func TestFilter_EffectivePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Filter{}.EffectivePageSize())
	assert.Equal(t, DefaultPageSize, Filter{PageSize: -3}.EffectivePageSize())
	assert.Equal(t, 25, Filter{PageSize: 25}.EffectivePageSize())
}
