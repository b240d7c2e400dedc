package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseISO(s)
	require.NoError(t, err)
	return d
}

func TestResolve(t *testing.T) {
	// Wednesday
	ref := mustDay(t, "2025-11-05")

	tests := []struct {
		name      string
		period    string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name:      "today",
			period:    PeriodToday,
			wantStart: "2025-11-05",
			wantEnd:   "2025-11-05",
		},
		{
			name:      "yesterday",
			period:    PeriodYesterday,
			wantStart: "2025-11-04",
			wantEnd:   "2025-11-04",
		},
		{
			name:      "this week starts Monday",
			period:    PeriodThisWeek,
			wantStart: "2025-11-03",
			wantEnd:   "2025-11-09",
		},
		{
			name:      "last week",
			period:    PeriodLastWeek,
			wantStart: "2025-10-27",
			wantEnd:   "2025-11-02",
		},
		{
			name:      "this month",
			period:    PeriodThisMonth,
			wantStart: "2025-11-01",
			wantEnd:   "2025-11-30",
		},
		{
			name:      "last month",
			period:    PeriodLastMonth,
			wantStart: "2025-10-01",
			wantEnd:   "2025-10-31",
		},
		{
			name:    "unknown period",
			period:  "fortnight",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.period, ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.StartISO())
			assert.Equal(t, tt.wantEnd, got.EndISO())
		})
	}
}

func TestResolveOnSunday(t *testing.T) {
	// A Sunday still belongs to the week that started the previous Monday.
	ref := mustDay(t, "2025-11-09")

	got, err := Resolve(PeriodThisWeek, ref)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-03", got.StartISO())
	assert.Equal(t, "2025-11-09", got.EndISO())
}

func TestShiftWeek(t *testing.T) {
	week := WeekOf(mustDay(t, "2025-11-05"))

	prev := week.Shift(-1)
	assert.Equal(t, "2025-10-27", prev.StartISO())
	assert.Equal(t, "2025-11-02", prev.EndISO())
}

func TestShiftCalendarMonth(t *testing.T) {
	month := MonthOf(mustDay(t, "2025-11-15"))

	prev := month.Shift(-1)
	assert.Equal(t, "2025-10-01", prev.StartISO())
	assert.Equal(t, "2025-10-31", prev.EndISO())

	// Month lengths differ, shifting stays aligned to month boundaries.
	feb := MonthOf(mustDay(t, "2025-03-10")).Shift(-1)
	assert.Equal(t, "2025-02-01", feb.StartISO())
	assert.Equal(t, "2025-02-28", feb.EndISO())
}
