package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDate_Formats(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want time.Time
	}{
		{"iso", "2025-03-15", date(2025, time.March, 15)},
		{"iso datetime", "2025-03-15T10:30:00Z", date(2025, time.March, 15)},
		{"iso space", "2025-03-15 10:30:00", date(2025, time.March, 15)},
		{"us slashed", "03/15/2025", date(2025, time.March, 15)},
		{"long month", "March 15, 2025", date(2025, time.March, 15)},
		{"short month", "Mar 15, 2025", date(2025, time.March, 15)},
		{"day-month-name", "15-Mar-2025", date(2025, time.March, 15)},
		{"single-digit day-month-name", "5-Mar-2025", date(2025, time.March, 5)},
		{"epoch float", float64(1742000000), date(2025, time.March, 15)},
		{"epoch int", 1742000000, date(2025, time.March, 15)},
		{"epoch string", "1742000000", date(2025, time.March, 15)},
		{"time value", time.Date(2025, time.March, 15, 18, 4, 5, 0, time.UTC), date(2025, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Date(tt.raw)
			require.True(t, res.Valid, "expected valid, got issue %q", res.Issue)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestDate_EquivalentFormatsCanonicalize(t *testing.T) {
	want := date(2024, time.January, 15)
	for _, raw := range []string{"2024-01-15", "01/15/2024", "15-Jan-2024"} {
		res := Date(raw)
		require.True(t, res.Valid, "raw %q", raw)
		assert.Equal(t, want, res.Value, "raw %q", raw)
	}
}

func TestDate_AmbiguousSlashedPrefersUS(t *testing.T) {
	// 04/05/2025 could be April 5 or May 4; month-first wins.
	res := Date("04/05/2025")
	require.True(t, res.Valid)
	assert.Equal(t, date(2025, time.April, 5), res.Value)
}

func TestDate_Missing(t *testing.T) {
	for _, raw := range []any{nil, "", "  ", "null", "N/A", "-"} {
		res := Date(raw)
		assert.False(t, res.Valid)
		assert.Equal(t, model.IssueMissingField, res.Issue)
	}
}

func TestDate_Invalid(t *testing.T) {
	for _, raw := range []any{"not a date", "2025-13-45", "15th of Whenever"} {
		res := Date(raw)
		assert.False(t, res.Valid)
		assert.Equal(t, model.IssueInvalidFormat, res.Issue)
	}
}

func TestDate_EpochOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"before window", int64(0)},
		{"far future", float64(4102444800 + 86400*365)}, // past 2100
		{"negative", -1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Date(tt.raw)
			assert.False(t, res.Valid)
			assert.Equal(t, model.IssueOutOfRange, res.Issue)
		})
	}
}

func TestDate_Idempotent(t *testing.T) {
	first := Date("2025-03-15T10:30:00Z")
	require.True(t, first.Valid)
	second := Date(first.Value)
	require.True(t, second.Valid)
	assert.Equal(t, first.Value, second.Value)
}

func TestNumeric_Idempotent(t *testing.T) {
	first := Numeric("$1,250,000.50")
	require.True(t, first.Valid)
	second := Numeric(first.Value)
	require.True(t, second.Valid)
	assert.Equal(t, first.Value, second.Value)
}

func TestNumeric_Formats(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"plain float", 1250.5, 1250.5},
		{"plain int", 42, 42},
		{"string", "1250.50", 1250.5},
		{"dollars", "$1,250,000", 1250000},
		{"euros", "€99.95", 99.95},
		{"spaces", "1 250 000", 1250000},
		{"parens negative", "(1,250)", -1250},
		{"currency parens", "($500.25)", -500.25},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Numeric(tt.raw)
			require.True(t, res.Valid, "expected valid, got issue %q", res.Issue)
			assert.InDelta(t, tt.want, res.Value.(float64), 1e-9)
		})
	}
}

func TestNumeric_Missing(t *testing.T) {
	for _, raw := range []any{nil, "", "none", "--"} {
		res := Numeric(raw)
		assert.False(t, res.Valid)
		assert.Equal(t, model.IssueMissingField, res.Issue)
	}
}

func TestNumeric_Invalid(t *testing.T) {
	for _, raw := range []any{"twelve", "$", "12.3.4"} {
		res := Numeric(raw)
		assert.False(t, res.Valid)
		assert.Equal(t, model.IssueInvalidFormat, res.Issue)
	}
}

func TestText(t *testing.T) {
	res := Text("  Acme Corp  ")
	require.True(t, res.Valid)
	assert.Equal(t, "Acme Corp", res.Value)

	res = Text("n/a")
	assert.False(t, res.Valid)
	assert.Equal(t, model.IssueMissingField, res.Issue)
}
