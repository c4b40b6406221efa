package query

import (
	"time"

	"github.com/sells-group/insights-cli/internal/model"
)

// timePhrases are matched in order; the first phrase found in the query
// wins. Longer phrases come before their prefixes.
var timePhrases = []struct {
	phrase string
	tr     model.TimeRange
}{
	{"this quarter", model.RangeThisQuarter},
	{"current quarter", model.RangeThisQuarter},
	{"next quarter", model.RangeNextQuarter},
	{"upcoming quarter", model.RangeNextQuarter},
	{"last quarter", model.RangeLastQuarter},
	{"previous quarter", model.RangeLastQuarter},
	{"past quarter", model.RangeLastQuarter},
	{"this year", model.RangeThisYear},
	{"current year", model.RangeThisYear},
	{"year to date", model.RangeThisYear},
	{"ytd", model.RangeThisYear},
	{"last 30 days", model.RangeLast30Days},
	{"past 30 days", model.RangeLast30Days},
	{"last month", model.RangeLast30Days},
	{"past month", model.RangeLast30Days},
	{"last 90 days", model.RangeLast90Days},
	{"past 90 days", model.RangeLast90Days},
}

// extractTimeRange finds a time phrase in the normalized query, defaulting
// to all time.
func extractTimeRange(normalized string) model.TimeRange {
	for _, tp := range timePhrases {
		if containsTerm(normalized, tp.phrase) {
			return tp.tr
		}
	}
	return model.RangeAllTime
}

// Window returns the [start, end) date window for a time range relative to
// now. ok is false for all-time, which imposes no window.
func Window(tr model.TimeRange, now time.Time) (start, end time.Time, ok bool) {
	now = now.UTC()
	switch tr {
	case model.RangeThisQuarter:
		start = quarterStart(now, 0)
		return start, start.AddDate(0, 3, 0), true
	case model.RangeNextQuarter:
		start = quarterStart(now, 1)
		return start, start.AddDate(0, 3, 0), true
	case model.RangeLastQuarter:
		start = quarterStart(now, -1)
		return start, start.AddDate(0, 3, 0), true
	case model.RangeThisYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0), true
	case model.RangeLast30Days:
		return now.AddDate(0, 0, -30), now.AddDate(0, 0, 1), true
	case model.RangeLast90Days:
		return now.AddDate(0, 0, -90), now.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Label renders a time range for narrative text.
func Label(tr model.TimeRange) string {
	switch tr {
	case model.RangeThisQuarter:
		return "This Quarter"
	case model.RangeNextQuarter:
		return "Next Quarter"
	case model.RangeLastQuarter:
		return "Last Quarter"
	case model.RangeThisYear:
		return "Year to Date"
	case model.RangeLast30Days:
		return "Last 30 Days"
	case model.RangeLast90Days:
		return "Last 90 Days"
	default:
		return "All Time"
	}
}

// quarterStart returns the first day of the quarter offset quarters away
// from now's quarter.
func quarterStart(now time.Time, offset int) time.Time {
	q := (int(now.Month())-1)/3 + offset
	year := now.Year() + q/4
	q = q % 4
	if q < 0 {
		q += 4
		year--
	}
	return time.Date(year, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
}
