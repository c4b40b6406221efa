// Package analyze computes quantitative metrics and narrative summaries
// from normalized board records. Every analyzer is a pure function of its
// inputs: no state across calls, no I/O, safe for concurrent use.
package analyze

import (
	"math"
	"time"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/query"
)

// Filter applies the intent's sector and time-range filters to a record
// set. Stage/status filter dimensions stay on the intent as metadata; they
// select metrics, not records, so distributions remain complete.
//
// With a sector filter active, the sector field must be valid to pass.
// With a time filter active, the board's date field (close date for deals,
// start date for work orders) must be valid and inside the window.
func Filter(records []model.NormalizedRecord, intent model.QueryIntent, now time.Time) []model.NormalizedRecord {
	sectors := intent.SectorFilter()
	start, end, windowed := query.Window(intent.TimeRange, now)

	if len(sectors) == 0 && !windowed {
		return records
	}

	sectorSet := make(map[string]bool, len(sectors))
	for _, s := range sectors {
		sectorSet[s] = true
	}

	out := make([]model.NormalizedRecord, 0, len(records))
	for _, rec := range records {
		if len(sectorSet) > 0 {
			sector, ok := rec.Category(model.FieldSector)
			if !ok || !sectorSet[sector.Name] {
				continue
			}
		}
		if windowed {
			d, ok := rec.Date(dateField(rec.Board))
			if !ok || d.Before(start) || !d.Before(end) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func dateField(board model.BoardKind) string {
	if board == model.BoardWorkOrders {
		return model.FieldStartDate
	}
	return model.FieldCloseDate
}

// round2 keeps reported currency metrics to cents.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ratio returns a/b, with nil when the denominator is zero — an undefined
// rate is reported as null, never as zero.
func ratio(a, b float64) *float64 {
	if b == 0 {
		return nil
	}
	r := a / b
	return &r
}
