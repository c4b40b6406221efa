package analyze

import (
	"time"

	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

// RevenueMetrics summarizes recognized and forecasted revenue across both
// boards.
type RevenueMetrics struct {
	RecognizedRevenue float64            `json:"recognized_revenue"`
	ForecastedRevenue float64            `json:"forecasted_revenue"`
	TotalRevenue      float64            `json:"total_revenue"`
	RevenueBySector   map[string]float64 `json:"revenue_by_sector"`
	RevenueByMonth    map[string]float64 `json:"revenue_by_month"`
	YTDRevenue        float64            `json:"ytd_revenue"`
}

// RevenueAnalyzer computes revenue metrics from deals and work orders.
type RevenueAnalyzer struct {
	cfg      config.AnalysisConfig
	pipeline *PipelineAnalyzer
}

// NewRevenueAnalyzer creates a RevenueAnalyzer.
func NewRevenueAnalyzer(cfg config.AnalysisConfig) *RevenueAnalyzer {
	return &RevenueAnalyzer{cfg: cfg, pipeline: NewPipelineAnalyzer(cfg)}
}

// Analyze computes revenue metrics. Recognized revenue comes from closed-won
// deals and completed work orders; forecasted revenue is the weighted value
// of open-stage deals. now anchors the YTD window.
func (a *RevenueAnalyzer) Analyze(deals, workOrders []model.NormalizedRecord, now time.Time) RevenueMetrics {
	m := RevenueMetrics{
		RevenueBySector: map[string]float64{},
		RevenueByMonth:  map[string]float64{},
	}

	for _, d := range deals {
		amount, hasAmount := d.Number(model.FieldAmount)
		stage, hasStage := d.Category(model.FieldStage)
		if hasAmount && hasStage && stage.Name == normalize.StageClosedWon {
			m.RecognizedRevenue += amount
		}
	}
	m.ForecastedRevenue = a.pipeline.OpenWeightedValue(deals)

	year := now.UTC().Year()
	for _, wo := range workOrders {
		revenue, hasRevenue := wo.Number(model.FieldRevenue)
		if !hasRevenue {
			continue
		}
		m.TotalRevenue += revenue

		if status, ok := wo.Category(model.FieldStatus); ok && status.Name == normalize.StatusCompleted {
			m.RecognizedRevenue += revenue
		}

		sectorName := normalize.UnknownBucket
		if sector, ok := wo.Category(model.FieldSector); ok {
			sectorName = sector.Name
		}
		m.RevenueBySector[sectorName] += revenue

		if start, ok := wo.Date(model.FieldStartDate); ok {
			m.RevenueByMonth[start.Format("2006-01")] += revenue
			if start.Year() == year {
				m.YTDRevenue += revenue
			}
		}
	}

	return m
}

// Map renders the metrics as a flat key_metrics document.
func (m RevenueMetrics) Map() map[string]any {
	return map[string]any{
		"recognized_revenue": round2(m.RecognizedRevenue),
		"forecasted_revenue": round2(m.ForecastedRevenue),
		"total_revenue":      round2(m.TotalRevenue),
		"revenue_by_sector":  roundMap(m.RevenueBySector),
		"revenue_by_month":   roundMap(m.RevenueByMonth),
		"ytd_revenue":        round2(m.YTDRevenue),
	}
}
