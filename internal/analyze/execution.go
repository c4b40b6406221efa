package analyze

import (
	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

// ExecutionMetrics summarizes the work orders board.
type ExecutionMetrics struct {
	TotalWorkOrders   int                `json:"total_work_orders"`
	CompletedOrders   int                `json:"completed_orders"`
	InProgressOrders  int                `json:"in_progress_orders"`
	PlanningOrders    int                `json:"planning_orders"`
	OnHoldOrders      int                `json:"on_hold_orders"`
	CompletionRate    float64            `json:"completion_rate"`
	OrdersByStatus    map[string]int     `json:"orders_by_status"`
	StatusPercentages map[string]float64 `json:"status_percentages"`
	OrdersBySector    map[string]int     `json:"orders_by_sector"`
	DeliveredRevenue  float64            `json:"delivered_revenue"`
	BacklogValue      float64            `json:"backlog_value"`
	OnHoldValue       float64            `json:"on_hold_value"`
}

// ExecutionAnalyzer computes work order execution metrics.
type ExecutionAnalyzer struct {
	cfg config.AnalysisConfig
}

// NewExecutionAnalyzer creates an ExecutionAnalyzer.
func NewExecutionAnalyzer(cfg config.AnalysisConfig) *ExecutionAnalyzer {
	return &ExecutionAnalyzer{cfg: cfg}
}

// Analyze computes execution metrics over an already-filtered work order
// set. Backlog is everything planned, running, or paused.
func (a *ExecutionAnalyzer) Analyze(workOrders []model.NormalizedRecord) ExecutionMetrics {
	m := ExecutionMetrics{
		TotalWorkOrders:   len(workOrders),
		OrdersByStatus:    map[string]int{},
		StatusPercentages: map[string]float64{},
		OrdersBySector:    map[string]int{},
	}

	var statused int
	for _, wo := range workOrders {
		revenue, hasRevenue := wo.Number(model.FieldRevenue)
		status, hasStatus := wo.Category(model.FieldStatus)

		if hasStatus {
			statused++
			m.OrdersByStatus[status.Name]++
			switch status.Name {
			case normalize.StatusCompleted:
				m.CompletedOrders++
				if hasRevenue {
					m.DeliveredRevenue += revenue
				}
			case normalize.StatusInProgress:
				m.InProgressOrders++
			case normalize.StatusPlanning:
				m.PlanningOrders++
			case normalize.StatusOnHold:
				m.OnHoldOrders++
				if hasRevenue {
					m.OnHoldValue += revenue
				}
			}
			switch status.Name {
			case normalize.StatusPlanning, normalize.StatusInProgress, normalize.StatusOnHold:
				if hasRevenue {
					m.BacklogValue += revenue
				}
			}
		}

		sectorName := normalize.UnknownBucket
		if sector, ok := wo.Category(model.FieldSector); ok {
			sectorName = sector.Name
		}
		m.OrdersBySector[sectorName]++
	}

	if m.TotalWorkOrders > 0 {
		m.CompletionRate = float64(m.CompletedOrders) / float64(m.TotalWorkOrders)
	}
	for status, n := range m.OrdersByStatus {
		m.StatusPercentages[status] = 100 * float64(n) / float64(statused)
	}

	return m
}

// OnHoldRatio is the fraction of work orders currently paused.
func (m ExecutionMetrics) OnHoldRatio() float64 {
	if m.TotalWorkOrders == 0 {
		return 0
	}
	return float64(m.OnHoldOrders) / float64(m.TotalWorkOrders)
}

// Map renders the metrics as a flat key_metrics document.
func (m ExecutionMetrics) Map() map[string]any {
	return map[string]any{
		"total_work_orders":  m.TotalWorkOrders,
		"completed_orders":   m.CompletedOrders,
		"in_progress_orders": m.InProgressOrders,
		"planning_orders":    m.PlanningOrders,
		"on_hold_orders":     m.OnHoldOrders,
		"completion_rate":    round4(m.CompletionRate),
		"orders_by_status":   m.OrdersByStatus,
		"status_percentages": roundMap(m.StatusPercentages),
		"orders_by_sector":   m.OrdersBySector,
		"delivered_revenue":  round2(m.DeliveredRevenue),
		"backlog_value":      round2(m.BacklogValue),
		"on_hold_value":      round2(m.OnHoldValue),
	}
}
