package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

func TestRevenueAnalyze(t *testing.T) {
	a := NewRevenueAnalyzer(testConfig())

	deals := []model.NormalizedRecord{
		deal(dealSpec{id: "1", amount: 300000.0, stage: normalize.StageClosedWon}),
		deal(dealSpec{id: "2", amount: 100000.0, stage: normalize.StageProposal}), // 50k forecast
		deal(dealSpec{id: "3", amount: 400000.0, stage: normalize.StageClosedLost}),
	}
	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "w1", revenue: 150000.0, status: normalize.StatusCompleted, sector: "Energy",
			start: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)}),
		workOrder(workOrderSpec{id: "w2", revenue: 80000.0, status: normalize.StatusInProgress, sector: "Technology",
			start: time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)}),
	}

	m := a.Analyze(deals, workOrders, testNow)

	// Closed-won deals plus completed work orders.
	assert.InDelta(t, 450000.0, m.RecognizedRevenue, 1e-9)
	assert.InDelta(t, 50000.0, m.ForecastedRevenue, 1e-9)
	assert.InDelta(t, 230000.0, m.TotalRevenue, 1e-9)
	assert.Equal(t, map[string]float64{"Energy": 150000, "Technology": 80000}, m.RevenueBySector)
	assert.Equal(t, map[string]float64{"2025-02": 150000, "2024-11": 80000}, m.RevenueByMonth)
	// Only the 2025 work order counts toward YTD.
	assert.InDelta(t, 150000.0, m.YTDRevenue, 1e-9)
}

func TestRevenueAnalyze_MissingRevenueSkipped(t *testing.T) {
	a := NewRevenueAnalyzer(testConfig())

	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "w1", revenue: badField(model.IssueMissingField), status: normalize.StatusCompleted}),
		workOrder(workOrderSpec{id: "w2", revenue: 50000.0, status: normalize.StatusCompleted}),
	}

	m := a.Analyze(nil, workOrders, testNow)
	assert.InDelta(t, 50000.0, m.RecognizedRevenue, 1e-9)
	assert.InDelta(t, 50000.0, m.TotalRevenue, 1e-9)
}

func TestRevenueAnalyze_UnknownSectorBucket(t *testing.T) {
	a := NewRevenueAnalyzer(testConfig())

	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "w1", revenue: 10000.0, status: normalize.StatusCompleted}),
	}

	m := a.Analyze(nil, workOrders, testNow)
	assert.Equal(t, map[string]float64{normalize.UnknownBucket: 10000}, m.RevenueBySector)
}

func TestRevenueAnalyze_Empty(t *testing.T) {
	a := NewRevenueAnalyzer(testConfig())
	m := a.Analyze(nil, nil, testNow)

	assert.Zero(t, m.RecognizedRevenue)
	assert.Zero(t, m.ForecastedRevenue)
	assert.Empty(t, m.RevenueBySector)
}
