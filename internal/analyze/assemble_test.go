package analyze

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

func cleanQuality(total int) model.QualityReport {
	return model.QualityReport{ConfidenceScore: 100, TotalRecords: total, ValidRecords: total}
}

func TestAssemble_PipelineOverview(t *testing.T) {
	asm := NewAssembler(testConfig())

	intent := model.QueryIntent{
		Query:     "how does the pipeline look",
		Category:  model.CategoryPipelineOverview,
		TimeRange: model.RangeAllTime,
	}
	resp := asm.Assemble(intent, strongDeals(), nil, cleanQuality(3), testNow)

	assert.False(t, resp.NoData)
	assert.Contains(t, resp.ExecutiveSummary, "3 deals")
	assert.Contains(t, resp.ExecutiveSummary, "1,200,000")
	assert.Contains(t, resp.ExecutiveSummary, "50.0%")
	assert.Equal(t, 3, resp.KeyMetrics["total_deals"])
	assert.NotEmpty(t, resp.Implications)
	assert.InDelta(t, 100.0, resp.DataQuality.ConfidenceScore, 1e-9)
}

func TestAssemble_UnknownQueryShortCircuits(t *testing.T) {
	asm := NewAssembler(testConfig())

	intent := model.QueryIntent{
		Query:     "what is the meaning of life",
		Category:  model.CategoryUnknown,
		TimeRange: model.RangeAllTime,
	}
	resp := asm.Assemble(intent, strongDeals(), nil, cleanQuality(3), testNow)

	assert.False(t, resp.NoData)
	assert.Contains(t, resp.ExecutiveSummary, "could not be matched")
	assert.Empty(t, resp.KeyMetrics)
	require.NotEmpty(t, resp.Implications)
	assert.Contains(t, resp.Implications[0], "Rephrase")
}

func TestAssemble_NoDataAfterFiltering(t *testing.T) {
	asm := NewAssembler(testConfig())

	deals := []model.NormalizedRecord{
		deal(dealSpec{id: "1", amount: 100.0, stage: normalize.StageLead, sector: "Energy"}),
	}
	intent := model.QueryIntent{
		Query:     "healthcare pipeline",
		Category:  model.CategoryPipelineOverview,
		TimeRange: model.RangeAllTime,
		Filters:   map[string][]string{model.DimensionSector: {"Healthcare"}},
	}
	resp := asm.Assemble(intent, deals, nil, cleanQuality(1), testNow)

	assert.True(t, resp.NoData)
	assert.Equal(t, "No data available for this query.", resp.ExecutiveSummary)
	// The quality report still rides along.
	assert.Equal(t, 1, resp.DataQuality.TotalRecords)
}

func TestAssemble_ExecutionIgnoresEmptyDeals(t *testing.T) {
	asm := NewAssembler(testConfig())

	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "1", revenue: 50000.0, status: normalize.StatusCompleted}),
		workOrder(workOrderSpec{id: "2", revenue: 25000.0, status: normalize.StatusInProgress}),
	}
	intent := model.QueryIntent{
		Query:     "work order status",
		Category:  model.CategoryExecutionStatus,
		TimeRange: model.RangeAllTime,
	}
	resp := asm.Assemble(intent, nil, workOrders, cleanQuality(2), testNow)

	assert.False(t, resp.NoData)
	assert.Contains(t, resp.ExecutiveSummary, "2 work orders")
	assert.Equal(t, 2, resp.KeyMetrics["total_work_orders"])
}

func TestAssemble_RevenueIncludesPipelineContext(t *testing.T) {
	asm := NewAssembler(testConfig())

	intent := model.QueryIntent{
		Query:     "revenue forecast",
		Category:  model.CategoryRevenueForecast,
		TimeRange: model.RangeAllTime,
	}
	resp := asm.Assemble(intent, strongDeals(), nil, cleanQuality(3), testNow)

	assert.Contains(t, resp.KeyMetrics, "recognized_revenue")
	assert.Contains(t, resp.KeyMetrics, "total_pipeline_value")
	assert.Contains(t, resp.KeyMetrics, "weighted_pipeline_value")
}

func TestAssemble_RevenueBacklogImplicationOnlyWhenNonzero(t *testing.T) {
	asm := NewAssembler(testConfig())
	intent := model.QueryIntent{
		Query:     "revenue forecast",
		Category:  model.CategoryRevenueForecast,
		TimeRange: model.RangeAllTime,
	}

	resp := asm.Assemble(intent, strongDeals(), nil, cleanQuality(3), testNow)
	for _, imp := range resp.Implications {
		assert.NotContains(t, imp, "Backlog")
	}

	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "1", revenue: 80000.0, status: normalize.StatusInProgress,
			start: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)}),
	}
	resp = asm.Assemble(intent, strongDeals(), workOrders, cleanQuality(4), testNow)
	joined := strings.Join(resp.Implications, "\n")
	assert.Contains(t, joined, "Backlog of $80,000")
}

func TestAssemble_LeadershipComposite(t *testing.T) {
	asm := NewAssembler(testConfig())

	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "1", revenue: 50000.0, status: normalize.StatusCompleted,
			start: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)}),
	}
	intent := model.QueryIntent{
		Query:     "leadership update",
		Category:  model.CategoryLeadershipUpdate,
		TimeRange: model.RangeAllTime,
	}
	resp := asm.Assemble(intent, strongDeals(), workOrders, cleanQuality(4), testNow)

	assert.Contains(t, resp.ExecutiveSummary, "Pipeline health")
	assert.Contains(t, resp.KeyMetrics, "pipeline_health")
	assert.Contains(t, resp.KeyMetrics, "pipeline_metrics")
	assert.Contains(t, resp.KeyMetrics, "execution_metrics")
	assert.NotEmpty(t, resp.Implications)
}

func TestAssemble_WarningCap(t *testing.T) {
	asm := NewAssembler(testConfig())

	quality := cleanQuality(10)
	quality.Warnings = []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"}

	intent := model.QueryIntent{
		Query:     "pipeline",
		Category:  model.CategoryPipelineOverview,
		TimeRange: model.RangeAllTime,
	}
	resp := asm.Assemble(intent, strongDeals(), nil, quality, testNow)

	assert.Len(t, resp.DataQuality.Warnings, 5)
	assert.Equal(t, []string{"w1", "w2", "w3", "w4", "w5"}, resp.DataQuality.Warnings)
}
