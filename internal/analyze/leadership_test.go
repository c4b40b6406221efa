package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

// strongDeals has a 50% win rate and a weighted value above the configured
// floor.
func strongDeals() []model.NormalizedRecord {
	return []model.NormalizedRecord{
		deal(dealSpec{id: "1", amount: 600000.0, stage: normalize.StageClosedWon, sector: "Energy"}),
		deal(dealSpec{id: "2", amount: 200000.0, stage: normalize.StageClosedLost}),
		deal(dealSpec{id: "3", amount: 400000.0, stage: normalize.StageNegotiation, sector: "Technology"}),
	}
}

func TestLeadershipAnalyze_Strong(t *testing.T) {
	a := NewLeadershipAnalyzer(testConfig())

	s := a.Analyze(strongDeals(), nil, model.RangeAllTime, testNow)

	// win rate 0.5 >= 0.40 and weighted 600k+300k >= 500k.
	assert.Equal(t, HealthStrong, s.PipelineHealth)
	assert.Equal(t, "All Time", s.Period)
	require.NotEmpty(t, s.KeyHighlights)
	assert.LessOrEqual(t, len(s.KeyHighlights), 3)
}

func TestLeadershipAnalyze_NoData(t *testing.T) {
	a := NewLeadershipAnalyzer(testConfig())
	s := a.Analyze(nil, nil, model.RangeThisQuarter, testNow)

	assert.Equal(t, HealthNoData, s.PipelineHealth)
	assert.Equal(t, "This Quarter", s.Period)
}

func TestLeadershipAnalyze_NeedsAttention_LowWinRate(t *testing.T) {
	a := NewLeadershipAnalyzer(testConfig())

	deals := []model.NormalizedRecord{
		deal(dealSpec{id: "1", amount: 100000.0, stage: normalize.StageClosedWon}),
		deal(dealSpec{id: "2", amount: 100000.0, stage: normalize.StageClosedLost}),
		deal(dealSpec{id: "3", amount: 100000.0, stage: normalize.StageClosedLost}),
		deal(dealSpec{id: "4", amount: 100000.0, stage: normalize.StageClosedLost}),
		deal(dealSpec{id: "5", amount: 100000.0, stage: normalize.StageClosedLost}),
		deal(dealSpec{id: "6", amount: 100000.0, stage: normalize.StageClosedLost}),
	}

	s := a.Analyze(deals, nil, model.RangeAllTime, testNow)

	// win rate 1/6 < 0.20.
	assert.Equal(t, HealthNeedsAttention, s.PipelineHealth)
	assert.Contains(t, s.Risks[0], "Low win rate")
}

func TestLeadershipAnalyze_NeedsAttention_OnHold(t *testing.T) {
	a := NewLeadershipAnalyzer(testConfig())

	deals := []model.NormalizedRecord{
		deal(dealSpec{id: "1", amount: 100000.0, stage: normalize.StageLead}),
	}
	workOrders := []model.NormalizedRecord{
		workOrder(workOrderSpec{id: "w1", revenue: 10000.0, status: normalize.StatusOnHold}),
		workOrder(workOrderSpec{id: "w2", revenue: 10000.0, status: normalize.StatusInProgress}),
	}

	s := a.Analyze(deals, workOrders, model.RangeAllTime, testNow)

	// 50% on hold > 20% ceiling; no win rate to judge.
	assert.Equal(t, HealthNeedsAttention, s.PipelineHealth)
}

func TestLeadershipAnalyze_HealthyDefault(t *testing.T) {
	a := NewLeadershipAnalyzer(testConfig())

	deals := []model.NormalizedRecord{
		deal(dealSpec{id: "1", amount: 600000.0, stage: normalize.StageQualified}),
	}

	s := a.Analyze(deals, nil, model.RangeAllTime, testNow)

	assert.Equal(t, HealthHealthy, s.PipelineHealth)
	assert.Equal(t, []string{"No significant risks identified"}, s.Risks)
}

func TestLeadership_OpportunitiesTopSector(t *testing.T) {
	a := NewLeadershipAnalyzer(testConfig())

	s := a.Analyze(strongDeals(), nil, model.RangeAllTime, testNow)

	require.NotEmpty(t, s.Opportunities)
	assert.Contains(t, s.Opportunities[0], "Energy sector shows strongest pipeline")
}

func TestTopSector_DeterministicTieBreak(t *testing.T) {
	breakdown := map[string]SectorSlice{
		"Zeta":  {Count: 1, Value: 100},
		"Alpha": {Count: 1, Value: 100},
	}

	for i := 0; i < 10; i++ {
		name, slice, ok := topSector(breakdown)
		require.True(t, ok)
		assert.Equal(t, "Alpha", name)
		assert.Equal(t, SectorSlice{Count: 1, Value: 100}, slice)
	}
}

func TestTopSector_Empty(t *testing.T) {
	_, _, ok := topSector(nil)
	assert.False(t, ok)
}
