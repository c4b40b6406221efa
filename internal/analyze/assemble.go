package analyze

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
)

// Assembler merges analyzer output, the quality report, and intent metadata
// into the final structured response.
type Assembler struct {
	cfg        config.AnalysisConfig
	pipeline   *PipelineAnalyzer
	revenue    *RevenueAnalyzer
	execution  *ExecutionAnalyzer
	leadership *LeadershipAnalyzer
	p          *message.Printer
}

// NewAssembler creates an Assembler with all four analyzers.
func NewAssembler(cfg config.AnalysisConfig) *Assembler {
	return &Assembler{
		cfg:        cfg,
		pipeline:   NewPipelineAnalyzer(cfg),
		revenue:    NewRevenueAnalyzer(cfg),
		execution:  NewExecutionAnalyzer(cfg),
		leadership: NewLeadershipAnalyzer(cfg),
		p:          message.NewPrinter(language.English),
	}
}

// Assemble answers one intent from already-validated record sets. Deals and
// work orders arrive unfiltered; the assembler applies the intent's
// sector/time filters before analysis. The quality report always rides
// along, so the caller sees exactly what is uncertain about the answer.
func (asm *Assembler) Assemble(intent model.QueryIntent, deals, workOrders []model.NormalizedRecord, quality model.QualityReport, now time.Time) model.Response {
	resp := model.Response{
		Query:       intent.Query,
		Intent:      intent,
		DataQuality: capWarnings(quality, asm.cfg.MaxWarnings),
		KeyMetrics:  map[string]any{},
	}

	if intent.Category == model.CategoryUnknown {
		resp.ExecutiveSummary = "This question could not be matched to a known analysis. " +
			"Try asking about the sales pipeline, revenue forecast, work order execution, or a leadership update."
		resp.Implications = []string{
			"Rephrase using terms like 'pipeline', 'revenue', 'work orders', or 'leadership update'",
		}
		return resp
	}

	deals = Filter(deals, intent, now)
	workOrders = Filter(workOrders, intent, now)

	if noRelevantData(intent.Category, deals, workOrders) {
		resp.NoData = true
		resp.ExecutiveSummary = "No data available for this query."
		resp.Implications = []string{
			"Broaden the time range or remove filters to include more records",
		}
		return resp
	}

	switch intent.Category {
	case model.CategoryPipelineOverview:
		asm.assemblePipeline(&resp, intent, deals)
	case model.CategoryRevenueForecast:
		asm.assembleRevenue(&resp, deals, workOrders, now)
	case model.CategoryExecutionStatus:
		asm.assembleExecution(&resp, intent, workOrders)
	case model.CategoryLeadershipUpdate:
		asm.assembleLeadership(&resp, intent, deals, workOrders, now)
	}
	return resp
}

// noRelevantData reports whether the boards this category analyzes are all
// empty after filtering.
func noRelevantData(category model.QueryCategory, deals, workOrders []model.NormalizedRecord) bool {
	switch category {
	case model.CategoryPipelineOverview:
		return len(deals) == 0
	case model.CategoryExecutionStatus:
		return len(workOrders) == 0
	default:
		return len(deals) == 0 && len(workOrders) == 0
	}
}

func (asm *Assembler) assemblePipeline(resp *model.Response, intent model.QueryIntent, deals []model.NormalizedRecord) {
	m := asm.pipeline.Analyze(deals)

	scope := "Overall pipeline"
	if sectors := intent.SectorFilter(); len(sectors) == 1 {
		scope = fmt.Sprintf("The %s sector pipeline", sectors[0])
	}
	summary := asm.p.Sprintf("%s contains %d deals worth $%.0f.", scope, m.TotalDeals, m.TotalPipelineValue)
	if m.WinRate != nil {
		summary += fmt.Sprintf(" Current win rate is %.1f%%.", *m.WinRate*100)
	}

	var implications []string
	if m.WinRate != nil && *m.WinRate < asm.cfg.WeakWinRate {
		implications = append(implications, "Low win rate suggests need for better qualification")
	}
	if m.WeightedPipelineValue < m.TotalPipelineValue*0.3 {
		implications = append(implications, "Many deals in early stages - focus on advancing opportunities")
	}
	if len(implications) == 0 {
		implications = append(implications, "Pipeline is progressing well - maintain current sales activities")
	}

	resp.ExecutiveSummary = summary
	resp.KeyMetrics = m.Map()
	resp.Implications = implications
}

func (asm *Assembler) assembleRevenue(resp *model.Response, deals, workOrders []model.NormalizedRecord, now time.Time) {
	pm := asm.pipeline.Analyze(deals)
	rm := asm.revenue.Analyze(deals, workOrders, now)
	em := asm.execution.Analyze(workOrders)

	resp.ExecutiveSummary = asm.p.Sprintf(
		"Revenue position: $%.0f recognized, $%.0f forecasted from the open pipeline.",
		rm.RecognizedRevenue, rm.ForecastedRevenue)
	resp.KeyMetrics = rm.Map()
	resp.KeyMetrics["total_pipeline_value"] = round2(pm.TotalPipelineValue)
	resp.KeyMetrics["weighted_pipeline_value"] = round2(pm.WeightedPipelineValue)
	resp.Implications = []string{
		asm.p.Sprintf("Weighted pipeline of $%.0f provides revenue visibility", pm.WeightedPipelineValue),
	}
	if em.BacklogValue > 0 {
		resp.Implications = append(resp.Implications,
			asm.p.Sprintf("Backlog of $%.0f represents committed work", em.BacklogValue))
	}
}

func (asm *Assembler) assembleExecution(resp *model.Response, intent model.QueryIntent, workOrders []model.NormalizedRecord) {
	m := asm.execution.Analyze(workOrders)

	scope := "Overall execution"
	if sectors := intent.SectorFilter(); len(sectors) == 1 {
		scope = fmt.Sprintf("%s sector execution", sectors[0])
	}
	resp.ExecutiveSummary = fmt.Sprintf("%s: %d work orders, %d completed (%.1f%%), %d in progress.",
		scope, m.TotalWorkOrders, m.CompletedOrders, m.CompletionRate*100, m.InProgressOrders)

	var implications []string
	switch {
	case m.CompletionRate > 0.8:
		implications = append(implications, "Excellent execution efficiency - team is performing well")
	case m.CompletionRate > 0.5:
		implications = append(implications, "Good progress - monitor in-progress items for timely delivery")
	default:
		implications = append(implications, "Execution needs attention - review resource allocation")
	}
	if m.BacklogValue > 0 {
		implications = append(implications, asm.p.Sprintf("$%.0f backlog represents delivery commitment", m.BacklogValue))
	}

	resp.KeyMetrics = m.Map()
	resp.Implications = implications
}

func (asm *Assembler) assembleLeadership(resp *model.Response, intent model.QueryIntent, deals, workOrders []model.NormalizedRecord, now time.Time) {
	s := asm.leadership.Analyze(deals, workOrders, intent.TimeRange, now)

	resp.ExecutiveSummary = asm.p.Sprintf(
		"Pipeline health: %s. Total pipeline: $%.0f across %d deals. Execution: %.1f%% completion rate.",
		s.PipelineHealth, s.Pipeline.TotalPipelineValue, s.Pipeline.TotalDeals, s.Execution.CompletionRate*100)
	resp.KeyMetrics = s.Map()
	resp.Implications = append(append([]string{}, s.Risks...), s.Opportunities...)
}

// capWarnings truncates the warning list for display; the full issue detail
// stays on the report.
func capWarnings(q model.QualityReport, maxWarnings int) model.QualityReport {
	if maxWarnings > 0 && len(q.Warnings) > maxWarnings {
		q.Warnings = q.Warnings[:maxWarnings]
	}
	return q
}
