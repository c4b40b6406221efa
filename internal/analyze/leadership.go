package analyze

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
	"github.com/sells-group/insights-cli/internal/query"
)

// Pipeline health classifications.
const (
	HealthStrong         = "Strong"
	HealthHealthy        = "Healthy"
	HealthNeedsAttention = "Needs Attention"
	HealthNoData         = "No Data"
)

// LeadershipSummary is the composite executive view over all three
// analyzers.
type LeadershipSummary struct {
	Period         string           `json:"period"`
	PipelineHealth string           `json:"pipeline_health"`
	KeyHighlights  []string         `json:"key_highlights"`
	Risks          []string         `json:"risks"`
	Opportunities  []string         `json:"opportunities"`
	Pipeline       PipelineMetrics  `json:"pipeline_metrics"`
	Revenue        RevenueMetrics   `json:"revenue_metrics"`
	Execution      ExecutionMetrics `json:"execution_metrics"`
}

// LeadershipAnalyzer composes the pipeline, revenue, and execution
// analyzers and applies threshold rules for health, risks, and
// opportunities.
type LeadershipAnalyzer struct {
	cfg       config.AnalysisConfig
	pipeline  *PipelineAnalyzer
	revenue   *RevenueAnalyzer
	execution *ExecutionAnalyzer
	p         *message.Printer
}

// NewLeadershipAnalyzer creates a LeadershipAnalyzer.
func NewLeadershipAnalyzer(cfg config.AnalysisConfig) *LeadershipAnalyzer {
	return &LeadershipAnalyzer{
		cfg:       cfg,
		pipeline:  NewPipelineAnalyzer(cfg),
		revenue:   NewRevenueAnalyzer(cfg),
		execution: NewExecutionAnalyzer(cfg),
		p:         message.NewPrinter(language.English),
	}
}

// Analyze runs all three analyzers over the (already sector/time-filtered)
// record sets and derives the executive summary.
func (a *LeadershipAnalyzer) Analyze(deals, workOrders []model.NormalizedRecord, tr model.TimeRange, now time.Time) LeadershipSummary {
	s := LeadershipSummary{
		Period:    query.Label(tr),
		Pipeline:  a.pipeline.Analyze(deals),
		Revenue:   a.revenue.Analyze(deals, workOrders, now),
		Execution: a.execution.Analyze(workOrders),
	}
	s.PipelineHealth = a.assessHealth(s)
	s.KeyHighlights = a.highlights(s)
	s.Risks = a.risks(s)
	s.Opportunities = a.opportunities(s)
	return s
}

// healthRule pairs a predicate with its classification. Rules are evaluated
// in fixed order; the first match wins.
type healthRule struct {
	applies func(a *LeadershipAnalyzer, s LeadershipSummary) bool
	output  string
}

var healthRules = []healthRule{
	{
		applies: func(a *LeadershipAnalyzer, s LeadershipSummary) bool {
			return s.Pipeline.TotalDeals == 0
		},
		output: HealthNoData,
	},
	{
		applies: func(a *LeadershipAnalyzer, s LeadershipSummary) bool {
			return s.Pipeline.WinRate != nil &&
				*s.Pipeline.WinRate >= a.cfg.StrongWinRate &&
				s.Pipeline.WeightedPipelineValue >= a.cfg.PipelineValueFloor
		},
		output: HealthStrong,
	},
	{
		applies: func(a *LeadershipAnalyzer, s LeadershipSummary) bool {
			if s.Pipeline.WinRate != nil && *s.Pipeline.WinRate < a.cfg.WeakWinRate {
				return true
			}
			return s.Execution.OnHoldRatio() > a.cfg.OnHoldRatioCeiling
		},
		output: HealthNeedsAttention,
	},
}

func (a *LeadershipAnalyzer) assessHealth(s LeadershipSummary) string {
	for _, rule := range healthRules {
		if rule.applies(a, s) {
			return rule.output
		}
	}
	return HealthHealthy
}

// highlights builds narrative sentences from the strongest metrics, capped
// at three.
func (a *LeadershipAnalyzer) highlights(s LeadershipSummary) []string {
	var out []string

	if s.Pipeline.TotalDeals > 0 {
		out = append(out, a.p.Sprintf("Pipeline contains %d deals worth $%.0f",
			s.Pipeline.TotalDeals, s.Pipeline.TotalPipelineValue))
	}
	if s.Pipeline.WinRate != nil {
		tone := "challenging"
		switch {
		case *s.Pipeline.WinRate >= a.cfg.StrongWinRate:
			tone = "strong"
		case *s.Pipeline.WinRate >= a.cfg.WeakWinRate:
			tone = "moderate"
		}
		out = append(out, fmt.Sprintf("Win rate of %.1f%% indicates %s sales performance",
			*s.Pipeline.WinRate*100, tone))
	}
	if s.Execution.TotalWorkOrders > 0 && s.Execution.CompletionRate > 0.7 {
		out = append(out, fmt.Sprintf("High execution efficiency with %.1f%% of work orders completed",
			s.Execution.CompletionRate*100))
	}
	if s.Revenue.YTDRevenue > 0 {
		out = append(out, a.p.Sprintf("YTD revenue of $%.0f", s.Revenue.YTDRevenue))
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// riskRule and opportunityRule lists follow the same first-class
// (predicate, statement) shape as healthRules, but all matching entries
// are kept.
func (a *LeadershipAnalyzer) risks(s LeadershipSummary) []string {
	var out []string

	if s.Pipeline.WinRate != nil && *s.Pipeline.WinRate < a.cfg.WeakWinRate {
		out = append(out, "Low win rate may indicate issues with deal qualification or competitive positioning")
	}
	if s.Execution.OnHoldRatio() > a.cfg.OnHoldRatioCeiling {
		out = append(out, fmt.Sprintf("High number of on-hold orders (%d) may indicate delivery challenges",
			s.Execution.OnHoldOrders))
	}
	if s.Pipeline.TotalDeals > 0 && s.Pipeline.TotalPipelineValue < a.cfg.PipelineValueFloor {
		out = append(out, "Pipeline value is below typical targets")
	}

	if len(out) == 0 {
		out = append(out, "No significant risks identified")
	}
	return out
}

func (a *LeadershipAnalyzer) opportunities(s LeadershipSummary) []string {
	var out []string

	if name, slice, ok := topSector(s.Pipeline.SectorBreakdown); ok && slice.Value > 0 {
		out = append(out, a.p.Sprintf("%s sector shows strongest pipeline at $%.0f", name, slice.Value))
	}
	if s.Execution.BacklogValue > 0 {
		out = append(out, a.p.Sprintf("$%.0f in backlog represents near-term revenue opportunity",
			s.Execution.BacklogValue))
	}
	lateStage := s.Pipeline.ValueByStage[normalize.StageProposal] +
		s.Pipeline.ValueByStage[normalize.StageNegotiation]
	if lateStage > 0 {
		out = append(out, a.p.Sprintf("$%.0f in late-stage deals close to closing", lateStage))
	}

	if len(out) == 0 {
		out = append(out, "Continue current growth trajectory")
	}
	return out
}

// topSector picks the sector with the highest value, ties broken by name
// so the choice is deterministic.
func topSector(breakdown map[string]SectorSlice) (string, SectorSlice, bool) {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	var best string
	var bestSlice SectorSlice
	found := false
	for _, name := range names {
		slice := breakdown[name]
		if !found || slice.Value > bestSlice.Value {
			best, bestSlice, found = name, slice, true
		}
	}
	return best, bestSlice, found
}

// Map renders the summary as a flat key_metrics document.
func (s LeadershipSummary) Map() map[string]any {
	return map[string]any{
		"period":            s.Period,
		"pipeline_health":   s.PipelineHealth,
		"key_highlights":    s.KeyHighlights,
		"risks":             s.Risks,
		"opportunities":     s.Opportunities,
		"pipeline_metrics":  s.Pipeline.Map(),
		"revenue_metrics":   s.Revenue.Map(),
		"execution_metrics": s.Execution.Map(),
	}
}
