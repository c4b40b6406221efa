package analyze

import (
	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

// fallbackStageWeight discounts deals whose stage landed in the Unknown
// bucket; treated like an early-stage lead.
const fallbackStageWeight = 0.10

// SectorSlice is one sector's share of a breakdown.
type SectorSlice struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// PipelineMetrics summarizes the deals board.
type PipelineMetrics struct {
	TotalDeals            int                    `json:"total_deals"`
	TotalPipelineValue    float64                `json:"total_pipeline_value"`
	WeightedPipelineValue float64                `json:"weighted_pipeline_value"`
	AvgDealSize           float64                `json:"avg_deal_size"`
	DealsByStage          map[string]int         `json:"deals_by_stage"`
	StagePercentages      map[string]float64     `json:"stage_percentages"`
	ValueByStage          map[string]float64     `json:"value_by_stage"`
	WinRate               *float64               `json:"win_rate"`
	ConversionRate        *float64               `json:"conversion_rate"`
	SectorBreakdown       map[string]SectorSlice `json:"sector_breakdown"`
}

// PipelineAnalyzer computes deal pipeline metrics.
type PipelineAnalyzer struct {
	cfg config.AnalysisConfig
}

// NewPipelineAnalyzer creates a PipelineAnalyzer.
func NewPipelineAnalyzer(cfg config.AnalysisConfig) *PipelineAnalyzer {
	return &PipelineAnalyzer{cfg: cfg}
}

func (a *PipelineAnalyzer) stageWeight(stage string) float64 {
	if w, ok := a.cfg.StageWeights[stage]; ok {
		return w
	}
	return fallbackStageWeight
}

// Analyze computes pipeline metrics over an already-filtered deal set.
// Only values from valid fields enter any aggregate; record order never
// affects the result.
func (a *PipelineAnalyzer) Analyze(deals []model.NormalizedRecord) PipelineMetrics {
	m := PipelineMetrics{
		TotalDeals:       len(deals),
		DealsByStage:     map[string]int{},
		StagePercentages: map[string]float64{},
		ValueByStage:     map[string]float64{},
		SectorBreakdown:  map[string]SectorSlice{},
	}

	var amountCount, staged, won, lost, qualifiedOrLater int
	for _, d := range deals {
		amount, hasAmount := d.Number(model.FieldAmount)
		stage, hasStage := d.Category(model.FieldStage)

		if hasAmount {
			m.TotalPipelineValue += amount
			amountCount++
		}
		if hasStage {
			staged++
			m.DealsByStage[stage.Name]++
			switch stage.Name {
			case normalize.StageClosedWon:
				won++
				qualifiedOrLater++
			case normalize.StageClosedLost:
				lost++
			case normalize.StageQualified, normalize.StageProposal, normalize.StageNegotiation:
				qualifiedOrLater++
			}
			if hasAmount {
				m.WeightedPipelineValue += amount * a.stageWeight(stage.Name)
				m.ValueByStage[stage.Name] += amount
			}
		}

		sectorName := normalize.UnknownBucket
		if sector, ok := d.Category(model.FieldSector); ok {
			sectorName = sector.Name
		}
		slice := m.SectorBreakdown[sectorName]
		slice.Count++
		if hasAmount {
			slice.Value += amount
		}
		m.SectorBreakdown[sectorName] = slice
	}

	if amountCount > 0 {
		m.AvgDealSize = m.TotalPipelineValue / float64(amountCount)
	}
	for stage, n := range m.DealsByStage {
		m.StagePercentages[stage] = 100 * float64(n) / float64(staged)
	}
	m.WinRate = ratio(float64(won), float64(won+lost))
	m.ConversionRate = ratio(float64(won), float64(qualifiedOrLater))

	return m
}

// OpenWeightedValue is the weighted pipeline value restricted to open
// stages — the deals-side revenue forecast.
func (a *PipelineAnalyzer) OpenWeightedValue(deals []model.NormalizedRecord) float64 {
	var total float64
	for _, d := range deals {
		amount, hasAmount := d.Number(model.FieldAmount)
		stage, hasStage := d.Category(model.FieldStage)
		if !hasAmount || !hasStage {
			continue
		}
		if stage.Name == normalize.StageClosedWon || stage.Name == normalize.StageClosedLost {
			continue
		}
		total += amount * a.stageWeight(stage.Name)
	}
	return total
}

// Map renders the metrics as a flat key_metrics document.
func (m PipelineMetrics) Map() map[string]any {
	return map[string]any{
		"total_deals":             m.TotalDeals,
		"total_pipeline_value":    round2(m.TotalPipelineValue),
		"weighted_pipeline_value": round2(m.WeightedPipelineValue),
		"avg_deal_size":           round2(m.AvgDealSize),
		"deals_by_stage":          m.DealsByStage,
		"stage_percentages":       roundMap(m.StagePercentages),
		"value_by_stage":          roundMap(m.ValueByStage),
		"win_rate":                roundRate(m.WinRate),
		"conversion_rate":         roundRate(m.ConversionRate),
		"sector_breakdown":        m.SectorBreakdown,
	}
}

func roundMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = round2(v)
	}
	return out
}

// roundRate rounds a nullable rate to four decimal places, preserving nil.
func roundRate(r *float64) any {
	if r == nil {
		return nil
	}
	return round4(*r)
}

func round4(f float64) float64 {
	return round2(f*100) / 100
}
