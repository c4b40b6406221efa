package analyze

import (
	"time"

	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
)

var testNow = time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		StageWeights: map[string]float64{
			"Lead":        0.10,
			"Qualified":   0.25,
			"Proposal":    0.50,
			"Negotiation": 0.75,
			"Closed Won":  1.00,
			"Closed Lost": 0.00,
		},
		StrongWinRate:      0.40,
		WeakWinRate:        0.20,
		OnHoldRatioCeiling: 0.20,
		PipelineValueFloor: 500000,
		MaxWarnings:        5,
	}
}

func field(value any) model.FieldValue {
	return model.FieldValue{Value: value, Valid: true}
}

func badField(issue model.IssueKind) model.FieldValue {
	return model.FieldValue{Valid: false, Issue: issue}
}

type dealSpec struct {
	id     string
	amount any // float64, or model.FieldValue for invalid fields
	stage  string
	sector string
	close  time.Time
}

func deal(spec dealSpec) model.NormalizedRecord {
	rec := model.NormalizedRecord{
		ID:     spec.id,
		Board:  model.BoardDeals,
		Fields: map[string]model.FieldValue{},
	}
	switch v := spec.amount.(type) {
	case float64:
		rec.Fields[model.FieldAmount] = field(v)
	case model.FieldValue:
		rec.Fields[model.FieldAmount] = v
	}
	if spec.stage != "" {
		rec.Fields[model.FieldStage] = field(model.Category{Name: spec.stage, Mapped: spec.stage != "Unknown"})
	}
	if spec.sector != "" {
		rec.Fields[model.FieldSector] = field(model.Category{Name: spec.sector, Mapped: spec.sector != "Unknown"})
	}
	if !spec.close.IsZero() {
		rec.Fields[model.FieldCloseDate] = field(spec.close)
	}
	return rec
}

type workOrderSpec struct {
	id      string
	revenue any
	status  string
	sector  string
	start   time.Time
}

func workOrder(spec workOrderSpec) model.NormalizedRecord {
	rec := model.NormalizedRecord{
		ID:     spec.id,
		Board:  model.BoardWorkOrders,
		Fields: map[string]model.FieldValue{},
	}
	switch v := spec.revenue.(type) {
	case float64:
		rec.Fields[model.FieldRevenue] = field(v)
	case model.FieldValue:
		rec.Fields[model.FieldRevenue] = v
	}
	if spec.status != "" {
		rec.Fields[model.FieldStatus] = field(model.Category{Name: spec.status, Mapped: spec.status != "Unknown"})
	}
	if spec.sector != "" {
		rec.Fields[model.FieldSector] = field(model.Category{Name: spec.sector, Mapped: spec.sector != "Unknown"})
	}
	if !spec.start.IsZero() {
		rec.Fields[model.FieldStartDate] = field(spec.start)
	}
	return rec
}
