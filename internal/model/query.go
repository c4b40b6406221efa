package model

// QueryCategory is the classified purpose of a natural-language query.
type QueryCategory string

const (
	CategoryPipelineOverview QueryCategory = "pipeline_overview"
	CategoryRevenueForecast  QueryCategory = "revenue_forecast"
	CategoryExecutionStatus  QueryCategory = "execution_status"
	CategoryLeadershipUpdate QueryCategory = "leadership_update"
	CategoryUnknown          QueryCategory = "unknown"
)

// TimeRange is a coarse time filter extracted from the query text.
type TimeRange string

const (
	RangeThisQuarter TimeRange = "this_quarter"
	RangeNextQuarter TimeRange = "next_quarter"
	RangeLastQuarter TimeRange = "last_quarter"
	RangeThisYear    TimeRange = "this_year"
	RangeLast30Days  TimeRange = "last_30_days"
	RangeLast90Days  TimeRange = "last_90_days"
	RangeAllTime     TimeRange = "all_time"
)

// Filter dimensions recognized by the interpreter.
const (
	DimensionSector = "sector"
	DimensionStage  = "stage"
	DimensionStatus = "status"
)

// QueryIntent is the structured interpretation of a free-text question.
// Filters map a dimension to the set of canonical values mentioned in the
// query, sorted for determinism.
type QueryIntent struct {
	Query      string              `json:"query"`
	Category   QueryCategory       `json:"category"`
	TimeRange  TimeRange           `json:"time_range"`
	Filters    map[string][]string `json:"filters,omitempty"`
	Confidence float64             `json:"confidence"`
}

// SectorFilter returns the sector filter values, or nil when unfiltered.
func (qi *QueryIntent) SectorFilter() []string {
	return qi.Filters[DimensionSector]
}
