package model

// AnalysisResult is one analyzer's contribution to a response: a narrative
// fragment plus named metrics.
type AnalysisResult struct {
	ExecutiveSummary string         `json:"executive_summary"`
	KeyMetrics       map[string]any `json:"key_metrics"`
	Implications     []string       `json:"implications"`
}

// Response is the final structured answer to one query.
type Response struct {
	ID               string         `json:"id"`
	Query            string         `json:"query"`
	Intent           QueryIntent    `json:"intent"`
	ExecutiveSummary string         `json:"executive_summary"`
	KeyMetrics       map[string]any `json:"key_metrics"`
	DataQuality      QualityReport  `json:"data_quality"`
	Implications     []string       `json:"implications"`
	NoData           bool           `json:"no_data,omitempty"`
}
