package model

// QualityReport aggregates validation results over one batch. Computed
// fresh per query, never persisted.
type QualityReport struct {
	ConfidenceScore float64           `json:"confidence_score"`
	TotalRecords    int               `json:"total_records"`
	ValidRecords    int               `json:"valid_records"`
	Warnings        []string          `json:"warnings"`
	Issues          []ValidationIssue `json:"issues,omitempty"`
}

// Merge combines two per-board reports into one batch-wide report. The
// confidence score is recomputed from the combined counts.
func (q QualityReport) Merge(other QualityReport) QualityReport {
	merged := QualityReport{
		TotalRecords: q.TotalRecords + other.TotalRecords,
		ValidRecords: q.ValidRecords + other.ValidRecords,
		Warnings:     append(append([]string{}, q.Warnings...), other.Warnings...),
		Issues:       append(append([]ValidationIssue{}, q.Issues...), other.Issues...),
	}
	if merged.TotalRecords > 0 {
		merged.ConfidenceScore = 100 * float64(merged.ValidRecords) / float64(merged.TotalRecords)
	} else {
		merged.ConfidenceScore = 100
	}
	return merged
}
