// Package validate runs the field normalizers across a batch of raw board
// records and produces normalized records plus a data quality report.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

// boardFields lists the tracked fields per board schema.
var boardFields = map[model.BoardKind][]string{
	model.BoardDeals: {
		model.FieldAmount,
		model.FieldStage,
		model.FieldSector,
		model.FieldCloseDate,
		model.FieldOwner,
	},
	model.BoardWorkOrders: {
		model.FieldRevenue,
		model.FieldStatus,
		model.FieldSector,
		model.FieldStartDate,
		model.FieldEndDate,
		model.FieldProjectManager,
	},
}

// Validator normalizes raw records against the configured vocabularies.
// Stateless across calls; safe for concurrent use.
type Validator struct {
	vocabs *normalize.Vocabularies
}

// New creates a Validator. A nil vocabs falls back to the built-in tables.
func New(vocabs *normalize.Vocabularies) *Validator {
	if vocabs == nil {
		vocabs = normalize.DefaultVocabularies()
	}
	return &Validator{vocabs: vocabs}
}

// Validate normalizes every record in the batch. A record counts as valid
// when every field in required normalized cleanly; fields outside required
// never affect overall validity. Malformed records are reported, never
// dropped, and never abort the batch.
func (v *Validator) Validate(records []model.RawRecord, required []string) ([]model.NormalizedRecord, model.QualityReport) {
	normalized := make([]model.NormalizedRecord, 0, len(records))
	var issues []model.ValidationIssue
	valid := 0

	for _, raw := range records {
		rec, recIssues := v.normalizeRecord(raw)
		issues = append(issues, recIssues...)
		normalized = append(normalized, rec)

		ok := len(raw.Columns) > 0
		for _, f := range required {
			if !rec.FieldValid(f) {
				ok = false
				break
			}
		}
		if ok {
			valid++
		}
	}

	report := model.QualityReport{
		TotalRecords: len(records),
		ValidRecords: valid,
		Warnings:     renderWarnings(issues),
		Issues:       issues,
	}
	if report.TotalRecords > 0 {
		report.ConfidenceScore = 100 * float64(valid) / float64(len(records))
	} else {
		// No data is not the same as bad data; the assembler reports the
		// empty batch separately.
		report.ConfidenceScore = 100
	}
	return normalized, report
}

// normalizeRecord runs the appropriate normalizer for each tracked field.
func (v *Validator) normalizeRecord(raw model.RawRecord) (model.NormalizedRecord, []model.ValidationIssue) {
	rec := model.NormalizedRecord{
		ID:     raw.ID,
		Name:   raw.Name,
		Board:  raw.Board,
		Fields: make(map[string]model.FieldValue),
	}

	if len(raw.Columns) == 0 {
		return rec, []model.ValidationIssue{{
			RecordID: raw.ID,
			Field:    "record",
			Kind:     model.IssueInvalidFormat,
			Detail:   "record has no readable columns",
		}}
	}

	var issues []model.ValidationIssue
	for _, field := range boardFields[raw.Board] {
		rawVal := raw.Columns[field]
		res := v.normalizeField(field, rawVal)

		rec.Fields[field] = model.FieldValue{
			Raw:   rawVal,
			Value: res.Value,
			Valid: res.Valid,
			Issue: res.Issue,
		}
		if res.Issue != "" {
			issues = append(issues, model.ValidationIssue{
				RecordID: raw.ID,
				Field:    field,
				Kind:     res.Issue,
				Detail:   fmt.Sprintf("%v", rawVal),
			})
		}
	}
	return rec, issues
}

func (v *Validator) normalizeField(field string, raw any) normalize.Result {
	switch {
	case strings.Contains(field, "date"):
		return normalize.Date(raw)
	case field == model.FieldAmount || field == model.FieldRevenue:
		return normalize.Numeric(raw)
	case field == model.FieldSector:
		return v.vocabs.Sectors.Normalize(raw)
	case field == model.FieldStage:
		return v.vocabs.Stages.Normalize(raw)
	case field == model.FieldStatus:
		return v.vocabs.Statuses.Normalize(raw)
	default:
		return normalize.Text(raw)
	}
}

// RequiredFields returns the fields an analysis category needs per board.
// Time-filtered queries additionally require the board's date field; the
// agent appends that.
func RequiredFields(category model.QueryCategory, board model.BoardKind) []string {
	switch board {
	case model.BoardDeals:
		switch category {
		case model.CategoryPipelineOverview, model.CategoryRevenueForecast, model.CategoryLeadershipUpdate:
			return []string{model.FieldAmount, model.FieldStage}
		}
	case model.BoardWorkOrders:
		switch category {
		case model.CategoryExecutionStatus:
			return []string{model.FieldStatus}
		case model.CategoryRevenueForecast, model.CategoryLeadershipUpdate:
			return []string{model.FieldRevenue, model.FieldStatus}
		}
	}
	return nil
}

type issueGroup struct {
	field string
	kind  model.IssueKind
	count int
}

// renderWarnings groups issues by (field, kind) and renders human-readable
// counts, largest group first, ties broken by field name then kind.
func renderWarnings(issues []model.ValidationIssue) []string {
	counts := make(map[[2]string]int)
	for _, is := range issues {
		counts[[2]string{is.Field, string(is.Kind)}]++
	}

	groups := make([]issueGroup, 0, len(counts))
	for key, n := range counts {
		groups = append(groups, issueGroup{field: key[0], kind: model.IssueKind(key[1]), count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		if groups[i].field != groups[j].field {
			return groups[i].field < groups[j].field
		}
		return groups[i].kind < groups[j].kind
	})

	warnings := make([]string, 0, len(groups))
	for _, g := range groups {
		warnings = append(warnings, renderWarning(g))
	}
	return warnings
}

func renderWarning(g issueGroup) string {
	noun, verb := "records", "have"
	if g.count == 1 {
		noun, verb = "record", "has"
	}
	switch g.kind {
	case model.IssueMissingField:
		return fmt.Sprintf("%d %s missing '%s' field", g.count, noun, g.field)
	case model.IssueInvalidFormat:
		if g.field == "record" {
			return fmt.Sprintf("%d unreadable %s", g.count, noun)
		}
		return fmt.Sprintf("%d %s %s unparseable '%s' values", g.count, noun, verb, g.field)
	case model.IssueOutOfRange:
		return fmt.Sprintf("%d %s %s out-of-range '%s' values", g.count, noun, verb, g.field)
	case model.IssueUnmappedCategory:
		return fmt.Sprintf("%d %s %s unrecognized '%s' values, bucketed as %s", g.count, noun, verb, g.field, normalize.UnknownBucket)
	default:
		return fmt.Sprintf("%d %s %s '%s' issues", g.count, noun, verb, g.field)
	}
}
