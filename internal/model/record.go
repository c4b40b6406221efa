package model

import "time"

// BoardKind identifies which external board a record came from.
type BoardKind string

const (
	BoardDeals      BoardKind = "deals"
	BoardWorkOrders BoardKind = "work_orders"
)

// Tracked field keys. Column titles on the boards map onto these via
// config.ColumnsConfig.
const (
	FieldAmount         = "amount"
	FieldStage          = "stage"
	FieldSector         = "sector"
	FieldCloseDate      = "close_date"
	FieldOwner          = "owner"
	FieldRevenue        = "revenue"
	FieldStatus         = "status"
	FieldStartDate      = "start_date"
	FieldEndDate        = "end_date"
	FieldProjectManager = "project_manager"
)

// RawRecord is one board item exactly as fetched: column title to untyped
// value (string, number, or nil). Never mutated after fetch.
type RawRecord struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Board   BoardKind      `json:"board"`
	Columns map[string]any `json:"columns"`
}

// IssueKind classifies a single normalization failure.
type IssueKind string

const (
	IssueMissingField     IssueKind = "missing_field"
	IssueInvalidFormat    IssueKind = "invalid_format"
	IssueOutOfRange       IssueKind = "out_of_range"
	IssueUnmappedCategory IssueKind = "unmapped_category"
)

// Category is a canonical vocabulary bucket. Unmapped values land in the
// "Unknown" bucket with Mapped=false — still usable, just not recognized.
type Category struct {
	Name   string `json:"name"`
	Mapped bool   `json:"mapped"`
}

// FieldValue holds one normalized field alongside its raw origin. Value is
// nil when normalization failed; the raw value is always retained for audit.
// Value holds a time.Time, float64, string, or Category depending on the
// field's semantic type.
type FieldValue struct {
	Raw   any       `json:"raw"`
	Value any       `json:"value,omitempty"`
	Valid bool      `json:"valid"`
	Issue IssueKind `json:"issue,omitempty"`
}

// NormalizedRecord is derived from exactly one RawRecord. Records are kept
// even when fields fail validation; invalid fields are simply excluded from
// aggregates.
type NormalizedRecord struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Board  BoardKind             `json:"board"`
	Fields map[string]FieldValue `json:"fields"`
}

// Number returns the field's numeric value if it normalized cleanly.
func (r *NormalizedRecord) Number(field string) (float64, bool) {
	fv, ok := r.Fields[field]
	if !ok || !fv.Valid {
		return 0, false
	}
	n, ok := fv.Value.(float64)
	return n, ok
}

// Date returns the field's canonical calendar date if it normalized cleanly.
func (r *NormalizedRecord) Date(field string) (time.Time, bool) {
	fv, ok := r.Fields[field]
	if !ok || !fv.Valid {
		return time.Time{}, false
	}
	t, ok := fv.Value.(time.Time)
	return t, ok
}

// Category returns the field's vocabulary bucket if the field is usable.
// Unmapped-but-valid values come back as the "Unknown" bucket.
func (r *NormalizedRecord) Category(field string) (Category, bool) {
	fv, ok := r.Fields[field]
	if !ok || !fv.Valid {
		return Category{}, false
	}
	c, ok := fv.Value.(Category)
	return c, ok
}

// Text returns the field's trimmed text value if it normalized cleanly.
func (r *NormalizedRecord) Text(field string) (string, bool) {
	fv, ok := r.Fields[field]
	if !ok || !fv.Valid {
		return "", false
	}
	s, ok := fv.Value.(string)
	return s, ok
}

// FieldValid reports whether the named field normalized cleanly.
func (r *NormalizedRecord) FieldValid(field string) bool {
	fv, ok := r.Fields[field]
	return ok && fv.Valid
}

// ValidationIssue records one normalization failure or unmapped category
// against a specific record and field.
type ValidationIssue struct {
	RecordID string    `json:"record_id"`
	Field    string    `json:"field"`
	Kind     IssueKind `json:"kind"`
	Detail   string    `json:"detail,omitempty"`
}
