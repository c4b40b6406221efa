// Package normalize converts raw board column values into canonical typed
// values. Every normalizer is a pure function: it either produces a value or
// a failure marker, and it never fabricates data.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/insights-cli/internal/model"
)

// Result is the outcome of normalizing one raw value. Value is nil when the
// raw value was unusable.
type Result struct {
	Value any
	Valid bool
	Issue model.IssueKind
}

func missing() Result {
	return Result{Issue: model.IssueMissingField}
}

func invalid() Result {
	return Result{Issue: model.IssueInvalidFormat}
}

// Sentinel strings that mean "no value" in board exports.
var nullTokens = map[string]bool{
	"null": true,
	"none": true,
	"n/a":  true,
	"na":   true,
	"-":    true,
	"--":   true,
}

// rawString renders a raw column value as a trimmed string. Returns "" for
// nil and null-equivalent tokens.
func rawString(raw any) string {
	if raw == nil {
		return ""
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		s = fmt.Sprintf("%v", v)
	}
	s = strings.TrimSpace(s)
	if nullTokens[strings.ToLower(s)] {
		return ""
	}
	return s
}

// dateLayouts are tried in order; the first layout that parses wins.
// ISO first, then US before EU for slashed dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"01-02-2006",
}

// Unix epoch values outside this window are treated as malformed rather
// than as dates in the distant past or future.
var (
	epochMin = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	epochMax = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Date normalizes a raw value to a canonical calendar date (midnight UTC).
func Date(raw any) Result {
	// Numeric raw values are unix epoch seconds.
	switch v := raw.(type) {
	case float64:
		return epochDate(int64(v))
	case int:
		return epochDate(int64(v))
	case int64:
		return epochDate(v)
	case time.Time:
		return Result{Value: truncate(v), Valid: true}
	}

	s := rawString(raw)
	if s == "" {
		return missing()
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Result{Value: truncate(t), Valid: true}
		}
	}

	// Epoch seconds arriving as a string.
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return epochDate(secs)
	}

	return invalid()
}

func epochDate(secs int64) Result {
	t := time.Unix(secs, 0).UTC()
	if t.Before(epochMin) || t.After(epochMax) {
		return Result{Issue: model.IssueOutOfRange}
	}
	return Result{Value: truncate(t), Valid: true}
}

func truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var currencyReplacer = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "",
	",", "", " ", "", " ", "",
)

// Numeric normalizes a raw value to a float64, stripping currency symbols
// and thousands separators. Parentheses mean negative: "(1,250)" is -1250.
func Numeric(raw any) Result {
	switch v := raw.(type) {
	case float64:
		return Result{Value: v, Valid: true}
	case int:
		return Result{Value: float64(v), Valid: true}
	case int64:
		return Result{Value: float64(v), Valid: true}
	}

	s := rawString(raw)
	if s == "" {
		return missing()
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.TrimSpace(currencyReplacer.Replace(s))
	if s == "" {
		return invalid()
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return invalid()
	}
	if negative {
		n = -n
	}
	return Result{Value: n, Valid: true}
}

// Text normalizes a free-text field: trims whitespace, treats
// null-equivalent tokens as missing.
func Text(raw any) Result {
	s := rawString(raw)
	if s == "" {
		return missing()
	}
	return Result{Value: s, Valid: true}
}
