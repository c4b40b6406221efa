// Package export renders analysis responses to spreadsheet workbooks for
// hand-off outside the CLI.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/insights-cli/internal/model"
)

// WriteXLSX writes one response to an .xlsx workbook at path. The workbook
// carries a summary sheet, a flattened metrics sheet, and a data-quality
// sheet.
func WriteXLSX(resp *model.Response, path string) error {
	f := xlsx.NewFile()

	if err := writeSummarySheet(f, resp); err != nil {
		return err
	}
	if err := writeMetricsSheet(f, resp); err != nil {
		return err
	}
	if err := writeQualitySheet(f, resp); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func writeSummarySheet(f *xlsx.File, resp *model.Response) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	addPair(sheet, "Response ID", resp.ID)
	addPair(sheet, "Query", resp.Query)
	addPair(sheet, "Category", string(resp.Intent.Category))
	addPair(sheet, "Time Range", string(resp.Intent.TimeRange))
	sheet.AddRow()
	addPair(sheet, "Executive Summary", resp.ExecutiveSummary)

	if len(resp.Implications) > 0 {
		sheet.AddRow()
		header := sheet.AddRow()
		header.AddCell().SetString("Implications")
		for _, imp := range resp.Implications {
			row := sheet.AddRow()
			row.AddCell().SetString("")
			row.AddCell().SetString(imp)
		}
	}
	return nil
}

func writeMetricsSheet(f *xlsx.File, resp *model.Response) error {
	sheet, err := f.AddSheet("Metrics")
	if err != nil {
		return eris.Wrap(err, "export: add metrics sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Metric")
	header.AddCell().SetString("Value")

	for _, key := range sortedKeys(resp.KeyMetrics) {
		writeMetric(sheet, metricLabel(key), resp.KeyMetrics[key], 0)
	}
	return nil
}

// writeMetric writes one metric row, expanding map and slice values into
// indented sub-rows. Nesting past two levels is not expected.
func writeMetric(sheet *xlsx.Sheet, label string, value any, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v := value.(type) {
	case map[string]float64:
		row := sheet.AddRow()
		row.AddCell().SetString(indent + label)
		for _, sub := range sortedFloatKeys(v) {
			subRow := sheet.AddRow()
			subRow.AddCell().SetString(indent + "  " + sub)
			subRow.AddCell().SetFloat(v[sub])
		}
	case map[string]int:
		row := sheet.AddRow()
		row.AddCell().SetString(indent + label)
		for _, sub := range sortedIntKeys(v) {
			subRow := sheet.AddRow()
			subRow.AddCell().SetString(indent + "  " + sub)
			subRow.AddCell().SetInt(v[sub])
		}
	case map[string]any:
		row := sheet.AddRow()
		row.AddCell().SetString(indent + label)
		for _, sub := range sortedKeys(v) {
			writeMetric(sheet, metricLabel(sub), v[sub], depth+1)
		}
	case []string:
		row := sheet.AddRow()
		row.AddCell().SetString(indent + label)
		for _, item := range v {
			subRow := sheet.AddRow()
			subRow.AddCell().SetString(indent + "  ")
			subRow.AddCell().SetString(item)
		}
	default:
		row := sheet.AddRow()
		row.AddCell().SetString(indent + label)
		setMetricCell(row.AddCell(), v)
	}
}

func writeQualitySheet(f *xlsx.File, resp *model.Response) error {
	sheet, err := f.AddSheet("Data Quality")
	if err != nil {
		return eris.Wrap(err, "export: add quality sheet")
	}

	q := resp.DataQuality
	addPair(sheet, "Confidence Score", fmt.Sprintf("%.1f", q.ConfidenceScore))
	addPair(sheet, "Total Records", fmt.Sprintf("%d", q.TotalRecords))
	addPair(sheet, "Valid Records", fmt.Sprintf("%d", q.ValidRecords))

	if len(q.Warnings) > 0 {
		sheet.AddRow()
		header := sheet.AddRow()
		header.AddCell().SetString("Warnings")
		for _, w := range q.Warnings {
			row := sheet.AddRow()
			row.AddCell().SetString("")
			row.AddCell().SetString(w)
		}
	}
	return nil
}

func addPair(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

// setMetricCell writes a metric value with a type appropriate for the cell.
// Nested maps are flattened upstream; anything unexpected falls back to its
// string form.
func setMetricCell(cell *xlsx.Cell, value any) {
	switch v := value.(type) {
	case float64:
		cell.SetFloat(v)
	case int:
		cell.SetInt(v)
	case string:
		cell.SetString(v)
	case nil:
		cell.SetString("n/a")
	default:
		cell.SetString(fmt.Sprintf("%v", v))
	}
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFloatKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// metricLabel turns a snake_case metric key into a readable label.
func metricLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
