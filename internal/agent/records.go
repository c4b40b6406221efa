package agent

import (
	"strings"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/pkg/monday"
)

// convertItems maps board items to raw records using the configured
// field-key to column-title mapping. Titles without a mapping are carried
// under a lowercased key so unmapped columns survive for inspection.
func convertItems(items []monday.Item, board model.BoardKind, mapping map[string]string) []model.RawRecord {
	titleToKey := invertMapping(mapping)

	records := make([]model.RawRecord, 0, len(items))
	for _, it := range items {
		columns := make(map[string]any, len(it.Columns))
		for title, value := range it.Columns {
			key, ok := titleToKey[normalizeTitle(title)]
			if !ok {
				key = normalizeTitle(title)
			}
			columns[key] = value
		}
		records = append(records, model.RawRecord{
			ID:      it.ID,
			Name:    it.Name,
			Board:   board,
			Columns: columns,
		})
	}
	return records
}

// invertMapping turns the configured {field key: column title} mapping into
// a case-insensitive title lookup.
func invertMapping(mapping map[string]string) map[string]string {
	inverted := make(map[string]string, len(mapping))
	for key, title := range mapping {
		inverted[normalizeTitle(title)] = key
	}
	return inverted
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
