// Package query turns a free-text business question into a structured
// intent. Classification is rule-based and fully deterministic: identical
// input text always yields the identical intent.
package query

import (
	"sort"
	"strings"

	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
)

// Config tunes keyword scoring. Weights are configuration, not semantics:
// multi-word phrases are more specific than single tokens, so they count
// more by default.
type Config struct {
	TokenWeight  float64
	PhraseWeight float64
}

// DefaultConfig returns the default scoring weights.
func DefaultConfig() Config {
	return Config{TokenWeight: 1, PhraseWeight: 2}
}

// categoryVocab is the keyword vocabulary for one candidate category.
// Categories are listed in tie-break priority order: a leadership question
// is typically a superset of the narrower ones.
type categoryVocab struct {
	category model.QueryCategory
	terms    []string
}

var categoryVocabs = []categoryVocab{
	{model.CategoryLeadershipUpdate, []string{
		"update", "summary", "report", "overview", "status",
		"leadership", "board", "executive", "kpi", "metrics",
	}},
	{model.CategoryPipelineOverview, []string{
		"pipeline", "deals", "deal", "sales", "opportunities", "forecast",
		"funnel", "prospects", "leads", "win rate", "stage", "closed won", "closed lost",
	}},
	{model.CategoryRevenueForecast, []string{
		"revenue", "income", "earnings", "money", "financial",
		"value", "worth", "amount", "booking", "bookings",
	}},
	{model.CategoryExecutionStatus, []string{
		"work order", "work orders", "project", "projects", "delivery",
		"execution", "operational", "delivered", "completion", "backlog",
	}},
}

// Generic tokens excluded from filter extraction. They are vocabulary
// synonyms ("IT" for Technology, "new" for Lead) but as bare words in a
// question they are almost never a filter.
var filterStopwords = map[string]bool{
	"it":  true,
	"new": true,
}

// Interpreter classifies queries against fixed keyword vocabularies and the
// shared sector/stage/status tables. Stateless; safe for concurrent use.
type Interpreter struct {
	cfg    Config
	vocabs *normalize.Vocabularies
	maxima map[model.QueryCategory]float64
}

// New creates an Interpreter. A nil vocabs falls back to the built-in
// tables.
func New(cfg Config, vocabs *normalize.Vocabularies) *Interpreter {
	if cfg.TokenWeight <= 0 {
		cfg.TokenWeight = 1
	}
	if cfg.PhraseWeight <= 0 {
		cfg.PhraseWeight = cfg.TokenWeight
	}
	if vocabs == nil {
		vocabs = normalize.DefaultVocabularies()
	}
	in := &Interpreter{
		cfg:    cfg,
		vocabs: vocabs,
		maxima: make(map[model.QueryCategory]float64, len(categoryVocabs)),
	}
	for _, cv := range categoryVocabs {
		var total float64
		for _, term := range cv.terms {
			total += in.termWeight(term)
		}
		in.maxima[cv.category] = total
	}
	return in
}

func (in *Interpreter) termWeight(term string) float64 {
	if strings.Contains(term, " ") {
		return in.cfg.PhraseWeight
	}
	return in.cfg.TokenWeight
}

// Interpret classifies a free-text query into an intent.
func (in *Interpreter) Interpret(query string) model.QueryIntent {
	normalized := normalizeQuery(query)

	intent := model.QueryIntent{
		Query:     query,
		Category:  model.CategoryUnknown,
		TimeRange: extractTimeRange(normalized),
		Filters:   in.extractFilters(normalized),
	}

	var best float64
	// Slice order is the tie-break: strictly-better scores win, equal
	// scores keep the earlier (higher-priority) category.
	for _, cv := range categoryVocabs {
		var score float64
		for _, term := range cv.terms {
			if containsTerm(normalized, term) {
				score += in.termWeight(term)
			}
		}
		if score > best {
			best = score
			intent.Category = cv.category
			intent.Confidence = clamp01(score / in.maxima[cv.category])
		}
	}
	if best == 0 {
		intent.Category = model.CategoryUnknown
		intent.Confidence = 0
	}
	return intent
}

// extractFilters scans the query for sector, stage, and status vocabulary
// terms. Multiple mentions of one dimension accumulate as a sorted set.
func (in *Interpreter) extractFilters(normalized string) map[string][]string {
	filters := make(map[string][]string)
	scan := func(dimension string, v *normalize.Vocabulary) {
		matched := make(map[string]bool)
		for _, canonical := range v.Canonical() {
			if vocabMentioned(normalized, v, canonical) {
				matched[canonical] = true
			}
		}
		if len(matched) == 0 {
			return
		}
		values := make([]string, 0, len(matched))
		for c := range matched {
			values = append(values, c)
		}
		sort.Strings(values)
		filters[dimension] = values
	}

	scan(model.DimensionSector, in.vocabs.Sectors)
	scan(model.DimensionStage, in.vocabs.Stages)
	scan(model.DimensionStatus, in.vocabs.Statuses)

	if len(filters) == 0 {
		return nil
	}
	return filters
}

// vocabMentioned reports whether the canonical bucket or any of its
// synonyms appears in the query.
func vocabMentioned(normalized string, v *normalize.Vocabulary, canonical string) bool {
	for _, syn := range v.Synonyms(canonical) {
		if filterStopwords[syn] {
			continue
		}
		if containsTerm(normalized, syn) {
			return true
		}
	}
	return false
}

// normalizeQuery lowercases and collapses punctuation so term matching can
// work on whole words.
func normalizeQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range strings.ToLower(q) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// containsTerm reports whether term occurs as a whole word (or whole
// phrase) in the normalized query.
func containsTerm(normalized, term string) bool {
	term = normalizeQuery(term)
	if term == "" {
		return false
	}
	return strings.Contains(" "+normalized+" ", " "+term+" ")
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
