package normalize

import (
	"sort"
	"strings"

	"github.com/sells-group/insights-cli/internal/model"
)

// UnknownBucket is the canonical category for values that matched no
// vocabulary entry. Unmapped is not invalid: the record stays usable and
// distribution metrics still count it.
const UnknownBucket = "Unknown"

// Vocabulary maps raw category strings to a canonical bucket via a synonym
// table. Lookup is case-insensitive and deterministic. Vocabularies are
// built once at startup and never mutated, so concurrent use needs no
// locking.
type Vocabulary struct {
	canonical []string
	synonyms  map[string]string
	ordered   []string // synonyms, longest first, for phrase scanning
}

// NewVocabulary builds a vocabulary from canonical name to synonym list.
// Each canonical name is also its own synonym.
func NewVocabulary(table map[string][]string) *Vocabulary {
	v := &Vocabulary{synonyms: make(map[string]string)}
	for canonical := range table {
		v.canonical = append(v.canonical, canonical)
	}
	sort.Strings(v.canonical)
	for _, canonical := range v.canonical {
		v.add(canonical, canonical)
		for _, syn := range table[canonical] {
			v.add(canonical, syn)
		}
	}
	for syn := range v.synonyms {
		v.ordered = append(v.ordered, syn)
	}
	sort.Slice(v.ordered, func(i, j int) bool {
		if len(v.ordered[i]) != len(v.ordered[j]) {
			return len(v.ordered[i]) > len(v.ordered[j])
		}
		return v.ordered[i] < v.ordered[j]
	})
	return v
}

func (v *Vocabulary) add(canonical, syn string) {
	syn = strings.ToLower(strings.TrimSpace(syn))
	if syn == "" {
		return
	}
	if _, exists := v.synonyms[syn]; !exists {
		v.synonyms[syn] = canonical
	}
}

// Canonical returns the canonical bucket names in sorted order, without
// the Unknown bucket.
func (v *Vocabulary) Canonical() []string {
	out := make([]string, len(v.canonical))
	copy(out, v.canonical)
	return out
}

// Synonyms returns every synonym (including the canonical name itself, in
// lowercase) that resolves to the given bucket, sorted.
func (v *Vocabulary) Synonyms(canonical string) []string {
	var out []string
	for syn, c := range v.synonyms {
		if c == canonical {
			out = append(out, syn)
		}
	}
	sort.Strings(out)
	return out
}

// Match resolves a lowercase-trimmed string to a canonical bucket. An exact
// synonym match wins; otherwise the longest synonym appearing as a whole
// word inside the string wins.
func (v *Vocabulary) Match(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if c, ok := v.synonyms[s]; ok {
		return c, true
	}
	padded := " " + s + " "
	for _, syn := range v.ordered {
		if strings.Contains(padded, " "+syn+" ") {
			return v.synonyms[syn], true
		}
	}
	return "", false
}

// Normalize maps a raw value onto the vocabulary. No match buckets to
// Unknown with an UnmappedCategory issue but stays valid.
func (v *Vocabulary) Normalize(raw any) Result {
	s := rawString(raw)
	if s == "" {
		return missing()
	}
	if canonical, ok := v.Match(s); ok {
		return Result{Value: model.Category{Name: canonical, Mapped: true}, Valid: true}
	}
	return Result{
		Value: model.Category{Name: UnknownBucket},
		Valid: true,
		Issue: model.IssueUnmappedCategory,
	}
}

// Canonical pipeline stages for deals.
const (
	StageLead        = "Lead"
	StageQualified   = "Qualified"
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageClosedWon   = "Closed Won"
	StageClosedLost  = "Closed Lost"
)

// Canonical work order statuses.
const (
	StatusPlanning   = "Planning"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
	StatusCancelled  = "Cancelled"
)

// DefaultSectors returns the built-in sector vocabulary.
func DefaultSectors() *Vocabulary {
	return NewVocabulary(map[string][]string{
		"Energy":        {"power", "utilities", "oil", "gas", "renewable"},
		"Technology":    {"tech", "software", "it", "digital", "saas"},
		"Healthcare":    {"health", "medical", "pharma", "biotech"},
		"Finance":       {"financial", "banking", "fintech", "insurance"},
		"Manufacturing": {"industrial", "production", "factory"},
		"Retail":        {"ecommerce", "e-commerce", "consumer"},
		"Education":     {"edtech", "learning", "training"},
		"Government":    {"public sector", "govt", "municipal"},
	})
}

// DefaultStages returns the built-in deal stage vocabulary.
func DefaultStages() *Vocabulary {
	return NewVocabulary(map[string][]string{
		StageLead:        {"prospect", "new"},
		StageQualified:   {"qualification"},
		StageProposal:    {"quoted", "quote"},
		StageNegotiation: {"negotiating"},
		StageClosedWon:   {"won", "closed-won", "deal won"},
		StageClosedLost:  {"lost", "closed-lost", "deal lost"},
	})
}

// DefaultStatuses returns the built-in work order status vocabulary.
func DefaultStatuses() *Vocabulary {
	return NewVocabulary(map[string][]string{
		StatusPlanning:   {"planned"},
		StatusInProgress: {"active", "ongoing", "started"},
		StatusCompleted:  {"done", "finished", "complete"},
		StatusOnHold:     {"hold", "paused"},
		StatusCancelled:  {"canceled"},
	})
}
