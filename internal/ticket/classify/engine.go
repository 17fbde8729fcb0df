package classify

import (
	"fmt"
	"math"
	"strings"

	"ticket-workers/internal/models"
)

const (
	// fallbackConfidence is reported when no keyword of a table matched.
	fallbackConfidence = 0.3

	categoryMatchesForFullConfidence = 3
	priorityMatchesForFullConfidence = 2
)

// Engine scores ticket text against an immutable keyword table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table KeywordTable
}

func NewEngine(table KeywordTable) *Engine {
	return &Engine{table: table.clone()}
}

// NewDefaultEngine builds an engine over DefaultKeywordTable.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultKeywordTable())
}

type match[T ~string] struct {
	label    T
	keywords []string
}

// bestMatch returns the first rule with the strictly highest number of
// keywords contained in content, or fallback when nothing matches.
func bestMatch[T ~string](content string, rules []Rule[T], fallback T) match[T] {
	best := match[T]{label: fallback}
	for _, rule := range rules {
		var hits []string
		for _, kw := range rule.Keywords {
			if strings.Contains(content, strings.ToLower(kw)) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > len(best.keywords) {
			best = match[T]{label: rule.Label, keywords: hits}
		}
	}
	return best
}

func confidence(matches, forFull int) float64 {
	if matches == 0 {
		return fallbackConfidence
	}
	return math.Min(1.0, float64(matches)/float64(forFull))
}

// Classify suggests a category and priority for the given ticket text.
func (e *Engine) Classify(subject, description string) models.ClassificationResult {
	content := strings.ToLower(subject + " " + description)

	cat := bestMatch(content, e.table.Categories, models.CategoryOther)
	pri := bestMatch(content, e.table.Priorities, models.PriorityMedium)

	catConf := confidence(len(cat.keywords), categoryMatchesForFullConfidence)
	priConf := confidence(len(pri.keywords), priorityMatchesForFullConfidence)

	keywords := make([]string, 0, len(cat.keywords)+len(pri.keywords))
	keywords = append(keywords, cat.keywords...)
	keywords = append(keywords, pri.keywords...)

	return models.ClassificationResult{
		Category:           cat.label,
		Priority:           pri.label,
		CategoryConfidence: catConf,
		PriorityConfidence: priConf,
		Confidence:         (catConf + priConf) / 2,
		Reasoning:          reasoning(cat, catConf, pri, priConf),
		Keywords:           keywords,
	}
}

func reasoning(cat match[models.Category], catConf float64, pri match[models.Priority], priConf float64) string {
	return fmt.Sprintf(
		"Category: %s (%.0f%% confidence based on keywords: %s). Priority: %s (%.0f%% confidence based on keywords: %s).",
		cat.label, catConf*100, strings.Join(cat.keywords, ", "),
		pri.label, priConf*100, strings.Join(pri.keywords, ", "),
	)
}
