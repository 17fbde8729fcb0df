package classify

import (
	"fmt"

	"ticket-workers/internal/models"
)

// Rule binds one label to the keywords that vote for it.
type Rule[T ~string] struct {
	Label    T
	Keywords []string
}

// KeywordTable holds the ordered category and priority rules. Order decides ties.
type KeywordTable struct {
	Categories []Rule[models.Category]
	Priorities []Rule[models.Priority]
}

// DefaultKeywordTable returns a fresh copy of the built-in English tables.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		Categories: []Rule[models.Category]{
			{models.CategoryAccountAccess, []string{
				"login", "password", "2fa", "sign in", "authentication",
				"access denied", "locked out", "reset password", "forgot password", "cannot login",
			}},
			{models.CategoryTechnicalIssue, []string{
				"error", "bug", "crash", "broken", "not working",
				"failure", "exception", "timeout", "slow", "performance",
			}},
			{models.CategoryBillingQuestion, []string{
				"billing", "invoice", "payment", "charge", "refund",
				"subscription", "pricing", "credit card", "cost", "fee",
			}},
			{models.CategoryFeatureRequest, []string{
				"feature", "request", "enhancement", "improvement", "add",
				"new feature", "would like", "suggest", "could you add", "need",
			}},
			{models.CategoryBugReport, []string{
				"bug", "issue", "defect", "incorrect", "wrong",
				"broken functionality", "not behaving", "unexpected", "error message", "fails",
			}},
			{models.CategoryOther, []string{
				"other", "general", "question", "help", "support", "inquiry",
			}},
		},
		Priorities: []Rule[models.Priority]{
			{models.PriorityUrgent, []string{
				"urgent", "critical", "production down", "can't access", "immediately",
				"asap", "emergency", "outage", "cannot work", "blocking",
			}},
			{models.PriorityHigh, []string{
				"important", "high priority", "serious", "major",
				"significant impact", "affecting many", "soon", "quickly",
			}},
			{models.PriorityMedium, []string{
				"moderate", "normal", "standard", "regular", "when possible", "sometime",
			}},
			{models.PriorityLow, []string{
				"low", "minor", "small", "cosmetic", "nice to have",
				"eventually", "whenever", "not urgent",
			}},
		},
	}
}

// Validate rejects tables with duplicate labels or empty keyword lists.
func (t KeywordTable) Validate() error {
	if err := validateRules(t.Categories); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	if err := validateRules(t.Priorities); err != nil {
		return fmt.Errorf("priorities: %w", err)
	}
	return nil
}

func validateRules[T ~string](rules []Rule[T]) error {
	if len(rules) == 0 {
		return fmt.Errorf("no rules defined")
	}
	seen := make(map[T]bool, len(rules))
	for _, r := range rules {
		if seen[r.Label] {
			return fmt.Errorf("duplicate label %s", r.Label)
		}
		seen[r.Label] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("label %s has no keywords", r.Label)
		}
	}
	return nil
}

func (t KeywordTable) clone() KeywordTable {
	return KeywordTable{
		Categories: cloneRules(t.Categories),
		Priorities: cloneRules(t.Priorities),
	}
}

func cloneRules[T ~string](rules []Rule[T]) []Rule[T] {
	out := make([]Rule[T], len(rules))
	for i, r := range rules {
		out[i] = Rule[T]{Label: r.Label, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}
