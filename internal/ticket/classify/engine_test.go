package classify

import (
	"sync"
	"testing"

	"ticket-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Category / priority selection
// ==========================

func TestClassify_Scenarios(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name         string
		subject      string
		description  string
		wantCategory models.Category
		wantPriority models.Priority
		wantCatConf  float64
		wantPriConf  float64
		wantKeywords []string
	}{
		{
			name:         "urgent outage without category keywords",
			subject:      "Urgent",
			description:  "critical - production down since 9am",
			wantCategory: models.CategoryOther,
			wantPriority: models.PriorityUrgent,
			wantCatConf:  0.3,
			wantPriConf:  1.0,
			wantKeywords: []string{"urgent", "critical", "production down"},
		},
		{
			name:         "password reset",
			subject:      "Cannot login to my account",
			description:  "I forgot my password and the reset password link is not working",
			wantCategory: models.CategoryAccountAccess,
			wantPriority: models.PriorityMedium,
			wantCatConf:  1.0,
			wantPriConf:  0.3,
			wantKeywords: []string{"login", "password", "reset password", "cannot login"},
		},
		{
			name:         "billing question",
			subject:      "Refund for double charge on invoice",
			description:  "Please refund the payment",
			wantCategory: models.CategoryBillingQuestion,
			wantPriority: models.PriorityMedium,
			wantCatConf:  1.0,
			wantPriConf:  0.3,
			wantKeywords: []string{"invoice", "payment", "charge", "refund"},
		},
		{
			name:         "tie goes to the earlier category",
			subject:      "bug",
			description:  "seen today",
			wantCategory: models.CategoryTechnicalIssue,
			wantPriority: models.PriorityMedium,
			wantCatConf:  1.0 / 3.0,
			wantPriConf:  0.3,
			wantKeywords: []string{"bug"},
		},
		{
			name:         "matching is case-insensitive",
			subject:      "PASSWORD",
			description:  "",
			wantCategory: models.CategoryAccountAccess,
			wantPriority: models.PriorityMedium,
			wantCatConf:  1.0 / 3.0,
			wantPriConf:  0.3,
			wantKeywords: []string{"password"},
		},
		{
			name:         "keywords match inside longer words",
			subject:      "Update my address",
			description:  "",
			wantCategory: models.CategoryFeatureRequest,
			wantPriority: models.PriorityMedium,
			wantCatConf:  1.0 / 3.0,
			wantPriConf:  0.3,
			wantKeywords: []string{"add"},
		},
		{
			name:         "single priority keyword gives half confidence",
			subject:      "Important",
			description:  "",
			wantCategory: models.CategoryOther,
			wantPriority: models.PriorityHigh,
			wantCatConf:  0.3,
			wantPriConf:  0.5,
			wantKeywords: []string{"important"},
		},
		{
			name:         "empty text falls back to defaults",
			wantCategory: models.CategoryOther,
			wantPriority: models.PriorityMedium,
			wantCatConf:  0.3,
			wantPriConf:  0.3,
			wantKeywords: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Classify(tt.subject, tt.description)

			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.wantPriority, result.Priority)
			assert.InDelta(t, tt.wantCatConf, result.CategoryConfidence, 1e-9)
			assert.InDelta(t, tt.wantPriConf, result.PriorityConfidence, 1e-9)
			assert.InDelta(t, (tt.wantCatConf+tt.wantPriConf)/2, result.Confidence, 1e-9)
			assert.Equal(t, tt.wantKeywords, result.Keywords)
		})
	}
}

func TestClassify_LowPriority(t *testing.T) {
	result := NewDefaultEngine().Classify("Minor cosmetic glitch", "small typo, nice to have fixed eventually")
	assert.Equal(t, models.PriorityLow, result.Priority)
	assert.Equal(t, 1.0, result.PriorityConfidence)
}

// ==========================
// Reasoning text
// ==========================

func TestClassify_Reasoning(t *testing.T) {
	engine := NewDefaultEngine()

	result := engine.Classify("Urgent", "critical - production down since 9am")
	assert.Equal(t,
		"Category: OTHER (30% confidence based on keywords: ). Priority: URGENT (100% confidence based on keywords: urgent, critical, production down).",
		result.Reasoning)

	result = engine.Classify("bug", "")
	assert.Equal(t,
		"Category: TECHNICAL_ISSUE (33% confidence based on keywords: bug). Priority: MEDIUM (30% confidence based on keywords: ).",
		result.Reasoning)
}

// ==========================
// Purity
// ==========================

func TestClassify_Idempotent(t *testing.T) {
	engine := NewDefaultEngine()
	first := engine.Classify("Payment failed", "I need help with an invoice error asap")
	second := engine.Classify("Payment failed", "I need help with an invoice error asap")
	assert.Equal(t, first, second)
}

func TestClassify_ConcurrentUse(t *testing.T) {
	engine := NewDefaultEngine()
	want := engine.Classify("Cannot login", "locked out after 2fa")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, engine.Classify("Cannot login", "locked out after 2fa"))
		}()
	}
	wg.Wait()
}

func TestNewEngine_CopiesTable(t *testing.T) {
	table := KeywordTable{
		Categories: []Rule[models.Category]{{Label: models.CategoryBugReport, Keywords: []string{"down"}}},
		Priorities: []Rule[models.Priority]{{Label: models.PriorityUrgent, Keywords: []string{"down"}}},
	}
	engine := NewEngine(table)
	table.Categories[0].Keywords[0] = "changed"

	result := engine.Classify("site down", "")
	assert.Equal(t, models.CategoryBugReport, result.Category)
	assert.Equal(t, models.PriorityUrgent, result.Priority)
	assert.Equal(t, []string{"down", "down"}, result.Keywords)
}

// ==========================
// Table validation
// ==========================

func TestKeywordTable_Validate(t *testing.T) {
	require.NoError(t, DefaultKeywordTable().Validate())

	dup := DefaultKeywordTable()
	dup.Categories = append(dup.Categories, Rule[models.Category]{Label: models.CategoryOther, Keywords: []string{"x"}})
	err := dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate label OTHER")

	empty := DefaultKeywordTable()
	empty.Priorities[0].Keywords = nil
	err = empty.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label URGENT has no keywords")

	assert.Error(t, KeywordTable{}.Validate())
}

func TestDefaultKeywordTable_Order(t *testing.T) {
	table := DefaultKeywordTable()
	require.Len(t, table.Categories, len(models.Categories))
	for i, rule := range table.Categories {
		assert.Equal(t, models.Categories[i], rule.Label)
	}
	require.Len(t, table.Priorities, len(models.Priorities))
	for i, rule := range table.Priorities {
		assert.Equal(t, models.Priorities[i], rule.Label)
	}
}
