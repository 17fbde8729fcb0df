package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/classify"
)

func LoadKeywordRegistry(path string) (*KeywordRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg KeywordRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode keyword registry %s: %w", path, err)
	}
	return &reg, nil
}

// Table converts the registry into a validated classify.KeywordTable.
// Labels must name known categories and priorities; keywords are lowercased.
func (r *KeywordRegistry) Table() (classify.KeywordTable, error) {
	var table classify.KeywordTable
	for _, rule := range r.Categories {
		label, err := models.ParseCategory(rule.Label)
		if err != nil {
			return classify.KeywordTable{}, err
		}
		table.Categories = append(table.Categories, classify.Rule[models.Category]{Label: label, Keywords: normalize(rule.Keywords)})
	}
	for _, rule := range r.Priorities {
		label, err := models.ParsePriority(rule.Label)
		if err != nil {
			return classify.KeywordTable{}, err
		}
		table.Priorities = append(table.Priorities, classify.Rule[models.Priority]{Label: label, Keywords: normalize(rule.Keywords)})
	}
	if err := table.Validate(); err != nil {
		return classify.KeywordTable{}, err
	}
	return table, nil
}

// LoadKeywordTable reads path, or returns the built-in table when path is empty.
func LoadKeywordTable(path string) (classify.KeywordTable, error) {
	if path == "" {
		return classify.DefaultKeywordTable(), nil
	}
	reg, err := LoadKeywordRegistry(path)
	if err != nil {
		return classify.KeywordTable{}, err
	}
	return reg.Table()
}

func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
