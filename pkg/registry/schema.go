package registry

// KeywordRegistry is the on-disk form of a classification keyword table.
// Rule order is significant: the first rule wins a tie.
type KeywordRegistry struct {
	Version     string        `json:"version"`
	LastUpdated string        `json:"lastUpdated"`
	Categories  []KeywordRule `json:"categories"`
	Priorities  []KeywordRule `json:"priorities"`
}

type KeywordRule struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}
