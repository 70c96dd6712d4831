package detector

import (
	"fmt"
	"strings"
)

// Category classifies a rule. Its text form is the label carried in the
// "type" field of every finding.
type Category uint8

const (
	Misspelling Category = iota
	Grammar
	Suggestion
)

var categoryLabels = [...]string{
	Misspelling: "错别字",
	Grammar:     "语法错误",
	Suggestion:  "优化建议",
}

var categoryNames = [...]string{
	Misspelling: "misspelling",
	Grammar:     "grammar",
	Suggestion:  "suggestion",
}

func (c Category) String() string {
	if int(c) < len(categoryLabels) {
		return categoryLabels[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Name is the English identifier of the category.
func (c Category) Name() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return ""
}

func (c Category) MarshalText() ([]byte, error) {
	if int(c) >= len(categoryLabels) {
		return nil, fmt.Errorf("unknown category %d", uint8(c))
	}
	return []byte(categoryLabels[c]), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory accepts the wire label or the English name (any case).
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for i, label := range categoryLabels {
		if s == label || strings.EqualFold(s, categoryNames[i]) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Rule maps a flawed phrase to its correction.
type Rule struct {
	Original  string   `json:"original"`
	Corrected string   `json:"corrected"`
	Category  Category `json:"type"`
}

// Finding is one occurrence of a rule's phrase. Position and Context are
// measured in characters (code points), not bytes.
type Finding struct {
	Category  Category `json:"type"`
	Original  string   `json:"original"`
	Corrected string   `json:"corrected"`
	Context   string   `json:"context"`
	Position  int      `json:"position"`
}
