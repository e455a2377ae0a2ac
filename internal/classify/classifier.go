// Package classify assigns a semantic category to retrieved memories.
//
// Classification is read-path only: it reassembles search results into a
// categorized briefing and never influences what gets stored. The rules
// are data: an ordered list evaluated first-match-wins, loaded from an
// embedded default and overridable on disk, since keyword sets evolve
// independently of the matching algorithm.
package classify

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mnemo-sh/mnemo/pkg/models"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule matches a memory by type tag or content marker and assigns a
// category. Types match the record's type tag exactly (case-insensitive);
// markers are substring matches against the lower-cased content.
type Rule struct {
	Category models.Category `yaml:"category"`
	Types    []string        `yaml:"types"`
	Markers  []string        `yaml:"markers"`
}

type ruleFile struct {
	Rules   []Rule          `yaml:"rules"`
	Default models.Category `yaml:"default"`
}

// Classifier holds an ordered rule list. Single-label: exactly one
// category per record, decided by rule order.
type Classifier struct {
	rules    []Rule
	fallback models.Category
}

// Default returns a classifier built from the embedded rules.
func Default() *Classifier {
	c, err := parse(defaultRules)
	if err != nil {
		// Embedded rules are validated by tests; an empty classifier still
		// yields the knowledge bucket for everything.
		return &Classifier{fallback: models.CategoryKnowledge}
	}
	return c
}

// Load returns a classifier from the rule file at path when it exists,
// otherwise the embedded default.
func Load(path string) *Classifier {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	c, err := parse(data)
	if err != nil {
		return Default()
	}
	return c
}

func parse(data []byte) (*Classifier, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Default == "" {
		file.Default = models.CategoryKnowledge
	}
	return &Classifier{rules: file.Rules, fallback: file.Default}, nil
}

// Classify returns the category of one memory record.
func (c *Classifier) Classify(m models.Memory) models.Category {
	typeTag := strings.ToLower(strings.TrimSpace(m.Type))
	content := strings.ToLower(m.Content)

	for _, rule := range c.rules {
		for _, t := range rule.Types {
			if typeTag == strings.ToLower(t) {
				return rule.Category
			}
		}
		for _, marker := range rule.Markers {
			if marker != "" && strings.Contains(content, strings.ToLower(marker)) {
				return rule.Category
			}
		}
	}
	return c.fallback
}
