// Package categorize assigns categories to imported transactions from an
// ordered YAML rule table.
package categorize

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

type MatchType string

const (
	MatchTypeExact    MatchType = "exact"
	MatchTypeContains MatchType = "contains"
)

type Rule struct {
	Name      string    `yaml:"name"`
	Pattern   string    `yaml:"pattern"`
	MatchType MatchType `yaml:"match_type"`
	Priority  int       `yaml:"priority"`
	Category  string    `yaml:"category"`
}

type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// Engine holds rules sorted by priority, highest first.
type Engine struct {
	rules []Rule
}

type Match struct {
	Category string
	RuleName string
}

func NewEngine(data []byte) (*Engine, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rules: %w", err)
	}

	for i, r := range set.Rules {
		if r.Priority < 0 || r.Priority > 999 {
			return nil, fmt.Errorf("rule %d (%s): priority must be in [0,999], got %d", i, r.Name, r.Priority)
		}
		if r.MatchType != MatchTypeExact && r.MatchType != MatchTypeContains {
			return nil, fmt.Errorf("rule %d (%s): invalid match_type %q (must be 'exact' or 'contains')", i, r.Name, r.MatchType)
		}
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d (%s): pattern cannot be empty", i, r.Name)
		}
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("rule %d (%s): category cannot be empty", i, r.Name)
		}
	}

	rules := make([]Rule, len(set.Rules))
	copy(rules, set.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return &Engine{rules: rules}, nil
}

func LoadEmbedded() (*Engine, error) {
	e, err := NewEngine(embeddedRules)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded rules: %w", err)
	}
	return e, nil
}

func LoadFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	e, err := NewEngine(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %q: %w", path, err)
	}
	return e, nil
}

// Match returns the first rule matching description, compared
// case-insensitively.
func (e *Engine) Match(description string) (Match, bool) {
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, r := range e.rules {
		pattern := strings.ToLower(strings.TrimSpace(r.Pattern))
		var ok bool
		switch r.MatchType {
		case MatchTypeExact:
			ok = desc == pattern
		case MatchTypeContains:
			ok = strings.Contains(desc, pattern)
		}
		if ok {
			return Match{Category: r.Category, RuleName: r.Name}, true
		}
	}
	return Match{}, false
}

func (e *Engine) Len() int {
	return len(e.rules)
}
