// Package assistant answers household questions from an ordered YAML intent
// table rendered over a snapshot of the household's figures.
package assistant

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed intents.yaml
var embeddedIntents []byte

type Intent struct {
	Name     string   `yaml:"name"`
	Priority int      `yaml:"priority"`
	Keywords []string `yaml:"keywords"`
	Template string   `yaml:"template"`

	tmpl *template.Template
}

type IntentSet struct {
	Intents []Intent `yaml:"intents"`
}

// Engine matches questions to intents. It is read-only after construction.
type Engine struct {
	intents []Intent
}

func NewEngine(data []byte) (*Engine, error) {
	var set IntentSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML intents: %w", err)
	}

	seen := make(map[string]bool, len(set.Intents))
	intents := make([]Intent, 0, len(set.Intents))
	for i, in := range set.Intents {
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			return nil, fmt.Errorf("intent %d: name cannot be empty", i)
		}
		if seen[in.Name] {
			return nil, fmt.Errorf("intent %d: duplicate name %q", i, in.Name)
		}
		seen[in.Name] = true

		keywords := make([]string, 0, len(in.Keywords))
		for _, k := range in.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("intent %d (%s): at least one keyword is required", i, in.Name)
		}
		in.Keywords = keywords

		tmpl, err := template.New(in.Name).Funcs(funcs).Parse(in.Template)
		if err != nil {
			return nil, fmt.Errorf("intent %d (%s): %w", i, in.Name, err)
		}
		in.tmpl = tmpl
		intents = append(intents, in)
	}

	sort.SliceStable(intents, func(i, j int) bool {
		return intents[i].Priority > intents[j].Priority
	})
	return &Engine{intents: intents}, nil
}

func LoadEmbedded() (*Engine, error) {
	e, err := NewEngine(embeddedIntents)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded intents: %w", err)
	}
	return e, nil
}

func LoadFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intents file: %w", err)
	}
	return NewEngine(data)
}

// Match returns the first intent with a keyword contained in the question.
func (e *Engine) Match(question string) (*Intent, bool) {
	q := strings.ToLower(question)
	for i := range e.intents {
		for _, k := range e.intents[i].Keywords {
			if strings.Contains(q, k) {
				return &e.intents[i], true
			}
		}
	}
	return nil, false
}

// Render executes the intent's template over facts and collapses the
// whitespace left by template actions.
func (in *Intent) Render(facts Facts) (string, error) {
	var buf bytes.Buffer
	if err := in.tmpl.Execute(&buf, facts); err != nil {
		return "", fmt.Errorf("render intent %s: %w", in.Name, err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// Answer matches and renders in one step. ok is false when no intent matched.
func (e *Engine) Answer(question string, facts Facts) (answer, intent string, ok bool, err error) {
	in, ok := e.Match(question)
	if !ok {
		return "", "", false, nil
	}
	answer, err = in.Render(facts)
	if err != nil {
		return "", in.Name, true, err
	}
	return answer, in.Name, true, nil
}

func (e *Engine) Intents() []string {
	names := make([]string, len(e.intents))
	for i, in := range e.intents {
		names[i] = in.Name
	}
	return names
}
