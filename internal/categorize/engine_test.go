package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	e, err := LoadEmbedded()
	require.NoError(t, err)
	assert.Positive(t, e.Len())

	m, ok := e.Match("ACME PAYROLL 0042")
	require.True(t, ok)
	assert.Equal(t, "Salary", m.Category)

	m, ok = e.Match("Whole Foods Market")
	require.True(t, ok)
	assert.Equal(t, "Groceries", m.Category)

	_, ok = e.Match("something unrelated")
	assert.False(t, ok)
}

func TestPriorityAndStableOrder(t *testing.T) {
	e, err := NewEngine([]byte(`
rules:
  - {name: low, pattern: shop, match_type: contains, priority: 1, category: Low}
  - {name: first, pattern: coffee, match_type: contains, priority: 5, category: First}
  - {name: second, pattern: coffee shop, match_type: contains, priority: 5, category: Second}
  - {name: exact, pattern: coffee shop, match_type: exact, priority: 9, category: Exact}
`))
	require.NoError(t, err)

	m, ok := e.Match("  Coffee Shop ")
	require.True(t, ok)
	assert.Equal(t, "exact", m.RuleName)

	m, ok = e.Match("corner coffee shop")
	require.True(t, ok)
	assert.Equal(t, "first", m.RuleName)

	m, ok = e.Match("gift shop")
	require.True(t, ok)
	assert.Equal(t, "Low", m.Category)
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad priority", `rules: [{name: a, pattern: x, match_type: contains, priority: 1000, category: C}]`},
		{"bad match type", `rules: [{name: a, pattern: x, match_type: regex, priority: 1, category: C}]`},
		{"empty pattern", `rules: [{name: a, pattern: " ", match_type: exact, priority: 1, category: C}]`},
		{"empty category", `rules: [{name: a, pattern: x, match_type: exact, priority: 1, category: ""}]`},
		{"bad yaml", `rules: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
