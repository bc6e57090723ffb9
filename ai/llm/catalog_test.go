package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog([]ModelDescriptor{
		{Name: "gpt-4o", TokenBudget: 128000},
		{Name: "broken", TokenBudget: 0},
	})

	d, ok := catalog.Lookup("gpt-4o")
	require.True(t, ok)
	assert.Equal(t, 128000, d.TokenBudget)

	_, ok = catalog.Lookup("unknown-model")
	assert.False(t, ok)

	// Entries violating the positive-budget invariant are dropped.
	_, ok = catalog.Lookup("broken")
	assert.False(t, ok)
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	for _, name := range []string{"gpt-4", "gpt-4o", "gpt-3.5-turbo"} {
		d, ok := catalog.Lookup(name)
		require.True(t, ok, "missing %s", name)
		assert.Positive(t, d.TokenBudget)
	}
}
