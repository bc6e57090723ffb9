package llm

// ModelDescriptor describes one model the completion endpoint accepts.
type ModelDescriptor struct {
	Name        string
	TokenBudget int // maximum approximate prompt tokens, always > 0
}

// Catalog is a static lookup of model names to their token budgets.
// It is built once at process start and never mutated afterwards.
type Catalog struct {
	models map[string]ModelDescriptor
}

// NewCatalog builds a catalog from the given descriptors. Entries with a
// non-positive token budget are ignored.
func NewCatalog(descriptors []ModelDescriptor) *Catalog {
	models := make(map[string]ModelDescriptor, len(descriptors))
	for _, d := range descriptors {
		if d.TokenBudget <= 0 {
			continue
		}
		models[d.Name] = d
	}
	return &Catalog{models: models}
}

// DefaultCatalog returns the built-in table of OpenAI-compatible models.
func DefaultCatalog() *Catalog {
	return NewCatalog([]ModelDescriptor{
		{Name: "gpt-3.5-turbo", TokenBudget: 16385},
		{Name: "gpt-4", TokenBudget: 8192},
		{Name: "gpt-4-32k", TokenBudget: 32768},
		{Name: "gpt-4-turbo", TokenBudget: 128000},
		{Name: "gpt-4o", TokenBudget: 128000},
		{Name: "gpt-4o-mini", TokenBudget: 128000},
	})
}

// Lookup returns the descriptor for name, or false if the model is unknown.
func (c *Catalog) Lookup(name string) (ModelDescriptor, bool) {
	d, ok := c.models[name]
	return d, ok
}
