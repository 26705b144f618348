package fees

import (
	"fmt"
	"sort"
	"sync"
)

// Strategy names understood by the registry out of the box.
const (
	StrategyNone       = "none"
	StrategyFlat       = "flat"
	StrategyPercentage = "percentage"
)

// Registry resolves fee strategy identifiers to strategies. The empty
// identifier resolves to the configured default.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	def        string
}

// NewRegistry creates a registry holding only the "none" strategy, which is
// also the default.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[string]Strategy{StrategyNone: NoFee{}},
		def:        StrategyNone,
	}
}

// Register adds or replaces a named strategy.
func (r *Registry) Register(name string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[name] = s
}

// SetDefault selects the strategy used when no identifier is given.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	r.def = name
	return nil
}

// Resolve returns the strategy registered under name, or the default for "".
func (r *Registry) Resolve(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.def
	}
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Names lists registered identifiers in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
