package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agbru/digestagg/internal/digest"
	apperrors "github.com/agbru/digestagg/internal/errors"
)

//go:generate mockgen -destination=mocks/mock_strategy.go -package=mocks github.com/agbru/digestagg/internal/aggregator Strategy

// Strategy is one way of computing the modular sum of a digest collection.
// Implementations treat the input as read-only and return a new value.
type Strategy interface {
	// Name returns the short key used for selection (e.g., "column").
	Name() string
	// Aggregate sums digests modulo 2^(64*digest.Width).
	Aggregate(digests []digest.Digest) (digest.Digest, error)
}

// Registry maps strategy names to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// NewDefaultRegistry returns a registry holding the sequential, column and
// parallel strategies, the latter configured with workers goroutines.
func NewDefaultRegistry(workers int) (*Registry, error) {
	parallel, err := NewParallelColumn(workers)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, s := range []Strategy{Sequential{}, Column{}, parallel} {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds s under its name. Registering a name twice is an error.
func (r *Registry) Register(s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := s.Name()
	if _, exists := r.strategies[name]; exists {
		return apperrors.ValidationError{Field: "strategy", Message: fmt.Sprintf("%q already registered", name)}
	}
	r.strategies[name] = s
	return nil
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, apperrors.ValidationError{
			Field:   "strategy",
			Message: fmt.Sprintf("unknown strategy %q (available: %s)", name, strings.Join(r.listLocked(), ", ")),
		}
	}
	return s, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered strategy, ordered by name.
func (r *Registry) All() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := r.listLocked()
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		out = append(out, r.strategies[name])
	}
	return out
}
