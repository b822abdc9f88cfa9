package primitive

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry resolves handlers by type tag or by registered name. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.RWMutex
	named      map[string]Handler
	categories CategoryEnum
}

// NewRegistry creates a registry accepting the given conversion categories, or
// CategoryDefault when none are given.
func NewRegistry(categories ...CategoryEnum) *Registry {
	r := &Registry{named: make(map[string]Handler)}

	if len(categories) == 0 {
		r.categories = CategoryDefault
	}

	for _, c := range categories {
		r.categories |= c
	}

	return r
}

// Categories returns the conversion categories the registry was created with.
func (r *Registry) Categories() CategoryEnum {
	return r.categories
}

// Register adds a named handler. Names are unique.
func (r *Registry) Register(name string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.named[name]; exists {
		return fmt.Errorf("type handler %q already registered", name)
	}

	r.named[name] = h

	return nil
}

// RegisterKind registers a named handler built from a type tag and format.
func (r *Registry) RegisterKind(name, typeTag, format string) error {
	h, err := r.Lookup(typeTag, format)
	if err != nil {
		return fmt.Errorf("type handler %q: %w", name, err)
	}

	return r.Register(name, h)
}

// Handler returns a named handler.
func (r *Registry) Handler(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.named[name]

	return h, ok
}

// Names lists the registered handler names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.named))
}

// Lookup resolves a type tag. A registered handler name takes precedence over the
// built-in tags; format applies to built-in tags only.
func (r *Registry) Lookup(typeTag, format string) (Handler, error) {
	if h, ok := r.Handler(typeTag); ok {
		return h, nil
	}

	k, ok := ParseKind(typeTag)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typeTag)
	}

	return NewHandler(k, format, r.categories)
}

// ForKind returns the built-in handler for a kind.
func (r *Registry) ForKind(k KindEnum, format string) (Handler, error) {
	return NewHandler(k, format, r.categories)
}
