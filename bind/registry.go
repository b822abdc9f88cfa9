// Package bind creates bound objects and moves values in and out of their properties.
//
// Classes are registered by name against a Go type. A struct class is instantiated as a
// pointer to the struct; the built-in "map" class is a map[string]any. Properties are
// resolved by `beanio` struct tag, then by field name, then by normalized field name.
package bind

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
)

// MapClass is the class name that binds records to map[string]any.
const MapClass = "map"

var (
	ErrUnknownClass    = errors.New("unknown class")
	ErrUnknownProperty = errors.New("unknown property")
	ErrAbstractClass   = errors.New("class cannot be instantiated")
	ErrNotCollection   = errors.New("value is not a collection")
)

var mapType = reflect.TypeOf(map[string]any(nil))

// Registry maps class names to Go types. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]reflect.Type
}

// NewRegistry returns a registry holding only the built-in map class.
func NewRegistry() *Registry {
	return &Registry{classes: map[string]reflect.Type{MapClass: mapType}}
}

// Register binds name to type t. Pointer types are registered by their element type.
func (r *Registry) Register(name string, t reflect.Type) error {
	if name == "" || t == nil {
		return errors.New("class name and type are required")
	}

	t = indirect(t)

	switch t.Kind() {
	case reflect.Struct, reflect.Interface:
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("class %q: map classes need string keys, got %s", name, t)
		}
	default:
		return fmt.Errorf("class %q: %s is not a struct, map or interface type", name, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.classes[name]; exists && prev != t {
		return fmt.Errorf("class %q already registered as %s", name, prev)
	}

	r.classes[name] = t

	return nil
}

// RegisterType registers T under name.
func RegisterType[T any](r *Registry, name string) error {
	return r.Register(name, reflect.TypeFor[T]())
}

// Lookup returns the type registered for name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.classes[name]

	return t, ok
}

// Names lists registered class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.classes))
}

// IsAbstract reports whether the class is registered but cannot be instantiated.
func (r *Registry) IsAbstract(name string) bool {
	t, ok := r.Lookup(name)

	return ok && t.Kind() == reflect.Interface
}
