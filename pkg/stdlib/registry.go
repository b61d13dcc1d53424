// Package stdlib provides the built-in functions available to minjs scripts.
package stdlib

import (
	"fmt"
	"sort"

	"github.com/minjs-lang/minjs/pkg/evaluator"
)

// Value aliases the evaluator's value type so natives read naturally.
type Value = evaluator.Value

// Fn is a native function exposed to scripts.
type Fn struct {
	// Name is the callable name, an identifier or operator symbol.
	Name string
	// Arity is the exact argument count, or -1 for variadic.
	Arity int
	// Execute runs the native. A plain error is reported at the call site.
	Execute func(args []Value) (Value, error)
}

// Registry holds the set of natives to install into an environment.
type Registry struct {
	fns map[string]Fn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]Fn)}
}

// Register adds a native. Re-registering a name replaces the previous
// definition.
func (r *Registry) Register(fn Fn) error {
	if fn.Name == "" {
		return fmt.Errorf("native function has no name")
	}
	if fn.Execute == nil {
		return fmt.Errorf("native function %s has no implementation", fn.Name)
	}
	r.fns[fn.Name] = fn
	return nil
}

// Get looks up a native by name.
func (r *Registry) Get(name string) (Fn, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
