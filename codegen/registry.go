package codegen

import "fmt"

// Registry is the name-keyed store of generated class definitions. It is
// append-only except for explicit merges of LeafClass entries, and preserves
// discovery order for deterministic output. One registry belongs to one
// Generator instance; there is no shared global state.
type Registry struct {
	order   []string
	classes map[string]DefinedClass
}

// NewRegistry は空のレジストリを作成する。
func NewRegistry() *Registry {
	return &Registry{classes: map[string]DefinedClass{}}
}

// Lookup returns the class registered under name, if any.
func (r *Registry) Lookup(name string) (DefinedClass, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Register adds a class under its name. Registering a second class under an
// already-taken name is a fatal redefinition conflict; LeafClass merging goes
// through RegisterOrMergeLeaf instead.
func (r *Registry) Register(c DefinedClass) error {
	if existing, ok := r.classes[c.Name()]; ok {
		return fmt.Errorf("%q already defined as %s: %w", c.Name(), existing.Kind(), ErrRedefinition)
	}
	r.classes[c.Name()] = c
	r.order = append(r.order, c.Name())
	return nil
}

// RegisterOrMergeLeaf adds incoming to the registry, or merges it into an
// existing LeafClass of the same name. Merging requires the identical owner
// schema type and unions the method maps and dependency sets; it is
// idempotent under repeated merges. Any other collision is a redefinition
// conflict.
func (r *Registry) RegisterOrMergeLeaf(incoming *LeafClass) (*LeafClass, error) {
	existing, ok := r.classes[incoming.name]
	if !ok {
		r.classes[incoming.name] = incoming
		r.order = append(r.order, incoming.name)
		return incoming, nil
	}

	leaf, ok := existing.(*LeafClass)
	if !ok {
		return nil, fmt.Errorf("%q already defined as %s: %w", incoming.name, existing.Kind(), ErrRedefinition)
	}
	if leaf.ownerType != incoming.ownerType {
		return nil, fmt.Errorf("%q selected from both %s and %s: %w",
			incoming.name, leaf.ownerType, incoming.ownerType, ErrRedefinition)
	}

	leaf.methods.merge(incoming.methods)
	leaf.deps.union(incoming.deps)
	return leaf, nil
}

// Classes returns all registered classes in discovery order.
func (r *Registry) Classes() []DefinedClass {
	out := make([]DefinedClass, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.classes[name])
	}
	return out
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	return len(r.order)
}
