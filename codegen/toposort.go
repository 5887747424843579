package codegen

import "fmt"

// SortedClasses returns the registered classes ordered so that every class
// appears after all classes in its dependency set. Ties are broken by
// discovery order, which keeps the output deterministic across runs.
//
// The schema's own type graph may be cyclic, but generated classes depend
// only downward through selection nesting, so a cycle here is reported as a
// fatal error rather than resolved.
func (r *Registry) SortedClasses() ([]DefinedClass, error) {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int, len(r.order))
	sorted := make([]DefinedClass, 0, len(r.order))

	var visit func(name string) error
	visit = func(name string) error {
		c, ok := r.classes[name]
		if !ok {
			// Dependencies always point at registered classes; an unknown
			// name would be a generator bug, not user input.
			return fmt.Errorf("dependency %q is not a registered class", name)
		}
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%q depends on itself transitively: %w", name, ErrDependencyCycle)
		}
		state[name] = visiting
		for _, dep := range c.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		sorted = append(sorted, c)
		return nil
	}

	for _, name := range r.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
