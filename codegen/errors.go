package codegen

import "errors"

// Generation failures are fatal: the caller gets the error as-is and no
// partial output is produced.
var (
	// ErrRedefinition is returned when two selections produce the same class
	// name with incompatible owner types or class kinds.
	ErrRedefinition = errors.New("class redefinition conflict")

	// ErrInvalidOperationName is returned when an operation name does not
	// satisfy the generated-identifier pattern (leading uppercase letter,
	// alphanumerics/underscore, length >= 2).
	ErrInvalidOperationName = errors.New("operation name must be a valid identifier")

	// ErrUnresolvableField is returned when a selected field has no
	// definition on the owner type and no introspection fallback matches.
	ErrUnresolvableField = errors.New("field has no definition on owner type")

	// ErrUnsupportedKind is returned for schema type kinds the generator
	// does not model.
	ErrUnsupportedKind = errors.New("unhandled type kind")

	// ErrMissingConverterName is returned when a registered scalar converter
	// cannot be referenced by name at emission time.
	ErrMissingConverterName = errors.New("scalar converter has no constant name")

	// ErrReservedName is returned when a generated accessor name collides
	// with a member of the base response interface.
	ErrReservedName = errors.New("accessor name collides with reserved member")

	// ErrDependencyCycle is returned when the registered classes do not admit
	// a topological order. Selection trees are finite, so this indicates a
	// recursive input-object chain with no nullable break.
	ErrDependencyCycle = errors.New("dependency cycle among generated classes")
)
