package codegen

import (
	"fmt"

	graphql "github.com/vektah/gqlparser/v2/ast"
)

// Wrapper is one nullable/list layer around a bare schema type.
//
// GraphQL marks non-null explicitly while the generated representation is
// nullable-by-default, so unwrapping inverts the annotation: a Nilable tag is
// pushed exactly where the schema type does NOT carry a non-null modifier at
// that nesting level.
type Wrapper uint8

const (
	WrapperNilable Wrapper = iota
	WrapperArray
)

// String は Wrapper のタグ名を返す。
func (w Wrapper) String() string {
	switch w {
	case WrapperNilable:
		return "NILABLE"
	case WrapperArray:
		return "ARRAY"
	}
	return fmt.Sprintf("Wrapper(%d)", uint8(w))
}

// unwrapType peels nullable/list modifiers off a schema type and returns the
// wrapper sequence (outermost first) together with the bare named type.
//
// gqlparser folds the non-null modifier into each type node, so one iteration
// handles one nesting level: emit Nilable unless the node is non-null, then
// descend into the list element if there is one.
func unwrapType(typ *graphql.Type) ([]Wrapper, *graphql.Type) {
	var wrappers []Wrapper
	for {
		if !typ.NonNull {
			wrappers = append(wrappers, WrapperNilable)
		}
		if typ.Elem == nil {
			return wrappers, typ
		}
		wrappers = append(wrappers, WrapperArray)
		typ = typ.Elem
	}
}

// wrapSignature rebuilds the full type signature from a wrapper sequence and
// a bare signature. Iteration is innermost first: Array wraps the signature
// in a slice, Nilable in a pointer.
//
// [String!] therefore becomes *[]string, matching the pointer-of-slice shapes
// the rest of the generated code uses for optional lists.
func wrapSignature(wrappers []Wrapper, bare string) string {
	sig := bare
	for i := len(wrappers) - 1; i >= 0; i-- {
		switch wrappers[i] {
		case WrapperArray:
			sig = "[]" + sig
		case WrapperNilable:
			sig = "*" + sig
		}
	}
	return sig
}

// newAccessExpr wraps a core (de)serialization expression in one Guard/Map
// layer per wrapper tag, producing a structured expression tree. The tree is
// rendered to statements separately (see expr.go), which keeps the algebra
// independent of the emitted syntax.
//
// depth numbers the enclosing map layers so that every nested array level
// binds a distinct element variable (v1, v2, ...).
func newAccessExpr(wrappers []Wrapper, bare string, depth int, core Expr) Expr {
	if len(wrappers) == 0 {
		return core
	}
	switch wrappers[0] {
	case WrapperNilable:
		return &GuardExpr{Inner: newAccessExpr(wrappers[1:], bare, depth, core)}
	case WrapperArray:
		return &MapExpr{
			Var:     fmt.Sprintf("v%d", depth+1),
			ElemSig: wrapSignature(wrappers[1:], bare),
			Inner:   newAccessExpr(wrappers[1:], bare, depth+1, core),
		}
	}
	return core
}
