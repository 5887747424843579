package codegen

import (
	"fmt"

	"github.com/99designs/gqlgen/codegen/templates"

	graphql "github.com/vektah/gqlparser/v2/ast"
)

// reservedMethodNames は全生成クラスが暗黙に実装するベースインターフェースの
// メンバー名。アクセサ名との衝突は致命的エラーであり、リネームは行わない。
var reservedMethodNames = map[string]struct{}{
	"Typename": {},
	"Raw":      {},
	"Errors":   {},
}

// typenameField is the universal dynamic field available on every composite
// type.
const typenameField = "__typename"

// synthesizeLeaf walks a selection set against an owner type and registers
// (or merges into) the LeafClass named name. The fragment-type context of a
// fresh leaf is just its own owner type.
func (g *Generator) synthesizeLeaf(name string, owner *graphql.Definition, sel graphql.SelectionSet) (*LeafClass, error) {
	methods, deps, err := g.traverseSelections(name, owner, []string{owner.Name}, sel)
	if err != nil {
		return nil, err
	}

	return g.registry.RegisterOrMergeLeaf(&LeafClass{
		name:      name,
		ownerType: owner.Name,
		methods:   methods,
		deps:      deps,
	})
}

// traverseSelections produces the accessor methods for one selection set,
// registering any nested classes along the way.
//
// 2 パスで処理する: まず直接のフィールド選択、次にフラグメント。フラグメントの
// メソッドは同名メソッドのパスリストへ連結され、上書きはされない。
func (g *Generator) traverseSelections(classPrefix string, owner *graphql.Definition, parents []string, sel graphql.SelectionSet) (*methodMap, *depSet, error) {
	methods := newMethodMap()
	deps := newDepSet()

	// Direct field pass.
	for _, selection := range sel {
		field, ok := selection.(*graphql.Field)
		if !ok {
			continue
		}
		if field.Name == typenameField && field.Alias == field.Name {
			// Provided implicitly by every generated class.
			continue
		}
		if err := g.traverseField(classPrefix, owner, parents, field, methods, deps); err != nil {
			return nil, nil, err
		}
	}

	// Fragment pass. Inline fragments and named fragment spreads both recurse
	// with their type condition as the owner type.
	for _, selection := range sel {
		var (
			condition    string
			selectionSet graphql.SelectionSet
		)
		switch frag := selection.(type) {
		case *graphql.InlineFragment:
			condition = frag.TypeCondition
			selectionSet = frag.SelectionSet
		case *graphql.FragmentSpread:
			condition = frag.Definition.TypeCondition
			selectionSet = frag.Definition.SelectionSet
		default:
			continue
		}

		condDef, ok := g.schema.Types[condition]
		if !ok {
			return nil, nil, fmt.Errorf("fragment condition type %q not found in schema: %w", condition, ErrUnsupportedKind)
		}

		next := make([]string, 0, len(parents)+1)
		next = append(next, parents...)
		next = append(next, condition)

		fragMethods, fragDeps, err := g.traverseSelections(classPrefix, condDef, next, selectionSet)
		if err != nil {
			return nil, nil, err
		}
		methods.merge(fragMethods)
		deps.union(fragDeps)
	}

	return methods, deps, nil
}

// traverseField resolves one field selection into a FieldAccessPath and
// appends it to the method map.
func (g *Generator) traverseField(classPrefix string, owner *graphql.Definition, parents []string, field *graphql.Field, methods *methodMap, deps *depSet) error {
	fieldDef, err := g.lookupField(owner, field.Name)
	if err != nil {
		return err
	}

	methodName := templates.ToGo(field.Alias)
	if _, reserved := reservedMethodNames[methodName]; reserved {
		return fmt.Errorf("field %s on %s generates %s(): %w", field.Name, owner.Name, methodName, ErrReservedName)
	}

	typed, err := g.resolveOutput(leafClassName(classPrefix, field), fieldDef.Type, field.SelectionSet)
	if err != nil {
		return err
	}

	methods.add(methodName, field.Alias, &FieldAccessPath{
		Signature: typed.Signature,
		Expr:      typed.Expr,
		OnTypes:   parents,
		Dispatch:  g.dispatchTypes(parents),
	})
	deps.add(typed.Dependency)
	return nil
}

// dispatchTypes expands the innermost fragment condition into the concrete
// type names the generated accessor matches against __typename. A path whose
// innermost condition is the class's own owner type applies unconditionally
// and gets no dispatch set.
func (g *Generator) dispatchTypes(parents []string) []string {
	condition := parents[len(parents)-1]
	if condition == parents[0] {
		return nil
	}

	def, ok := g.schema.Types[condition]
	if !ok || def.Kind == graphql.Object {
		return []string{condition}
	}

	possible := g.schema.PossibleTypes[condition]
	names := make([]string, 0, len(possible))
	for _, p := range possible {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return []string{condition}
	}
	return names
}

// lookupField resolves a field definition on the owner type, falling back to
// the root introspection entry points and the universal __typename field.
func (g *Generator) lookupField(owner *graphql.Definition, name string) (*graphql.FieldDefinition, error) {
	if def := owner.Fields.ForName(name); def != nil {
		return def, nil
	}

	if name == typenameField {
		return &graphql.FieldDefinition{
			Name: typenameField,
			Type: graphql.NonNullNamedType("String", nil),
		}, nil
	}

	// __schema and __type exist only on the query root.
	if g.schema.Query != nil && owner.Name == g.schema.Query.Name {
		switch name {
		case "__schema":
			return &graphql.FieldDefinition{
				Name: "__schema",
				Type: graphql.NonNullNamedType("__Schema", nil),
			}, nil
		case "__type":
			return &graphql.FieldDefinition{
				Name: "__type",
				Type: graphql.NamedType("__Type", nil),
				Arguments: graphql.ArgumentDefinitionList{
					{Name: "name", Type: graphql.NonNullNamedType("String", nil)},
				},
			}, nil
		}
	}

	return nil, fmt.Errorf("%s has no field %q: %w", owner.Name, name, ErrUnresolvableField)
}

// leafClassName derives the class name for a field's sub-selection. Names
// nest with underscores; an aliased selection embeds both the alias and the
// field name so that two aliases of one field, or one alias shadowing another
// field, cannot collide.
func leafClassName(classPrefix string, field *graphql.Field) string {
	if field.Alias != field.Name {
		return fmt.Sprintf("%s_%s_%s", classPrefix, templates.ToGo(field.Alias), templates.ToGo(field.Name))
	}
	return fmt.Sprintf("%s_%s", classPrefix, templates.ToGo(field.Name))
}
