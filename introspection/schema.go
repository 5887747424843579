package introspection

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// builtins covered by the validator prelude. Introspection reports them, so
// they must be dropped before the schema document is re-validated.
var preludeTypes = map[string]struct{}{
	"Int":     {},
	"Float":   {},
	"String":  {},
	"Boolean": {},
	"ID":      {},
}

var preludeDirectives = map[string]struct{}{
	"skip":        {},
	"include":     {},
	"deprecated":  {},
	"specifiedBy": {},
	"oneOf":       {},
}

// SchemaFromIntrospection rebuilds a schema document from an introspection
// query response. source はエラー位置表示用のソース名 (通常はエンドポイント URL)。
func SchemaFromIntrospection(source string, query Query) *ast.SchemaDocument {
	position := &ast.Position{Src: &ast.Source{Name: source}}

	doc := &ast.SchemaDocument{
		Schema: []*ast.SchemaDefinition{{
			OperationTypes: operationTypes(query),
			Position:       position,
		}},
	}

	for _, typ := range query.Schema.Types {
		if typ.Name == nil || strings.HasPrefix(*typ.Name, "__") {
			continue
		}
		if _, ok := preludeTypes[*typ.Name]; ok {
			continue
		}
		doc.Definitions = append(doc.Definitions, typeDefinition(typ, position))
	}

	for _, directive := range query.Schema.Directives {
		if _, ok := preludeDirectives[directive.Name]; ok {
			continue
		}
		doc.Directives = append(doc.Directives, directiveDefinition(directive, position))
	}

	return doc
}

func operationTypes(query Query) []*ast.OperationTypeDefinition {
	var ops []*ast.OperationTypeDefinition
	if name := query.Schema.QueryType.Name; name != nil {
		ops = append(ops, &ast.OperationTypeDefinition{Operation: ast.Query, Type: *name})
	}
	if mutation := query.Schema.MutationType; mutation != nil && mutation.Name != nil {
		ops = append(ops, &ast.OperationTypeDefinition{Operation: ast.Mutation, Type: *mutation.Name})
	}
	if subscription := query.Schema.SubscriptionType; subscription != nil && subscription.Name != nil {
		ops = append(ops, &ast.OperationTypeDefinition{Operation: ast.Subscription, Type: *subscription.Name})
	}

	return ops
}

func typeDefinition(typ *FullType, position *ast.Position) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.DefinitionKind(typ.Kind),
		Name:        *typ.Name,
		Description: deref(typ.Description),
		Position:    position,
	}

	for _, field := range typ.Fields {
		fieldDef := &ast.FieldDefinition{
			Name:        field.Name,
			Description: deref(field.Description),
			Type:        typeRef(&field.Type, position),
			Position:    position,
		}
		for _, arg := range field.Args {
			fieldDef.Arguments = append(fieldDef.Arguments, inputValue(arg, position))
		}
		def.Fields = append(def.Fields, fieldDef)
	}

	for _, input := range typ.InputFields {
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:         input.Name,
			Description:  deref(input.Description),
			Type:         typeRef(&input.Type, position),
			DefaultValue: defaultValue(input.DefaultValue, position),
			Position:     position,
		})
	}

	for _, iface := range typ.Interfaces {
		if iface.Name != nil {
			def.Interfaces = append(def.Interfaces, *iface.Name)
		}
	}

	for _, enumValue := range typ.EnumValues {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name:        enumValue.Name,
			Description: deref(enumValue.Description),
			Position:    position,
		})
	}

	// メンバー型のリストを持つのはユニオンだけ。インターフェースの実装型は
	// 実装側の定義から復元される。
	if typ.Kind == TypeKindUnion {
		for _, possible := range typ.PossibleTypes {
			if possible.Name != nil {
				def.Types = append(def.Types, *possible.Name)
			}
		}
	}

	return def
}

func directiveDefinition(directive *DirectiveType, position *ast.Position) *ast.DirectiveDefinition {
	def := &ast.DirectiveDefinition{
		Name:        directive.Name,
		Description: deref(directive.Description),
		Position:    position,
	}
	for _, location := range directive.Locations {
		def.Locations = append(def.Locations, ast.DirectiveLocation(location))
	}
	for _, arg := range directive.Args {
		def.Arguments = append(def.Arguments, inputValue(arg, position))
	}

	return def
}

func inputValue(input *InputValue, position *ast.Position) *ast.ArgumentDefinition {
	return &ast.ArgumentDefinition{
		Name:         input.Name,
		Description:  deref(input.Description),
		Type:         typeRef(&input.Type, position),
		DefaultValue: defaultValue(input.DefaultValue, position),
		Position:     position,
	}
}

// typeRef unwinds the introspection type chain into the wrapped AST type.
func typeRef(ref *TypeRef, position *ast.Position) *ast.Type {
	switch ref.Kind {
	case TypeKindNonNull:
		inner := typeRef(ref.OfType, position)
		inner.NonNull = true
		return inner
	case TypeKindList:
		return &ast.Type{Elem: typeRef(ref.OfType, position), Position: position}
	default:
		return &ast.Type{NamedType: *ref.Name, Position: position}
	}
}

// defaultValue carries the serialized default through as a raw value. The
// validator only needs its presence, not a reparse of the literal.
func defaultValue(value *string, position *ast.Position) *ast.Value {
	if value == nil {
		return nil
	}

	return &ast.Value{Raw: *value, Kind: ast.StringValue, Position: position}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
