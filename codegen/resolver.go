package codegen

import (
	"fmt"

	"github.com/99designs/gqlgen/codegen/templates"

	graphql "github.com/vektah/gqlparser/v2/ast"
)

// ScalarConverter overrides the default handling of one scalar type. The
// generated code references the converter through its constant name, so the
// name must resolve in the package the output is emitted into.
type ScalarConverter struct {
	// Name is the identifier referenced at emission time, e.g. "DateTimeConverter".
	Name string
	// Signature is the converter's declared target type.
	Signature string
}

// typedOutput is the transient result of resolving a field's type on the
// output (deserialization) path.
type typedOutput struct {
	Signature  string
	Expr       Expr
	Dependency string
}

// typedInput is the transient result of resolving a type on the input
// (serialization) path.
type typedInput struct {
	Signature  string
	Expr       *CoreExpr
	Dependency string
}

// opaqueScalarSignature is the library-wide fallback for scalar types with
// neither a built-in mapping nor a registered converter.
const opaqueScalarSignature = "any"

// builtinScalar holds the fixed default mapping of one built-in scalar.
type builtinScalar struct {
	signature   string
	deserialize string
	serialize   string
}

// 組み込みスカラーのデフォルトマッピング。キャストヘルパーは出力ドキュメントの
// プリアンブルに定義される。
var builtinScalars = map[string]builtinScalar{
	"Boolean":  {"bool", "asBool(<raw>)", "<raw>"},
	"Int":      {"int", "asInt(<raw>)", "<raw>"},
	"Float":    {"float64", "asFloat(<raw>)", "<raw>"},
	"String":   {"string", "asString(<raw>)", "<raw>"},
	"ID":       {"string", "asString(<raw>)", "<raw>"},
	"BigInt":   {"big.Int", "asBigInt(<raw>)", "(<raw>).String()"},
	"Date":     {"time.Time", "asDate(<raw>)", `(<raw>).Format("2006-01-02")`},
	"DateTime": {"time.Time", "asTime(<raw>)", "(<raw>).Format(time.RFC3339)"},
}

// resolveOutput resolves a field type into a signature and deserialization
// expression. className is the class name a composite sub-selection will be
// synthesized under; parents is the fragment-type context of the caller.
func (g *Generator) resolveOutput(className string, typ *graphql.Type, sel graphql.SelectionSet) (*typedOutput, error) {
	wrappers, base := unwrapType(typ)

	def, ok := g.schema.Types[base.NamedType]
	if !ok {
		return nil, fmt.Errorf("type %q not found in schema: %w", base.NamedType, ErrUnsupportedKind)
	}

	var (
		bareSig string
		core    Expr
		dep     string
	)

	switch def.Kind {
	case graphql.Scalar:
		sig, expr, err := g.resolveScalarOutput(def)
		if err != nil {
			return nil, err
		}
		bareSig, core = sig, expr

	case graphql.Enum:
		enum, err := g.enumClass(def)
		if err != nil {
			return nil, err
		}
		bareSig = enum.Name()
		core = &CoreExpr{Text: fmt.Sprintf("New%s(%s)", enum.Name(), rawPlaceholder)}
		dep = enum.Name()

	case graphql.Object, graphql.Interface, graphql.Union:
		leaf, err := g.synthesizeLeaf(className, def, sel)
		if err != nil {
			return nil, err
		}
		bareSig = leaf.Name()
		core = &CoreExpr{Text: fmt.Sprintf("New%s(asMap(%s))", leaf.Name(), rawPlaceholder)}
		dep = leaf.Name()

	default:
		return nil, fmt.Errorf("%s is of kind %s: %w", def.Name, def.Kind, ErrUnsupportedKind)
	}

	return &typedOutput{
		Signature:  wrapSignature(wrappers, bareSig),
		Expr:       newAccessExpr(wrappers, bareSig, 0, core),
		Dependency: dep,
	}, nil
}

// resolveScalarOutput は素のスカラー型を署名とデシリアライズ式に解決する。
// 登録済みコンバーターはデフォルトのマッピングより優先される。
func (g *Generator) resolveScalarOutput(def *graphql.Definition) (string, Expr, error) {
	if conv, ok := g.converters[def.Name]; ok {
		if conv.Name == "" {
			return "", nil, fmt.Errorf("converter for scalar %q: %w", def.Name, ErrMissingConverterName)
		}
		return conv.Signature, &CoreExpr{Text: fmt.Sprintf("%s.Deserialize(%s)", conv.Name, rawPlaceholder)}, nil
	}
	if builtin, ok := builtinScalars[def.Name]; ok {
		return builtin.signature, &CoreExpr{Text: builtin.deserialize}, nil
	}
	return opaqueScalarSignature, &CoreExpr{Text: rawPlaceholder}, nil
}

// resolveBareInput resolves a bare named type on the input path.
func (g *Generator) resolveBareInput(base *graphql.Type) (*typedInput, error) {
	def, ok := g.schema.Types[base.NamedType]
	if !ok {
		return nil, fmt.Errorf("type %q not found in schema: %w", base.NamedType, ErrUnsupportedKind)
	}

	switch def.Kind {
	case graphql.Scalar:
		if conv, ok := g.converters[def.Name]; ok {
			if conv.Name == "" {
				return nil, fmt.Errorf("converter for scalar %q: %w", def.Name, ErrMissingConverterName)
			}
			return &typedInput{
				Signature: conv.Signature,
				Expr:      &CoreExpr{Text: fmt.Sprintf("%s.Serialize(%s)", conv.Name, rawPlaceholder)},
			}, nil
		}
		if builtin, ok := builtinScalars[def.Name]; ok {
			return &typedInput{Signature: builtin.signature, Expr: &CoreExpr{Text: builtin.serialize}}, nil
		}
		return &typedInput{Signature: opaqueScalarSignature, Expr: &CoreExpr{Text: rawPlaceholder}}, nil

	case graphql.Enum:
		enum, err := g.enumClass(def)
		if err != nil {
			return nil, err
		}
		return &typedInput{
			Signature:  enum.Name(),
			Expr:       &CoreExpr{Text: fmt.Sprintf("string(%s)", rawPlaceholder)},
			Dependency: enum.Name(),
		}, nil

	case graphql.InputObject:
		input, err := g.inputClass(def)
		if err != nil {
			return nil, err
		}
		return &typedInput{
			Signature:  input.Name(),
			Expr:       &CoreExpr{Text: fmt.Sprintf("%s.Serialize()", rawPlaceholder)},
			Dependency: input.Name(),
		}, nil

	default:
		return nil, fmt.Errorf("%s is of kind %s in input position: %w", def.Name, def.Kind, ErrUnsupportedKind)
	}
}

// resolveVariable resolves one declared variable or input-object argument
// into a VariableDefinition, applying the wrapper algebra in the input
// direction: one serialize-each layer per ARRAY, one only-if-present guard
// per NILABLE.
func (g *Generator) resolveVariable(name string, typ *graphql.Type) (*VariableDefinition, error) {
	wrappers, base := unwrapType(typ)

	core, err := g.resolveBareInput(base)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}

	return &VariableDefinition{
		Name:        templates.ToGo(name),
		GraphQLName: name,
		Signature:   wrapSignature(wrappers, core.Signature),
		Serializer:  newAccessExpr(wrappers, core.Signature, 0, core.Expr),
		Dependency:  core.Dependency,
	}, nil
}

// enumClass returns the memoized EnumClass for an enum definition,
// registering it on first use. Repeated references through different query
// paths share the single instance.
func (g *Generator) enumClass(def *graphql.Definition) (*EnumClass, error) {
	if enum, ok := g.enums[def.Name]; ok {
		return enum, nil
	}

	values := make([]string, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		values = append(values, v.Name)
	}

	enum := &EnumClass{
		name:     templates.ToGo(def.Name),
		typeName: def.Name,
		values:   values,
	}
	if err := g.registry.Register(enum); err != nil {
		return nil, err
	}
	g.enums[def.Name] = enum
	return enum, nil
}

// inputClass returns the memoized InputClass for an input-object definition,
// registering it on first use. The memo entry is written before the argument
// types resolve so that recursive input-object chains terminate; a chain with
// no nullable break still fails later as a dependency cycle.
func (g *Generator) inputClass(def *graphql.Definition) (*InputClass, error) {
	if input, ok := g.inputs[def.Name]; ok {
		return input, nil
	}

	input := &InputClass{
		name:     templates.ToGo(def.Name),
		typeName: def.Name,
		deps:     newDepSet(),
	}
	if err := g.registry.Register(input); err != nil {
		return nil, err
	}
	g.inputs[def.Name] = input

	for _, field := range def.Fields {
		arg, err := g.resolveVariable(field.Name, field.Type)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", def.Name, err)
		}
		input.args = append(input.args, arg)
		input.deps.add(arg.Dependency)
	}
	return input, nil
}
