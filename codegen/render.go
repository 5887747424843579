package codegen

import (
	"fmt"
	"strings"

	"github.com/99designs/gqlgen/codegen/templates"
)

// RenderedClass is one generated class definition rendered to source text,
// tagged with its variant and dependency names.
type RenderedClass struct {
	Name         string
	Kind         ClassKind
	Dependencies []string
	Source       string
}

// Renderer turns class definitions into Go source text. The statement AST
// (statement.go) carries the method bodies; the renderer only assembles
// declarations around them.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderUnits renders each class into its own unit, preserving the given
// (dependency) order.
func (r *Renderer) RenderUnits(classes []DefinedClass) ([]*RenderedClass, error) {
	units := make([]*RenderedClass, 0, len(classes))
	for _, c := range classes {
		unit, err := r.Render(c)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// RenderDocument renders all classes into one combined document: the package
// clause, the runtime preamble, then every class in the given order.
func (r *Renderer) RenderDocument(pkg string, classes []DefinedClass) (string, error) {
	var buf strings.Builder

	buf.WriteString("// Code generated by accessorgen, DO NOT EDIT.\n\n")
	buf.WriteString(fmt.Sprintf("package %s\n\n", pkg))
	buf.WriteString(preamble)

	for _, c := range classes {
		unit, err := r.Render(c)
		if err != nil {
			return "", err
		}
		buf.WriteString("\n")
		buf.WriteString(unit.Source)
	}

	return buf.String(), nil
}

// Render renders one class definition.
func (r *Renderer) Render(c DefinedClass) (*RenderedClass, error) {
	var (
		source string
		err    error
	)
	switch class := c.(type) {
	case *RootClass:
		source, err = r.renderRoot(class)
	case *LeafClass:
		source, err = r.renderLeaf(class)
	case *InputClass:
		source = r.renderInput(class)
	case *EnumClass:
		source = r.renderEnum(class)
	default:
		return nil, fmt.Errorf("unknown class variant %T", c)
	}
	if err != nil {
		return nil, err
	}

	return &RenderedClass{
		Name:         c.Name(),
		Kind:         c.Kind(),
		Dependencies: c.Dependencies(),
		Source:       source,
	}, nil
}

// renderRoot renders an operation's result accessor plus, when the operation
// declares variables, its serializable variables struct.
func (r *Renderer) renderRoot(c *RootClass) (string, error) {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("// %s is the result accessor for the %s operation %s.\n",
		c.Name(), c.OperationKind(), c.OperationName()))
	r.writeAccessorClass(&buf, c.Name(), c.OwnerType(), c.Methods())

	if vars := c.Variables(); len(vars) > 0 {
		buf.WriteString("\n")
		r.writeVariablesStruct(&buf, c.Name()+"Variables", vars)
	}

	return buf.String(), nil
}

// renderLeaf renders one object-selection shape.
func (r *Renderer) renderLeaf(c *LeafClass) (string, error) {
	var buf strings.Builder
	r.writeAccessorClass(&buf, c.Name(), c.OwnerType(), c.Methods())
	return buf.String(), nil
}

// writeAccessorClass writes the struct, constructor, the implicit Typename
// and Raw members, and one accessor method per synthesized field.
func (r *Renderer) writeAccessorClass(buf *strings.Builder, name, ownerType string, methods []*FieldAccessMethod) {
	buf.WriteString(fmt.Sprintf("type %s struct {\n\traw map[string]any\n}\n\n", name))

	buf.WriteString(fmt.Sprintf("func New%s(raw map[string]any) %s {\n\treturn %s{raw: raw}\n}\n\n", name, name, name))

	buf.WriteString(fmt.Sprintf(`func (t %s) Typename() string {
	if v, ok := t.raw["__typename"]; ok {
		return asString(v)
	}
	return %q
}

`, name, ownerType))

	buf.WriteString(fmt.Sprintf("func (t %s) Raw() map[string]any {\n\treturn t.raw\n}\n", name))

	for _, method := range methods {
		buf.WriteString("\n")
		buf.WriteString(r.formatAccessor(name, method))
	}
}

// formatAccessor renders one accessor method. A method with a single
// unconditional path gets a straight-line body; fragment-scoped paths
// dispatch on the runtime type name, first matching type wins, with an
// unconditional path (if any) as the default arm.
func (r *Renderer) formatAccessor(recv string, method *FieldAccessMethod) string {
	sig := methodSignature(method)

	var body []Statement
	if len(method.Paths) == 1 && len(method.Paths[0].Dispatch) == 0 {
		body = pathStatements(method.Paths[0], method.JSONKey)
	} else {
		body = dispatchStatements(method, sig)
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("func (t %s) %s() %s {\n", recv, method.Name, sig))
	for _, stmt := range body {
		buf.WriteString("\t")
		buf.WriteString(stmt.String(1))
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

// pathStatements renders the straight-line body evaluating one path.
func pathStatements(path *FieldAccessPath, jsonKey string) []Statement {
	stmts := []Statement{
		&RawStatement{Code: fmt.Sprintf("raw := t.raw[%q]", jsonKey)},
	}
	exprStmts, value := renderAccess(path.Expr, "raw", 0)
	stmts = append(stmts, exprStmts...)
	return append(stmts, &ReturnStatement{Value: value})
}

// dispatchStatements renders a multi-path accessor body. Type names already
// claimed by an earlier path are dropped from later cases, which encodes the
// first-matching-type-wins ordering.
func dispatchStatements(method *FieldAccessMethod, sig string) []Statement {
	var (
		cases       []SwitchCase
		defaultBody []Statement
	)
	claimed := map[string]struct{}{}

	for _, path := range method.Paths {
		if len(path.Dispatch) == 0 {
			if defaultBody == nil {
				defaultBody = pathStatements(path, method.JSONKey)
			}
			continue
		}

		values := make([]string, 0, len(path.Dispatch))
		for _, name := range path.Dispatch {
			if _, ok := claimed[name]; ok {
				continue
			}
			claimed[name] = struct{}{}
			values = append(values, name)
		}
		if len(values) == 0 {
			continue
		}
		cases = append(cases, SwitchCase{Values: values, Body: pathStatements(path, method.JSONKey)})
	}

	stmts := []Statement{&SwitchStatement{Expr: "t.Typename()", Cases: cases}}
	if defaultBody != nil {
		stmts = append(stmts, defaultBody...)
	} else {
		stmts = append(stmts, &ReturnStatement{Value: zeroValue(sig)})
	}
	return stmts
}

// methodSignature is the accessor's return type: the shared path signature,
// or the opaque signature when fragment branches disagree on the shape.
func methodSignature(method *FieldAccessMethod) string {
	sig := method.Paths[0].Signature
	for _, path := range method.Paths[1:] {
		if path.Signature != sig {
			return opaqueScalarSignature
		}
	}
	return sig
}

// writeVariablesStruct writes the typed variable struct and its Serialize
// method. Absent nilable variables are omitted from the serialized map.
func (r *Renderer) writeVariablesStruct(buf *strings.Builder, name string, vars []*VariableDefinition) {
	buf.WriteString(fmt.Sprintf("type %s struct {\n", name))
	for _, v := range vars {
		buf.WriteString(fmt.Sprintf("\t%s %s\n", v.Name, v.Signature))
	}
	buf.WriteString("}\n\n")

	buf.WriteString(fmt.Sprintf("func (v %s) Serialize() map[string]any {\n", name))
	buf.WriteString(fmt.Sprintf("\tout := make(map[string]any, %d)\n", len(vars)))
	for _, v := range vars {
		for _, stmt := range renderSerialize(v.Serializer, "v."+v.Name, fmt.Sprintf("out[%q]", v.GraphQLName)) {
			buf.WriteString("\t")
			buf.WriteString(stmt.String(1))
			buf.WriteString("\n")
		}
	}
	buf.WriteString("\treturn out\n}\n")
}

// renderInput renders one input-object class.
func (r *Renderer) renderInput(c *InputClass) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("// %s is the %s input type of the schema.\n", c.Name(), c.TypeName()))
	r.writeVariablesStruct(&buf, c.Name(), c.Arguments())
	return buf.String()
}

// renderEnum renders one enum class: a string-based type, one constant per
// serialized value name, and the deserialization constructor.
func (r *Renderer) renderEnum(c *EnumClass) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("// %s is the %s enum type of the schema.\n", c.Name(), c.TypeName()))
	buf.WriteString(fmt.Sprintf("type %s string\n\n", c.Name()))

	buf.WriteString("const (\n")
	for _, value := range c.Values() {
		buf.WriteString(fmt.Sprintf("\t%s%s %s = %q\n",
			c.Name(), templates.ToGo(strings.ToLower(value)), c.Name(), value))
	}
	buf.WriteString(")\n\n")

	buf.WriteString(fmt.Sprintf("func New%s(raw any) %s {\n\treturn %s(asString(raw))\n}\n",
		c.Name(), c.Name(), c.Name()))

	return buf.String()
}

// zeroValue is the zero literal for a signature, used as the fallthrough
// result of a dispatching accessor.
func zeroValue(sig string) string {
	switch {
	case strings.HasPrefix(sig, "*"), strings.HasPrefix(sig, "[]"), sig == opaqueScalarSignature:
		return "nil"
	case sig == "string":
		return `""`
	case sig == "int", sig == "float64":
		return "0"
	case sig == "bool":
		return "false"
	default:
		return fmt.Sprintf("*new(%s)", sig)
	}
}

// preamble is the runtime support emitted once per combined document: the
// base interface every generated class implements and the cast helpers the
// deserialization expressions call.
const preamble = `import (
	"math/big"
	"time"
)

// Response is the base interface implemented by every generated accessor class.
type Response interface {
	Typename() string
	Raw() map[string]any
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func asBigInt(v any) big.Int {
	var b big.Int
	switch n := v.(type) {
	case string:
		b.SetString(n, 10)
	case float64:
		b.SetInt64(int64(n))
	}
	return b
}

func asTime(v any) time.Time {
	t, _ := time.Parse(time.RFC3339, asString(v))
	return t
}

func asDate(v any) time.Time {
	t, _ := time.Parse("2006-01-02", asString(v))
	return t
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func ptrOf[T any](v T) *T {
	return &v
}
`
