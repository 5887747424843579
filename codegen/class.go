package codegen

// ClassKind tags the four variants of generated class.
type ClassKind string

const (
	KindOperation    ClassKind = "OPERATION"
	KindObjectResult ClassKind = "OBJECT_RESULT"
	KindInputObject  ClassKind = "INPUT_OBJECT"
	KindEnum         ClassKind = "ENUM"
)

// DefinedClass is one generated class definition. Names are unique across the
// whole registry; Dependencies lists the names of other classes referenced by
// the class members, in first-reference order.
type DefinedClass interface {
	Name() string
	Kind() ClassKind
	Dependencies() []string
}

// FieldAccessPath is one resolution of an accessor method. A method carries
// multiple paths when the same name is reachable through different inline
// fragment type conditions, potentially with different return shapes.
type FieldAccessPath struct {
	Signature string
	Expr      Expr
	// OnTypes is the list of type names applicable via the enclosing fragment
	// conditions when this path was synthesized, outermost first.
	OnTypes []string
	// Dispatch lists the concrete type names the generated accessor matches
	// against the runtime __typename for this path. Empty means the path
	// applies unconditionally.
	Dispatch []string
}

// key は重複パス検出用の安定した識別子を返す。
func (p *FieldAccessPath) key() string {
	k := p.Signature + "|" + exprFingerprint(p.Expr) + "|"
	for _, t := range p.OnTypes {
		k += t + ","
	}
	return k
}

// FieldAccessMethod は 1 つのアクセサメソッドを表す。
type FieldAccessMethod struct {
	Name string
	// JSONKey is the raw response key the accessor reads, i.e. the field
	// alias as sent on the wire.
	JSONKey string
	Paths   []*FieldAccessPath
}

// methodMap is an insertion-ordered method-name-to-method mapping.
type methodMap struct {
	order  []string
	byName map[string]*FieldAccessMethod
}

func newMethodMap() *methodMap {
	return &methodMap{byName: map[string]*FieldAccessMethod{}}
}

// add appends path to the method registered under name, creating the method
// on first use. Duplicate paths (same signature, expression and fragment
// types) are dropped so that repeated merges stay idempotent.
func (m *methodMap) add(name, jsonKey string, path *FieldAccessPath) {
	method, ok := m.byName[name]
	if !ok {
		method = &FieldAccessMethod{Name: name, JSONKey: jsonKey}
		m.byName[name] = method
		m.order = append(m.order, name)
	}
	for _, existing := range method.Paths {
		if existing.key() == path.key() {
			return
		}
	}
	method.Paths = append(method.Paths, path)
}

// merge concatenates the methods of other into m, path list by path list.
func (m *methodMap) merge(other *methodMap) {
	for _, name := range other.order {
		method := other.byName[name]
		for _, path := range method.Paths {
			m.add(name, method.JSONKey, path)
		}
	}
}

// methods returns the methods in insertion order.
func (m *methodMap) methods() []*FieldAccessMethod {
	out := make([]*FieldAccessMethod, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.byName[name])
	}
	return out
}

// depSet is an insertion-ordered set of class names.
type depSet struct {
	order []string
	seen  map[string]struct{}
}

func newDepSet() *depSet {
	return &depSet{seen: map[string]struct{}{}}
}

func (s *depSet) add(name string) {
	if name == "" {
		return
	}
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
}

func (s *depSet) union(other *depSet) {
	for _, name := range other.order {
		s.add(name)
	}
}

func (s *depSet) list() []string {
	return s.order
}

// VariableDefinition describes one operation variable or input-object
// argument: the generated field name, the original schema name needed for
// wire-level binding, the computed signature, and the serializer expression.
type VariableDefinition struct {
	Name        string
	GraphQLName string
	Signature   string
	Serializer  Expr
	Dependency  string
}

// RootClass is the result accessor for one operation.
type RootClass struct {
	name      string
	opName    string
	opKind    string // query, mutation or subscription
	ownerType string
	variables []*VariableDefinition
	methods   *methodMap
	deps      *depSet
}

func (c *RootClass) Name() string           { return c.name }
func (c *RootClass) Kind() ClassKind        { return KindOperation }
func (c *RootClass) Dependencies() []string { return c.deps.list() }
func (c *RootClass) OperationName() string  { return c.opName }
func (c *RootClass) OperationKind() string  { return c.opKind }
func (c *RootClass) OwnerType() string      { return c.ownerType }
func (c *RootClass) Methods() []*FieldAccessMethod {
	return c.methods.methods()
}
func (c *RootClass) Variables() []*VariableDefinition { return c.variables }

// LeafClass represents one distinct object-selection shape.
type LeafClass struct {
	name      string
	ownerType string
	methods   *methodMap
	deps      *depSet
}

func (c *LeafClass) Name() string           { return c.name }
func (c *LeafClass) Kind() ClassKind        { return KindObjectResult }
func (c *LeafClass) Dependencies() []string { return c.deps.list() }
func (c *LeafClass) OwnerType() string      { return c.ownerType }
func (c *LeafClass) Methods() []*FieldAccessMethod {
	return c.methods.methods()
}

// InputClass represents one input-object schema type used as a variable type.
type InputClass struct {
	name     string
	typeName string
	args     []*VariableDefinition
	deps     *depSet
}

func (c *InputClass) Name() string                     { return c.name }
func (c *InputClass) Kind() ClassKind                  { return KindInputObject }
func (c *InputClass) Dependencies() []string           { return c.deps.list() }
func (c *InputClass) TypeName() string                 { return c.typeName }
func (c *InputClass) Arguments() []*VariableDefinition { return c.args }

// EnumClass represents one enum schema type.
type EnumClass struct {
	name     string
	typeName string
	values   []string
}

func (c *EnumClass) Name() string           { return c.name }
func (c *EnumClass) Kind() ClassKind        { return KindEnum }
func (c *EnumClass) Dependencies() []string { return nil }
func (c *EnumClass) TypeName() string       { return c.typeName }
func (c *EnumClass) Values() []string       { return c.values }
