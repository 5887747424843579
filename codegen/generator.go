// Package codegen は GraphQL スキーマとクエリドキュメントから、依存順に並んだ
// 型付きアクセサクラスの集合を合成する。
//
// 各オペレーションのセレクションセットをオーナー型に対して走査し、選択された
// データの形ごとに 1 クラスを生成する。生成されたクラスは raw なレスポンス
// ペイロード (map[string]any) をデシリアライズする型付きメソッドと、入力変数を
// シリアライズするメソッドを公開する。クラス間の依存関係はトポロジカル順序で
// 出力される。
package codegen

import (
	"fmt"
	"regexp"

	graphql "github.com/vektah/gqlparser/v2/ast"
)

// operationNamePattern is the identifier constraint for generated root class
// names: a leading uppercase letter followed by at least one alphanumeric or
// underscore character.
var operationNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]+$`)

// Generator synthesizes accessor classes for one schema. It holds the class
// registry and the per-instance enum/input memoization maps; concurrent
// generation for independent schema/query pairs needs independent Generator
// instances.
type Generator struct {
	schema     *graphql.Schema
	registry   *Registry
	converters map[string]ScalarConverter
	enums      map[string]*EnumClass
	inputs     map[string]*InputClass
}

// Option configures a Generator.
type Option func(*Generator)

// WithScalarConverter registers a custom converter for the named scalar type,
// overriding the built-in default mapping.
func WithScalarConverter(scalarName string, conv ScalarConverter) Option {
	return func(g *Generator) {
		g.converters[scalarName] = conv
	}
}

// New creates a Generator for schema.
func New(schema *graphql.Schema, opts ...Option) *Generator {
	g := &Generator{
		schema:     schema,
		registry:   NewRegistry(),
		converters: map[string]ScalarConverter{},
		enums:      map[string]*EnumClass{},
		inputs:     map[string]*InputClass{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate processes every operation in doc and returns all generated classes
// in dependency order: every class appears after the classes it depends on.
func (g *Generator) Generate(doc *graphql.QueryDocument) ([]DefinedClass, error) {
	for _, operation := range doc.Operations {
		if err := g.generateOperation(operation); err != nil {
			return nil, err
		}
	}
	return g.registry.SortedClasses()
}

// Registry exposes the class registry, mainly for inspection in tests.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// generateOperation はオペレーション 1 つに対応する RootClass を合成する。
// オペレーション名の検証はクラス登録より前に行われる。
func (g *Generator) generateOperation(operation *graphql.OperationDefinition) error {
	if !operationNamePattern.MatchString(operation.Name) {
		return fmt.Errorf("operation %q: %w", operation.Name, ErrInvalidOperationName)
	}

	rootDef, err := g.rootTypeFor(operation.Operation)
	if err != nil {
		return err
	}

	variables := make([]*VariableDefinition, 0, len(operation.VariableDefinitions))
	deps := newDepSet()
	for _, v := range operation.VariableDefinitions {
		vd, err := g.resolveVariable(v.Variable, v.Type)
		if err != nil {
			return fmt.Errorf("operation %s: %w", operation.Name, err)
		}
		variables = append(variables, vd)
		deps.add(vd.Dependency)
	}

	methods, methodDeps, err := g.traverseSelections(operation.Name, rootDef, []string{rootDef.Name}, operation.SelectionSet)
	if err != nil {
		return fmt.Errorf("operation %s: %w", operation.Name, err)
	}
	deps.union(methodDeps)

	return g.registry.Register(&RootClass{
		name:      operation.Name,
		opName:    operation.Name,
		opKind:    string(operation.Operation),
		ownerType: rootDef.Name,
		variables: variables,
		methods:   methods,
		deps:      deps,
	})
}

// rootTypeFor returns the schema definition owning an operation kind.
func (g *Generator) rootTypeFor(op graphql.Operation) (*graphql.Definition, error) {
	switch op {
	case graphql.Query:
		if g.schema.Query != nil {
			return g.schema.Query, nil
		}
	case graphql.Mutation:
		if g.schema.Mutation != nil {
			return g.schema.Mutation, nil
		}
	case graphql.Subscription:
		if g.schema.Subscription != nil {
			return g.schema.Subscription, nil
		}
	default:
		return nil, fmt.Errorf("operation kind %q: %w", op, ErrUnsupportedKind)
	}
	return nil, fmt.Errorf("schema declares no %s type: %w", op, ErrUnsupportedKind)
}
