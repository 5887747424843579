package codegen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vektah/gqlparser/v2"
	graphql "github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

const testSchema = `
type Query {
  user: User
  userByID(id: ID!): User
  users: [User!]!
  node: Node
}

type Mutation {
  createUser(input: CreateUserInput!): User!
}

interface Node {
  id: ID!
}

type User implements Node {
  id: ID!
  name: String!
  age: Int
  status: Status!
  friends: [User!]
  tags: [String]
  createdAt: DateTime!
}

type Bot implements Node {
  id: ID!
  model: String!
}

enum Status {
  ACTIVE
  SUSPENDED
}

input CreateUserInput {
  name: String!
  age: Int
  status: Status
}

scalar DateTime
`

func loadTestSchema(t *testing.T, sdl string) *graphql.Schema {
	t.Helper()

	schema, err := gqlparser.LoadSchema(&graphql.Source{Name: "schema.graphql", Input: sdl})
	if err != nil {
		t.Fatalf("failed to load schema: %v", err)
	}
	return schema
}

func parseTestQuery(t *testing.T, schema *graphql.Schema, query string) *graphql.QueryDocument {
	t.Helper()

	doc, err := parser.ParseQuery(&graphql.Source{Name: "query.graphql", Input: query})
	if err != nil {
		t.Fatalf("failed to parse query: %v", err)
	}
	if errs := validator.Validate(schema, doc); errs != nil {
		t.Fatalf("query validation failed: %v", errs)
	}
	return doc
}

func classNames(classes []DefinedClass) []string {
	names := make([]string, 0, len(classes))
	for _, class := range classes {
		names = append(names, class.Name())
	}
	return names
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	type args struct {
		query   string
		options []Option
	}

	type want struct {
		order []string
		err   error
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "単一オブジェクト選択はリーフとルートの 2 クラスになる",
			args: args{
				query: `query GetUser { user { name age } }`,
			},
			want: want{
				order: []string{"GetUser_User", "GetUser"},
			},
		},
		{
			name: "ネストした選択はアンダースコア連結の名前で深い方から並ぶ",
			args: args{
				query: `query GetUser { user { name friends { id } } }`,
			},
			want: want{
				order: []string{"GetUser_User_Friends", "GetUser_User", "GetUser"},
			},
		},
		{
			name: "列挙型と入力オブジェクトはルートより前に並ぶ",
			args: args{
				query: `mutation CreateUser($input: CreateUserInput!) { createUser(input: $input) { id status } }`,
			},
			want: want{
				order: []string{"Status", "CreateUserInput", "CreateUser_CreateUser", "CreateUser"},
			},
		},
		{
			name: "列挙型は複数オペレーションから参照されても一度だけ登録される",
			args: args{
				query: `query First { user { status } } query Second { users { status } }`,
			},
			want: want{
				order: []string{"Status", "First_User", "First", "Second_Users", "Second"},
			},
		},
		{
			name: "エイリアスされた選択はエイリアスとフィールド名の両方をクラス名に埋め込む",
			args: args{
				query: `query Aliased { best: user { name } }`,
			},
			want: want{
				order: []string{"Aliased_Best_User", "Aliased"},
			},
		},
		{
			name: "小文字始まりのオペレーション名はエラー",
			args: args{
				query: `query getUser { user { name } }`,
			},
			want: want{
				err: ErrInvalidOperationName,
			},
		},
		{
			name: "予約メソッド名を生成するエイリアスはエラー",
			args: args{
				query: `query BadAlias { user { raw: name } }`,
			},
			want: want{
				err: ErrReservedName,
			},
		},
		{
			name: "コンバーター名のないスカラーコンバーターはエラー",
			args: args{
				query: `query WithTime { user { createdAt } }`,
				options: []Option{
					WithScalarConverter("DateTime", ScalarConverter{Signature: "time.Time"}),
				},
			},
			want: want{
				err: ErrMissingConverterName,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schema := loadTestSchema(t, testSchema)
			doc := parseTestQuery(t, schema, tt.args.query)

			generator := New(schema, tt.args.options...)
			classes, err := generator.Generate(doc)

			if tt.want.err != nil {
				if !errors.Is(err, tt.want.err) {
					t.Errorf("error = %v, want %v", err, tt.want.err)
				}
				// 名前の検証は登録より前に走る。
				if errors.Is(err, ErrInvalidOperationName) && generator.Registry().Len() != 0 {
					t.Errorf("registry size = %d, want 0", generator.Registry().Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}

			if diff := cmp.Diff(tt.want.order, classNames(classes)); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestGenerator_Generate_Signatures(t *testing.T) {
	t.Parallel()

	type method struct {
		name      string
		signature string
	}

	type args struct {
		query   string
		options []Option
	}

	type want struct {
		class   string
		methods []method
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "ラッパーがポインタとスライスに写像される",
			args: args{
				query: `query Shapes { user { name age friends { id } tags } }`,
			},
			want: want{
				class: "Shapes_User",
				methods: []method{
					{name: "Name", signature: "string"},
					{name: "Age", signature: "*int"},
					{name: "Friends", signature: "*[]Shapes_User_Friends"},
					{name: "Tags", signature: "*[]*string"},
				},
			},
		},
		{
			name: "non-null リストのルートフィールドはスライスになる",
			args: args{
				query: `query ListUsers { users { id } }`,
			},
			want: want{
				class: "ListUsers",
				methods: []method{
					{name: "Users", signature: "[]ListUsers_Users"},
				},
			},
		},
		{
			name: "コンバーターはデフォルトの不透明なスカラー型を上書きする",
			args: args{
				query: `query WithTime { user { createdAt } }`,
				options: []Option{
					WithScalarConverter("DateTime", ScalarConverter{Name: "DateTimeConverter", Signature: "time.Time"}),
				},
			},
			want: want{
				class: "WithTime_User",
				methods: []method{
					{name: "CreatedAt", signature: "time.Time"},
				},
			},
		},
		{
			name: "コンバーター未登録のカスタムスカラーは any になる",
			args: args{
				query: `query WithTime { user { createdAt } }`,
			},
			want: want{
				class: "WithTime_User",
				methods: []method{
					{name: "CreatedAt", signature: "any"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schema := loadTestSchema(t, testSchema)
			doc := parseTestQuery(t, schema, tt.args.query)

			generator := New(schema, tt.args.options...)
			if _, err := generator.Generate(doc); err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}

			class, ok := generator.Registry().Lookup(tt.want.class)
			if !ok {
				t.Fatalf("class %s not registered", tt.want.class)
			}

			var methods []*FieldAccessMethod
			switch c := class.(type) {
			case *RootClass:
				methods = c.Methods()
			case *LeafClass:
				methods = c.Methods()
			default:
				t.Fatalf("class %s has unexpected kind %s", tt.want.class, class.Kind())
			}

			got := make([]method, 0, len(methods))
			for _, m := range methods {
				got = append(got, method{name: m.Name, signature: m.Paths[0].Signature})
			}
			if diff := cmp.Diff(tt.want.methods, got, cmp.AllowUnexported(method{})); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestGenerator_Generate_Variables(t *testing.T) {
	t.Parallel()

	schema := loadTestSchema(t, testSchema)
	doc := parseTestQuery(t, schema, `query FindUser($id: ID!) { userByID(id: $id) { id } }`)

	generator := New(schema)
	if _, err := generator.Generate(doc); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	class, ok := generator.Registry().Lookup("FindUser")
	if !ok {
		t.Fatal("class FindUser not registered")
	}
	root := class.(*RootClass)

	vars := root.Variables()
	if len(vars) != 1 {
		t.Fatalf("variable count = %d, want 1", len(vars))
	}
	if diff := cmp.Diff("ID", vars[0].Name); diff != "" {
		t.Errorf("name diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff("id", vars[0].GraphQLName); diff != "" {
		t.Errorf("graphql name diff(-want +got): %s", diff)
	}
	if diff := cmp.Diff("string", vars[0].Signature); diff != "" {
		t.Errorf("signature diff(-want +got): %s", diff)
	}
}

func TestGenerator_Generate_FragmentDispatch(t *testing.T) {
	t.Parallel()

	schema := loadTestSchema(t, testSchema)
	doc := parseTestQuery(t, schema, `
query GetNode {
  node {
    id
    ... on User { name }
    ... on Bot { model }
  }
}`)

	generator := New(schema)
	if _, err := generator.Generate(doc); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	class, ok := generator.Registry().Lookup("GetNode_Node")
	if !ok {
		t.Fatal("class GetNode_Node not registered")
	}
	leaf := class.(*LeafClass)

	dispatch := map[string][]string{}
	for _, m := range leaf.Methods() {
		dispatch[m.Name] = m.Paths[0].Dispatch
	}

	want := map[string][]string{
		"ID":    nil, // 無条件パス
		"Name":  {"User"},
		"Model": {"Bot"},
	}
	if diff := cmp.Diff(want, dispatch); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestGenerator_Generate_DuplicateSelectionMerge(t *testing.T) {
	t.Parallel()

	schema := loadTestSchema(t, testSchema)
	doc := parseTestQuery(t, schema, `query Dup { user { name name } }`)

	generator := New(schema)
	if _, err := generator.Generate(doc); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	class, _ := generator.Registry().Lookup("Dup_User")
	leaf := class.(*LeafClass)

	methods := leaf.Methods()
	if len(methods) != 1 {
		t.Fatalf("method count = %d, want 1", len(methods))
	}
	if len(methods[0].Paths) != 1 {
		t.Errorf("path count = %d, want 1", len(methods[0].Paths))
	}
}
