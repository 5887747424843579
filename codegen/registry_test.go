package codegen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestLeaf(name, ownerType string, deps ...string) *LeafClass {
	leaf := &LeafClass{
		name:      name,
		ownerType: ownerType,
		methods:   newMethodMap(),
		deps:      newDepSet(),
	}
	for _, dep := range deps {
		leaf.deps.add(dep)
	}
	return leaf
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	type args struct {
		classes []DefinedClass
	}

	type want struct {
		err   error
		names []string
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "発見順に登録される",
			args: args{
				classes: []DefinedClass{
					newTestLeaf("GetUser_User", "User"),
					&EnumClass{name: "Status", typeName: "Status"},
				},
			},
			want: want{
				names: []string{"GetUser_User", "Status"},
			},
		},
		{
			name: "同名の再定義はエラー",
			args: args{
				classes: []DefinedClass{
					&EnumClass{name: "Status", typeName: "Status"},
					&EnumClass{name: "Status", typeName: "Status"},
				},
			},
			want: want{
				err: ErrRedefinition,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewRegistry()

			var err error
			for _, class := range tt.args.classes {
				if err = registry.Register(class); err != nil {
					break
				}
			}

			if tt.want.err != nil {
				if !errors.Is(err, tt.want.err) {
					t.Errorf("error = %v, want %v", err, tt.want.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}

			names := make([]string, 0, registry.Len())
			for _, class := range registry.Classes() {
				names = append(names, class.Name())
			}
			if diff := cmp.Diff(tt.want.names, names); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestRegistry_RegisterOrMergeLeaf(t *testing.T) {
	t.Parallel()

	t.Run("同名同オーナー型のリーフはマージされる", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()

		first := newTestLeaf("GetUser_User", "User", "Status")
		first.methods.add("Name", "name", &FieldAccessPath{
			Signature: "string",
			Expr:      &CoreExpr{Text: "asString(<raw>)"},
			OnTypes:   []string{"User"},
		})
		if _, err := registry.RegisterOrMergeLeaf(first); err != nil {
			t.Fatalf("first register failed: %v", err)
		}

		second := newTestLeaf("GetUser_User", "User", "GetUser_User_Friend")
		second.methods.add("Age", "age", &FieldAccessPath{
			Signature: "*int",
			Expr:      &GuardExpr{Inner: &CoreExpr{Text: "asInt(<raw>)"}},
			OnTypes:   []string{"User"},
		})
		merged, err := registry.RegisterOrMergeLeaf(second)
		if err != nil {
			t.Fatalf("merge failed: %v", err)
		}

		if merged != first {
			t.Error("merge must return the already-registered leaf")
		}
		if registry.Len() != 1 {
			t.Errorf("registry size = %d, want 1", registry.Len())
		}

		methodNames := make([]string, 0, 2)
		for _, method := range merged.Methods() {
			methodNames = append(methodNames, method.Name)
		}
		if diff := cmp.Diff([]string{"Name", "Age"}, methodNames); diff != "" {
			t.Errorf("method diff(-want +got): %s", diff)
		}
		if diff := cmp.Diff([]string{"Status", "GetUser_User_Friend"}, merged.Dependencies()); diff != "" {
			t.Errorf("deps diff(-want +got): %s", diff)
		}
	})

	t.Run("同一パスの再マージは冪等", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()

		path := func() *FieldAccessPath {
			return &FieldAccessPath{
				Signature: "string",
				Expr:      &CoreExpr{Text: "asString(<raw>)"},
				OnTypes:   []string{"User"},
			}
		}

		for range 3 {
			leaf := newTestLeaf("GetUser_User", "User")
			leaf.methods.add("Name", "name", path())
			if _, err := registry.RegisterOrMergeLeaf(leaf); err != nil {
				t.Fatalf("merge failed: %v", err)
			}
		}

		merged, _ := registry.Lookup("GetUser_User")
		methods := merged.(*LeafClass).Methods()
		if len(methods) != 1 {
			t.Fatalf("method count = %d, want 1", len(methods))
		}
		if len(methods[0].Paths) != 1 {
			t.Errorf("path count = %d, want 1", len(methods[0].Paths))
		}
	})

	t.Run("オーナー型が異なるリーフのマージはエラー", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()

		if _, err := registry.RegisterOrMergeLeaf(newTestLeaf("GetUser_User", "User")); err != nil {
			t.Fatalf("first register failed: %v", err)
		}
		_, err := registry.RegisterOrMergeLeaf(newTestLeaf("GetUser_User", "Admin"))
		if !errors.Is(err, ErrRedefinition) {
			t.Errorf("error = %v, want %v", err, ErrRedefinition)
		}
	})

	t.Run("リーフ以外と同名の登録はエラー", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()

		if err := registry.Register(&EnumClass{name: "Status", typeName: "Status"}); err != nil {
			t.Fatalf("enum register failed: %v", err)
		}
		_, err := registry.RegisterOrMergeLeaf(newTestLeaf("Status", "Status"))
		if !errors.Is(err, ErrRedefinition) {
			t.Errorf("error = %v, want %v", err, ErrRedefinition)
		}
	})
}
