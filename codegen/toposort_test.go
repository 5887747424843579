package codegen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_SortedClasses(t *testing.T) {
	t.Parallel()

	type class struct {
		name string
		deps []string
	}

	type args struct {
		classes []class
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
			name: "依存クラスは依存元より前に並ぶ",
			args: args{
				classes: []class{
					{name: "GetUser", deps: []string{"GetUser_User"}},
					{name: "GetUser_User", deps: []string{"GetUser_User_Friend"}},
					{name: "GetUser_User_Friend"},
				},
			},
			want: want{
				order: []string{"GetUser_User_Friend", "GetUser_User", "GetUser"},
			},
		},
		{
			name: "独立したクラス同士は発見順を保つ",
			args: args{
				classes: []class{
					{name: "First"},
					{name: "Second"},
					{name: "Third", deps: []string{"First"}},
				},
			},
			want: want{
				order: []string{"First", "Second", "Third"},
			},
		},
		{
			name: "共有される依存は一度だけ現れる",
			args: args{
				classes: []class{
					{name: "GetUser", deps: []string{"Status"}},
					{name: "ListUsers", deps: []string{"Status"}},
					{name: "Status"},
				},
			},
			want: want{
				order: []string{"Status", "GetUser", "ListUsers"},
			},
		},
		{
			name: "循環依存はエラー",
			args: args{
				classes: []class{
					{name: "A", deps: []string{"B"}},
					{name: "B", deps: []string{"A"}},
				},
			},
			want: want{
				err: ErrDependencyCycle,
			},
		},
		{
			name: "自己依存もエラー",
			args: args{
				classes: []class{
					{name: "A", deps: []string{"A"}},
				},
			},
			want: want{
				err: ErrDependencyCycle,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewRegistry()
			for _, class := range tt.args.classes {
				if err := registry.Register(newTestLeaf(class.name, class.name, class.deps...)); err != nil {
					t.Fatalf("register %s failed: %v", class.name, err)
				}
			}

			sorted, err := registry.SortedClasses()

			if tt.want.err != nil {
				if !errors.Is(err, tt.want.err) {
					t.Errorf("error = %v, want %v", err, tt.want.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}

			names := make([]string, 0, len(sorted))
			for _, class := range sorted {
				names = append(names, class.Name())
			}
			if diff := cmp.Diff(tt.want.order, names); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}
