package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	graphql "github.com/vektah/gqlparser/v2/ast"
)

func TestUnwrapType(t *testing.T) {
	t.Parallel()

	type args struct {
		typ *graphql.Type
	}

	type want struct {
		wrappers []Wrapper
		base     string
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "non-null スカラーはラッパーなし",
			args: args{
				typ: graphql.NonNullNamedType("String", nil),
			},
			want: want{
				wrappers: nil,
				base:     "String",
			},
		},
		{
			name: "nullable スカラーは NILABLE 1 層",
			args: args{
				typ: graphql.NamedType("Int", nil),
			},
			want: want{
				wrappers: []Wrapper{WrapperNilable},
				base:     "Int",
			},
		},
		{
			name: "non-null リストの non-null 要素は ARRAY のみ",
			args: args{
				typ: graphql.NonNullListType(graphql.NonNullNamedType("User", nil), nil),
			},
			want: want{
				wrappers: []Wrapper{WrapperArray},
				base:     "User",
			},
		},
		{
			name: "nullable リストの nullable 要素は NILABLE/ARRAY/NILABLE",
			args: args{
				typ: graphql.ListType(graphql.NamedType("String", nil), nil),
			},
			want: want{
				wrappers: []Wrapper{WrapperNilable, WrapperArray, WrapperNilable},
				base:     "String",
			},
		},
		{
			name: "ネストしたリストは外側から順にタグが積まれる",
			args: args{
				typ: graphql.NonNullListType(graphql.ListType(graphql.NonNullNamedType("Int", nil), nil), nil),
			},
			want: want{
				wrappers: []Wrapper{WrapperArray, WrapperNilable, WrapperArray},
				base:     "Int",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrappers, base := unwrapType(tt.args.typ)

			if diff := cmp.Diff(tt.want.wrappers, wrappers); diff != "" {
				t.Errorf("wrappers diff(-want +got): %s", diff)
			}
			if diff := cmp.Diff(tt.want.base, base.NamedType); diff != "" {
				t.Errorf("base diff(-want +got): %s", diff)
			}
		})
	}
}

func TestWrapSignature(t *testing.T) {
	t.Parallel()

	type args struct {
		wrappers []Wrapper
		bare     string
	}

	type want struct {
		signature string
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "ラッパーなしは素の署名のまま",
			args: args{
				wrappers: nil,
				bare:     "string",
			},
			want: want{
				signature: "string",
			},
		},
		{
			name: "NILABLE はポインタになる",
			args: args{
				wrappers: []Wrapper{WrapperNilable},
				bare:     "int",
			},
			want: want{
				signature: "*int",
			},
		},
		{
			name: "NILABLE/ARRAY はスライスのポインタになる",
			args: args{
				wrappers: []Wrapper{WrapperNilable, WrapperArray},
				bare:     "string",
			},
			want: want{
				signature: "*[]string",
			},
		},
		{
			name: "NILABLE/ARRAY/NILABLE はポインタ要素のスライスのポインタになる",
			args: args{
				wrappers: []Wrapper{WrapperNilable, WrapperArray, WrapperNilable},
				bare:     "string",
			},
			want: want{
				signature: "*[]*string",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := wrapSignature(tt.args.wrappers, tt.args.bare)

			if diff := cmp.Diff(tt.want.signature, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}
