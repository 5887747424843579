package codegen

import (
	"fmt"
	"strings"
)

// Statement は生成コードにおける 1 ステートメントを表す。
//
// String メソッドは指定されたインデントレベルで文字列表現を返す。
type Statement interface {
	String(indent int) string
}

// VariableDecl は変数宣言を表す。
//
// 例: var typeName string
type VariableDecl struct {
	Name string // 変数名
	Type string // 変数の型
}

// String は変数宣言の文字列表現を返す。
func (v *VariableDecl) String(_ int) string {
	return fmt.Sprintf("var %s %s", v.Name, v.Type)
}

// IfStatement は if 文を表す。
//
// 例:
//
//	if raw0 == nil {
//	    // Body
//	}
type IfStatement struct {
	Condition string      // 条件式
	Body      []Statement // if ブロック内のステートメント
}

// String は if 文の文字列表現を返す。
func (i *IfStatement) String(indent int) string {
	var buf strings.Builder
	tabs := strings.Repeat("\t", indent)

	buf.WriteString(fmt.Sprintf("if %s {\n", i.Condition))
	for _, stmt := range i.Body {
		buf.WriteString(tabs + "\t")
		buf.WriteString(stmt.String(indent + 1))
		buf.WriteString("\n")
	}
	buf.WriteString(tabs + "}")

	return buf.String()
}

// RangeStatement は range ループを表す。
//
// 例:
//
//	for _, v1 := range asList(raw0) {
//	    // Body
//	}
type RangeStatement struct {
	Var  string      // 束縛される要素変数名
	Expr string      // range の対象となる式
	Body []Statement // ループ本体のステートメント
}

// String は range ループの文字列表現を返す。
func (r *RangeStatement) String(indent int) string {
	var buf strings.Builder
	tabs := strings.Repeat("\t", indent)

	buf.WriteString(fmt.Sprintf("for _, %s := range %s {\n", r.Var, r.Expr))
	for _, stmt := range r.Body {
		buf.WriteString(tabs + "\t")
		buf.WriteString(stmt.String(indent + 1))
		buf.WriteString("\n")
	}
	buf.WriteString(tabs + "}")

	return buf.String()
}

// SwitchStatement は switch 文を表す。
//
// 例:
//
//	switch t.Typename() {
//	case "Human", "Droid":
//	    // Body
//	}
type SwitchStatement struct {
	Expr  string       // switch の式
	Cases []SwitchCase // case のリスト
}

// SwitchCase は switch 文の単一の case を表す。複数の値を持てる。
type SwitchCase struct {
	Values []string    // case の値（例: case "Human", "Droid": における値のリスト)
	Body   []Statement // この case で実行するステートメント
}

// String は switch 文の文字列表現を返す。
func (s *SwitchStatement) String(indent int) string {
	var buf strings.Builder
	tabs := strings.Repeat("\t", indent)

	buf.WriteString(fmt.Sprintf("switch %s {\n", s.Expr))
	for _, c := range s.Cases {
		quoted := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			quoted = append(quoted, fmt.Sprintf("%q", v))
		}
		buf.WriteString(tabs + fmt.Sprintf("case %s:\n", strings.Join(quoted, ", ")))
		for _, stmt := range c.Body {
			buf.WriteString(tabs + "\t")
			buf.WriteString(stmt.String(indent + 1))
			buf.WriteString("\n")
		}
	}
	buf.WriteString(tabs + "}")

	return buf.String()
}

// Assignment は代入文を表す。
//
// 例: out1 = append(out1, v)
type Assignment struct {
	Target string // 代入先
	Value  string // 代入する値
}

// String は代入文の文字列表現を返す。
func (a *Assignment) String(_ int) string {
	return fmt.Sprintf("%s = %s", a.Target, a.Value)
}

// ReturnStatement は return 文を表す。
//
// 例: return nil
type ReturnStatement struct {
	Value string // 返す値（空の場合は単なる return）
}

// String は return 文の文字列表現を返す。
func (r *ReturnStatement) String(_ int) string {
	if r.Value == "" {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value)
}

// ContinueStatement は continue 文を表す。
// 囲んでいる map ブロック内で nil 要素をスキップするために使われる。
type ContinueStatement struct{}

// String は continue をそのまま返す。
func (c *ContinueStatement) String(_ int) string {
	return "continue"
}

// RawStatement は生の Go コードを表す。
//
// String() メソッドで文字列をそのまま返す。
type RawStatement struct {
	Code string // Go コード
}

// String は生のコードをそのまま返す。
func (r *RawStatement) String(_ int) string {
	return r.Code
}
