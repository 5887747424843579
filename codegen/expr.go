package codegen

import (
	"fmt"
	"strings"
)

// rawPlaceholder stands in for the raw value a (de)serialization expression
// operates on. It is substituted with the concrete variable name when the
// expression tree is rendered to statements.
const rawPlaceholder = "<raw>"

// Expr is a structured (de)serialization expression. Trees are built by the
// wrapper algebra (see wrapper.go) and by the scalar/enum/input resolver, and
// rendered to statements only at emission time.
type Expr interface {
	exprNode()
}

// CoreExpr は最内の変換式を表す。Text は rawPlaceholder を含む。
//
// 例: asString(<raw>), NewStatus(<raw>), <raw>.Serialize()
type CoreExpr struct {
	Text string
}

// GuardExpr は NILABLE 層を表す。値が存在しない場合は短絡する。
// デシリアライズでは最外レベルで早期 return、map 本体内では continue になる。
type GuardExpr struct {
	Inner Expr
}

// MapExpr は ARRAY 層を表す。各要素に内側の式を適用する。
type MapExpr struct {
	Var     string // 束縛される要素変数（ネスト深さごとに v1, v2, ...）
	ElemSig string // 構築されるスライスの要素型
	Inner   Expr
}

func (*CoreExpr) exprNode()  {}
func (*GuardExpr) exprNode() {}
func (*MapExpr) exprNode()   {}

// renderAccess renders a deserialization expression tree into statements that
// evaluate it against the raw value held in cur. It returns the statements
// plus the value expression producing the final result.
//
// level counts enclosing map bodies. The guard exit form depends on it: a
// full early return at level 0 versus a skip-this-iteration continue inside a
// map body, because the latter executes inside the loop emitted by the
// enclosing MapExpr.
func renderAccess(e Expr, cur string, level int) ([]Statement, string) {
	switch expr := e.(type) {
	case *CoreExpr:
		return nil, strings.ReplaceAll(expr.Text, rawPlaceholder, cur)

	case *GuardExpr:
		var exit Statement
		if level == 0 {
			exit = &ReturnStatement{Value: "nil"}
		} else {
			exit = &ContinueStatement{}
		}
		stmts := []Statement{
			&IfStatement{
				Condition: fmt.Sprintf("%s == nil", cur),
				Body:      []Statement{exit},
			},
		}
		innerStmts, innerVal := renderAccess(expr.Inner, cur, level)
		stmts = append(stmts, innerStmts...)
		return stmts, fmt.Sprintf("ptrOf(%s)", innerVal)

	case *MapExpr:
		outVar := "out" + strings.TrimPrefix(expr.Var, "v")
		innerStmts, innerVal := renderAccess(expr.Inner, expr.Var, level+1)
		body := append(innerStmts, &Assignment{
			Target: outVar,
			Value:  fmt.Sprintf("append(%s, %s)", outVar, innerVal),
		})
		stmts := []Statement{
			&RawStatement{Code: fmt.Sprintf("%s := make([]%s, 0)", outVar, expr.ElemSig)},
			&RangeStatement{
				Var:  expr.Var,
				Expr: fmt.Sprintf("asList(%s)", cur),
				Body: body,
			},
		}
		return stmts, outVar
	}
	return nil, cur
}

// renderSerialize renders a serializer expression tree into statements that
// serialize the value held in cur and assign the result to target. Unlike
// renderAccess it builds bottom-up with no early exits: a Guard layer only
// serializes when the value is present, a Map layer serializes each element.
func renderSerialize(e Expr, cur, target string) []Statement {
	switch expr := e.(type) {
	case *CoreExpr:
		return []Statement{
			&Assignment{Target: target, Value: strings.ReplaceAll(expr.Text, rawPlaceholder, cur)},
		}

	case *GuardExpr:
		return []Statement{
			&IfStatement{
				Condition: fmt.Sprintf("%s != nil", cur),
				Body:      renderSerialize(expr.Inner, fmt.Sprintf("(*%s)", cur), target),
			},
		}

	case *MapExpr:
		depth := strings.TrimPrefix(expr.Var, "v")
		arrVar := "a" + depth
		elemVar := "e" + depth
		body := []Statement{&VariableDecl{Name: elemVar, Type: "any"}}
		body = append(body, renderSerialize(expr.Inner, expr.Var, elemVar)...)
		body = append(body, &Assignment{
			Target: arrVar,
			Value:  fmt.Sprintf("append(%s, %s)", arrVar, elemVar),
		})
		return []Statement{
			&RawStatement{Code: fmt.Sprintf("%s := make([]any, 0, len(%s))", arrVar, cur)},
			&RangeStatement{Var: expr.Var, Expr: cur, Body: body},
			&Assignment{Target: target, Value: arrVar},
		}
	}
	return nil
}

// exprFingerprint returns a stable textual identity for an expression tree.
// Path merging uses it to keep merges idempotent.
func exprFingerprint(e Expr) string {
	switch expr := e.(type) {
	case *CoreExpr:
		return expr.Text
	case *GuardExpr:
		return "guard(" + exprFingerprint(expr.Inner) + ")"
	case *MapExpr:
		return "map[" + expr.ElemSig + "](" + exprFingerprint(expr.Inner) + ")"
	}
	return ""
}
