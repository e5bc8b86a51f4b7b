package translate

import (
	"testing"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/target"
)

func TestTranslateCondFoldsRightToLeft(t *testing.T) {
	ctx, e := newTestContext()
	cond := &ast.CondNode{Clauses: []ast.CondClause{
		{Test: &ast.Atom{Name: "true"}, Body: &ast.Literal{Kind: ast.IntLit, Value: 1}},
		{Test: &ast.Atom{Name: "false"}, Body: &ast.Literal{Kind: ast.IntLit, Value: 2}},
	}}
	node, err := translateCond(cond, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := node.(*target.ConditionalExpression)
	if !ok {
		t.Fatalf("expected a ConditionalExpression, got %T", node)
	}
	inner, ok := outer.Alternate.(*target.ConditionalExpression)
	if !ok {
		t.Fatalf("expected the alternate branch to itself be a ConditionalExpression, got %T", outer.Alternate)
	}
	if _, ok := inner.Alternate.(*target.CallExpression); !ok {
		t.Errorf("expected condClauseError fallback at the end of the chain, got %T", inner.Alternate)
	}
}

func TestTranslateCaseBuildsClauseTableCall(t *testing.T) {
	ctx, e := newTestContext()
	c := &ast.CaseNode{
		Subject: &ast.Identifier{Name: "x"},
		Clauses: []ast.Clause{
			{Patterns: []ast.Pattern{&ast.Atom{Name: "ok"}}, Body: &ast.Literal{Kind: ast.IntLit, Value: 1}},
		},
	}
	node, err := translateCase(c, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := call.Callee.(*target.MemberExpression)
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "makeCase" {
		t.Errorf("expected Patterns.makeCase, got %+v", member.Property)
	}
}

func TestTranslateAssignReturnsMatchAssignValue(t *testing.T) {
	ctx, e := newTestContext()
	node, err := translateAssign(&ast.AssignNode{
		Left:  &ast.Identifier{Name: "x"},
		Right: &ast.Literal{Kind: ast.IntLit, Value: 5},
	}, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	member, ok := node.(*target.MemberExpression)
	if !ok {
		t.Fatalf("expected a MemberExpression, got %T", node)
	}
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "value" {
		t.Errorf("expected .value property access, got %+v", member.Property)
	}
	inner, ok := member.Object.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected the assignment result to wrap a matchAssign call, got %T", member.Object)
	}
	innerMember := inner.Callee.(*target.MemberExpression)
	if prop, ok := innerMember.Property.(*target.Identifier); !ok || prop.Name != "matchAssign" {
		t.Errorf("expected Kernel.matchAssign, got %+v", innerMember.Property)
	}
}

func TestReifyQuoteProducesTaggedData(t *testing.T) {
	ctx, e := newTestContext()
	quote := &ast.QuoteNode{Body: &ast.Atom{Name: "ok"}}
	node, err := translateQuote(quote, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := call.Callee.(*target.MemberExpression)
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "quoted" {
		t.Errorf("expected SpecialForms.quoted, got %+v", member.Property)
	}
	tag := call.Arguments[0].(*target.Literal)
	if tag.Value != "atom" {
		t.Errorf("expected the quoted tag to be \"atom\", got %v", tag.Value)
	}
}

func TestReifyUnquoteEscapesToOrdinaryTranslation(t *testing.T) {
	ctx, e := newTestContext()
	quote := &ast.QuoteNode{Body: &ast.UnquoteNode{Expr: &ast.Literal{Kind: ast.IntLit, Value: 9}}}
	node, err := translateQuote(quote, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := node.(*target.Literal)
	if !ok || lit.Value != float64(9) {
		t.Errorf("expected unquote to escape back to a plain literal, got %#v", node)
	}
}

func TestTranslateFnBuildsClauseTableCall(t *testing.T) {
	ctx, e := newTestContext()
	fn := &ast.FnNode{Clauses: []ast.Clause{
		{Patterns: []ast.Pattern{&ast.Identifier{Name: "x"}}, Body: &ast.Identifier{Name: "x"}},
	}}
	node, err := translateFn(fn, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := call.Callee.(*target.MemberExpression)
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "makeFn" {
		t.Errorf("expected Kernel.makeFn, got %+v", member.Property)
	}
}
