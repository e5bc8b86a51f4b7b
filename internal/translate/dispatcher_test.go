package translate

import (
	"testing"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/registry"
	"github.com/sunholo/jsxform/internal/target"
)

func newTestContext() (*Context, *env.Environment) {
	reg := registry.New(".", nil)
	ctx := NewContext(reg, nil, nil)
	e := env.New(".", "test.src")
	return ctx, e
}

func TestTranslateLiteralKinds(t *testing.T) {
	ctx, e := newTestContext()

	node, err := Translate(&ast.Literal{Kind: ast.IntLit, Value: 7}, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := node.(*target.Literal)
	if !ok || lit.Value != float64(7) {
		t.Errorf("expected number literal 7, got %#v", node)
	}

	node, _ = Translate(&ast.Literal{Kind: ast.StringLit, Value: "hi"}, e, ctx)
	if lit, ok := node.(*target.Literal); !ok || lit.Value != "hi" {
		t.Errorf("expected string literal, got %#v", node)
	}

	node, _ = Translate(&ast.Literal{Kind: ast.NilLit}, e, ctx)
	if lit, ok := node.(*target.Literal); !ok || lit.Value != nil {
		t.Errorf("expected null literal, got %#v", node)
	}
}

func TestTranslateAtomEmitsSpecialFormsAtomCall(t *testing.T) {
	ctx, e := newTestContext()
	node, err := Translate(&ast.Atom{Name: "ok"}, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := call.Callee.(*target.MemberExpression)
	if obj, ok := member.Object.(*target.Identifier); !ok || obj.Name != "SpecialForms" {
		t.Errorf("expected SpecialForms receiver, got %+v", member.Object)
	}
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "atom" {
		t.Errorf("expected .atom property, got %+v", member.Property)
	}
	arg := call.Arguments[0].(*target.Literal)
	if arg.Value != "ok" {
		t.Errorf("expected atom name argument %q, got %v", "ok", arg.Value)
	}
}

func TestTranslateListPlainArray(t *testing.T) {
	ctx, e := newTestContext()
	list := &ast.ListNode{Elements: []ast.Node{
		&ast.Literal{Kind: ast.IntLit, Value: 1},
		&ast.Literal{Kind: ast.IntLit, Value: 2},
	}}
	node, err := Translate(list, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := node.(*target.ArrayExpression)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expected a 2-element array, got %#v", node)
	}
}

func TestTranslateListConsEmitsListPrepend(t *testing.T) {
	ctx, e := newTestContext()
	list := &ast.ListNode{
		Elements: []ast.Node{&ast.Identifier{Name: "h"}},
		Tail:     &ast.Identifier{Name: "t"},
	}
	node, err := Translate(list, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := call.Callee.(*target.MemberExpression)
	if obj, ok := member.Object.(*target.Identifier); !ok || obj.Name != "Kernel" {
		t.Errorf("expected Kernel receiver, got %+v", member.Object)
	}
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "listPrepend" {
		t.Errorf("expected .listPrepend property, got %+v", member.Property)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments (elements, tail), got %d", len(call.Arguments))
	}
}

func TestTranslateTupleEmitsSpecialFormsTupleCall(t *testing.T) {
	ctx, e := newTestContext()
	tuple := &ast.TupleNode{Elements: []ast.Node{
		&ast.Atom{Name: "ok"},
		&ast.Literal{Kind: ast.IntLit, Value: 1},
	}}
	node, err := Translate(tuple, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := call.Callee.(*target.MemberExpression)
	if prop, ok := member.Property.(*target.Identifier); !ok || prop.Name != "tuple" {
		t.Errorf("expected .tuple property, got %+v", member.Property)
	}
	if len(call.Arguments) != 2 {
		t.Errorf("expected 2 tuple arguments, got %d", len(call.Arguments))
	}
}

func TestTranslateIdentifierFiltersReservedNames(t *testing.T) {
	ctx, e := newTestContext()
	node, err := Translate(&ast.Identifier{Name: "valid?"}, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, ok := node.(*target.Identifier)
	if !ok || id.Name != "valid__qmark__" {
		t.Errorf("expected filtered identifier, got %#v", node)
	}
}

func TestTranslateWildcardPattern(t *testing.T) {
	ctx, e := newTestContext()
	node, err := Translate(&ast.WildcardPattern{}, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := node.(*target.Identifier); !ok || id.Name != "_" {
		t.Errorf("expected bare _ identifier, got %#v", node)
	}
}

func TestTranslateReflectiveFormIsRejected(t *testing.T) {
	ctx, e := newTestContext()
	_, err := Translate(&ast.ReflectiveNode{Form: "unquote_splicing"}, e, ctx)
	if err == nil {
		t.Error("expected an error translating a reflective form")
	}
}

func TestTranslateDottedCallAgainstKnownRuntimeModule(t *testing.T) {
	ctx, e := newTestContext()
	call := &ast.CallNode{
		Module: &ast.AliasesNode{Segments: []string{"Kernel"}},
		Name:   "length",
		Args:   []ast.Node{&ast.Identifier{Name: "xs"}},
	}
	node, err := Translate(call, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := c.Callee.(*target.MemberExpression)
	if obj, ok := member.Object.(*target.Identifier); !ok || obj.Name != "Kernel" {
		t.Errorf("expected Kernel receiver, got %+v", member.Object)
	}
}

func TestTranslateBareCallWithKernelBuiltinArity(t *testing.T) {
	ctx, e := newTestContext()
	call := &ast.CallNode{Name: "length", Args: []ast.Node{&ast.Identifier{Name: "xs"}}}
	node, err := Translate(call, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member := c.Callee.(*target.MemberExpression)
	if obj, ok := member.Object.(*target.Identifier); !ok || obj.Name != "Kernel" {
		t.Errorf("expected builtin dispatch against Kernel, got %+v", member.Object)
	}
}

func TestTranslateBareCallUnresolvedFallsThroughAsLocalCall(t *testing.T) {
	ctx, e := newTestContext()
	call := &ast.CallNode{Name: "my_helper", Args: nil}
	node, err := Translate(call, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	if id, ok := c.Callee.(*target.Identifier); !ok || id.Name != "my_helper" {
		t.Errorf("expected unresolved call to fall through to a bare identifier callee, got %+v", c.Callee)
	}
}

func TestTranslateBareCallResolvesImport(t *testing.T) {
	ctx, _ := newTestContext()
	e := env.New(".", "test.src").WithImports(env.Import{Module: "List", Name: "map", Arity: 1, Kind: "function"})
	call := &ast.CallNode{Name: "map", Args: []ast.Node{&ast.Identifier{Name: "xs"}}}
	node, err := Translate(call, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := node.(*target.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", node)
	}
	member, ok := c.Callee.(*target.MemberExpression)
	if !ok {
		t.Fatalf("expected an import-qualified member callee, got %T", c.Callee)
	}
	if obj, ok := member.Object.(*target.Identifier); !ok || obj.Name != "List" {
		t.Errorf("expected List receiver from the resolved import, got %+v", member.Object)
	}
}
