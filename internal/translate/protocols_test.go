package translate

import (
	"testing"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/target"
)

func TestTranslateProtocolRegistersSpecNames(t *testing.T) {
	ctx, e := newTestContext()
	decl := &ast.ProtocolDecl{
		Name: "Showable",
		Spec: []ast.Node{
			&ast.DefNode{Name: "show", Clause: ast.Clause{Patterns: []ast.Pattern{&ast.Identifier{Name: "x"}}}},
		},
	}
	node, err := translateProtocol(decl, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := node.(*target.VariableDeclaration); !ok {
		t.Errorf("expected a const declaration for the protocol dispatch object, got %T", node)
	}

	p, ok := ctx.Registry.GetProtocol("Showable")
	if !ok {
		t.Fatal("expected the protocol to be registered")
	}
	arr, ok := p.Spec.(*target.ArrayExpression)
	if !ok || len(arr.Elements) != 1 {
		t.Fatalf("expected one spec name recorded, got %+v", p.Spec)
	}
}

func TestTranslateImplCreatesProtocolRecordWithNullSpecWhenMissing(t *testing.T) {
	ctx, e := newTestContext()
	impl := &ast.ImplDecl{
		Protocol: "Showable",
		ForType:  &ast.Atom{Name: "Integer"},
		Body: []ast.Node{
			&ast.DefNode{Name: "show", Clause: ast.Clause{
				Patterns: []ast.Pattern{&ast.Identifier{Name: "x"}},
				Body:     &ast.Identifier{Name: "x"},
			}},
		},
	}
	_, err := translateImpl(impl, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, ok := ctx.Registry.GetProtocol("Showable")
	if !ok {
		t.Fatal("expected defimpl to create a protocol record")
	}
	if p.Spec != nil {
		t.Error("expected a null spec since defprotocol was never seen")
	}
	if _, ok := p.Impls["Integer"]; !ok {
		t.Error("expected the Integer impl to be recorded")
	}
}

func TestTranslateImplGroupsMethodsByNameArity(t *testing.T) {
	ctx, e := newTestContext()
	impl := &ast.ImplDecl{
		Protocol: "Showable",
		ForType:  &ast.Atom{Name: "Integer"},
		Body: []ast.Node{
			&ast.DefNode{Name: "show", Clause: ast.Clause{
				Patterns: []ast.Pattern{&ast.Literal{Kind: ast.IntLit, Value: 0}},
				Body:     &ast.Literal{Kind: ast.StringLit, Value: "zero"},
			}},
			&ast.DefNode{Name: "show", Clause: ast.Clause{
				Patterns: []ast.Pattern{&ast.Identifier{Name: "n"}},
				Body:     &ast.Identifier{Name: "n"},
			}},
		},
	}
	methods, err := buildImplMethods("Showable.Integer", impl.Body, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(methods.Properties) != 1 {
		t.Fatalf("expected both show/1 clauses grouped into one method entry, got %d", len(methods.Properties))
	}
	if methods.Properties[0].Key != "show" {
		t.Errorf("expected method key %q, got %q", "show", methods.Properties[0].Key)
	}
}

func TestProtocolTypeKeyForAliasesVsAtom(t *testing.T) {
	_, e := newTestContext()
	if got := protocolTypeKey(&ast.Atom{Name: "Integer"}, e); got != "Integer" {
		t.Errorf("protocolTypeKey(atom) = %q, want %q", got, "Integer")
	}
	if got := protocolTypeKey(&ast.AliasesNode{Segments: []string{"My", "Type"}}, e); got != "My.Type" {
		t.Errorf("protocolTypeKey(aliases) = %q, want %q", got, "My.Type")
	}
}
