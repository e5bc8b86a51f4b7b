package main

import (
	"testing"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/macro"
	"github.com/sunholo/jsxform/internal/registry"
	"github.com/sunholo/jsxform/internal/translate"
)

func newTestTranslateContext() (*translate.Context, *env.Environment) {
	reg := registry.New(".", nil)
	ctx := translate.NewContext(reg, macro.NoopExpander{}, nil)
	e := env.New(".", "test.src")
	return ctx, e
}

func TestTranslateFileEmitsOneProgramPerModule(t *testing.T) {
	ctx, e := newTestTranslateContext()
	file := &ast.File{
		Path: "test.src",
		Decls: []ast.Node{
			&ast.ModuleDecl{
				Name: &ast.AliasesNode{Segments: []string{"A"}},
				Body: []ast.Node{
					&ast.DefNode{Name: "f", Clause: ast.Clause{
						Patterns: []ast.Pattern{&ast.Identifier{Name: "x"}},
						Body:     &ast.Identifier{Name: "x"},
					}},
				},
			},
		},
	}

	programs, err := translateFile(file, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(programs) != 1 {
		t.Fatalf("expected 1 emitted program, got %d", len(programs))
	}
}

func TestTranslateFileCollectsLooseDeclsIntoOneTrailingProgram(t *testing.T) {
	ctx, e := newTestTranslateContext()
	file := &ast.File{
		Path: "test.src",
		Decls: []ast.Node{
			&ast.Atom{Name: "ok"},
			&ast.Literal{Kind: ast.IntLit, Value: 1},
		},
	}

	programs, err := translateFile(file, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(programs) != 1 {
		t.Fatalf("expected loose decls to collapse into 1 program, got %d", len(programs))
	}
	if len(programs[0].Body) != 2 {
		t.Errorf("expected both loose decls as statements, got %d", len(programs[0].Body))
	}
}

func TestTranslateFileNestedModuleOrderingPrecedesEnclosing(t *testing.T) {
	ctx, e := newTestTranslateContext()
	file := &ast.File{
		Path: "test.src",
		Decls: []ast.Node{
			&ast.ModuleDecl{
				Name: &ast.AliasesNode{Segments: []string{"Outer"}},
				Body: []ast.Node{
					&ast.ModuleDecl{
						Name: &ast.AliasesNode{Segments: []string{"Outer", "Inner"}},
						Body: []ast.Node{&ast.Atom{Name: "ok"}},
					},
				},
			},
		},
	}

	programs, err := translateFile(file, e, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("expected inner + outer programs, got %d", len(programs))
	}
	if outer, ok := ctx.Registry.GetModule("Outer"); !ok || programs[1] != outer.Body {
		t.Error("expected the enclosing module's program to follow the nested one")
	}
}
