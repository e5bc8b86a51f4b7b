package env

import "testing"

func TestWithModuleBuildsDottedName(t *testing.T) {
	e := New(".", "a.src")
	e = e.WithModule("A").WithModule("B")
	if got, want := e.ModuleName(), "A.B"; got != want {
		t.Errorf("ModuleName() = %q, want %q", got, want)
	}
}

func TestWithModuleResetsAliasesAndImports(t *testing.T) {
	e := New(".", "a.src").WithAlias("X", "Outer.X").WithImports(Import{Module: "M", Name: "f", Arity: 1})
	nested := e.WithModule("Inner")

	if _, ok := nested.Aliases["X"]; ok {
		t.Error("WithModule should reset aliases for the nested scope")
	}
	if len(nested.Imports) != 0 {
		t.Error("WithModule should reset imports for the nested scope")
	}
	if _, ok := e.Aliases["X"]; !ok {
		t.Error("WithModule must not mutate the parent environment")
	}
}

func TestWithAliasReplacesPriorBinding(t *testing.T) {
	e := New(".", "a.src").WithAlias("X", "A.X").WithAlias("X", "B.X")
	if got := e.ResolveAlias("X"); got != "B.X" {
		t.Errorf("ResolveAlias(X) = %q, want re-aliasing to replace to %q", got, "B.X")
	}
}

func TestResolveAliasPassesThroughUnknownNames(t *testing.T) {
	e := New(".", "a.src")
	if got := e.ResolveAlias("Unbound"); got != "Unbound" {
		t.Errorf("ResolveAlias(Unbound) = %q, want unchanged", got)
	}
}

func TestResolveImportMatchesNameAndArity(t *testing.T) {
	e := New(".", "a.src").WithImports(
		Import{Module: "List", Name: "map", Arity: 2, Kind: "function"},
		Import{Module: "List", Name: "map", Arity: 3, Kind: "function"},
	)

	if mod, ok := e.ResolveImport("map", 2); !ok || mod != "List" {
		t.Errorf("ResolveImport(map, 2) = (%q, %v), want (List, true)", mod, ok)
	}
	if _, ok := e.ResolveImport("map", 5); ok {
		t.Error("ResolveImport should miss for an unimported arity")
	}
}

func TestWithMacrosAndIsMacro(t *testing.T) {
	e := New(".", "a.src").WithMacros("defmy", "another")
	if !e.IsMacro("defmy") || !e.IsMacro("another") {
		t.Error("expected both macro names to be recognized")
	}
	if e.IsMacro("notamacro") {
		t.Error("unexpected macro recognized")
	}
}

func TestWithQuoteDoesNotMutateParent(t *testing.T) {
	e := New(".", "a.src")
	quoted := e.WithQuote(true)
	if e.InQuote {
		t.Error("WithQuote must not mutate the parent environment")
	}
	if !quoted.InQuote {
		t.Error("expected the returned environment to have InQuote set")
	}
}

func TestCloneIndependenceAcrossSiblings(t *testing.T) {
	base := New(".", "a.src").WithModule("A")
	sibling1 := base.WithAlias("X", "A.X")
	sibling2 := base.WithAlias("Y", "A.Y")

	if _, ok := sibling1.Aliases["Y"]; ok {
		t.Error("sibling environments must not see each other's aliases")
	}
	if _, ok := sibling2.Aliases["X"]; ok {
		t.Error("sibling environments must not see each other's aliases")
	}
}
