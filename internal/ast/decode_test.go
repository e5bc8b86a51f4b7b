package ast

import "testing"

func TestDecodeLiteral(t *testing.T) {
	node, err := Decode([]byte(`{"type":"literal","kind":"int","value":42}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := node.(*Literal)
	if !ok || lit.Kind != IntLit {
		t.Fatalf("expected an int literal, got %#v", node)
	}
	if v, ok := lit.Value.(float64); !ok || v != 42 {
		t.Errorf("expected value 42, got %#v", lit.Value)
	}
}

func TestDecodeAtomAndIdentifier(t *testing.T) {
	node, err := Decode([]byte(`{"type":"atom","name":"ok"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, ok := node.(*Atom); !ok || a.Name != "ok" {
		t.Errorf("expected atom ok, got %#v", node)
	}

	node, err = Decode([]byte(`{"type":"identifier","name":"x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := node.(*Identifier); !ok || id.Name != "x" {
		t.Errorf("expected identifier x, got %#v", node)
	}
}

func TestDecodeListWithConsTail(t *testing.T) {
	node, err := Decode([]byte(`{
		"type": "list",
		"elements": [{"type":"identifier","name":"h"}],
		"tail": {"type":"identifier","name":"t"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := node.(*ListNode)
	if !ok {
		t.Fatalf("expected a ListNode, got %#v", node)
	}
	if len(list.Elements) != 1 {
		t.Errorf("expected 1 element, got %d", len(list.Elements))
	}
	if list.Tail == nil {
		t.Error("expected a non-nil cons tail")
	}
}

func TestDecodeListWithoutTail(t *testing.T) {
	node, err := Decode([]byte(`{"type":"list","elements":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := node.(*ListNode)
	if list.Tail != nil {
		t.Error("expected a nil tail for a plain list")
	}
}

func TestDecodeCallWithAndWithoutModule(t *testing.T) {
	node, err := Decode([]byte(`{"type":"call","name":"length","args":[{"type":"identifier","name":"xs"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*CallNode)
	if !ok || call.Module != nil || call.Name != "length" || len(call.Args) != 1 {
		t.Fatalf("unexpected bare call decode: %#v", node)
	}

	node, err = Decode([]byte(`{
		"type": "call",
		"module": {"type":"aliases","segments":["Kernel"]},
		"name": "length",
		"args": []
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call2 := node.(*CallNode)
	if call2.Module == nil {
		t.Error("expected a non-nil module for a dotted call")
	}
}

func TestDecodeDefAndDefp(t *testing.T) {
	node, err := Decode([]byte(`{
		"type": "def",
		"name": "f",
		"clause": {
			"patterns": [{"type":"identifier","name":"x"}],
			"body": {"type":"identifier","name":"x"}
		}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := node.(*DefNode)
	if def.Private || def.Name != "f" {
		t.Errorf("expected a public def named f, got %#v", def)
	}

	node, err = Decode([]byte(`{
		"type": "defp",
		"name": "helper",
		"clause": {"patterns": [], "body": {"type":"atom","name":"ok"}}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defp := node.(*DefNode)
	if !defp.Private {
		t.Error("expected defp to decode as private")
	}
}

func TestDecodeDefmoduleRejectsNonAliasesName(t *testing.T) {
	_, err := Decode([]byte(`{
		"type": "defmodule",
		"name": {"type":"identifier","name":"NotAliases"},
		"body": []
	}`))
	if err == nil {
		t.Error("expected an error decoding a defmodule whose name is not an aliases node")
	}
}

func TestDecodeDefmodule(t *testing.T) {
	node, err := Decode([]byte(`{
		"type": "defmodule",
		"name": {"type":"aliases","segments":["A","B"]},
		"body": [{"type":"atom","name":"ok"}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mod := node.(*ModuleDecl)
	if mod.Name.String() != "A.B" && len(mod.Name.Segments) != 2 {
		t.Errorf("expected a 2-segment module name, got %#v", mod.Name)
	}
	if len(mod.Body) != 1 {
		t.Errorf("expected 1 body decl, got %d", len(mod.Body))
	}
}

func TestDecodeUnrecognizedTypeIsAnError(t *testing.T) {
	_, err := Decode([]byte(`{"type":"not_a_real_shape"}`))
	if err == nil {
		t.Error("expected an error for an unrecognized node type tag")
	}
}

func TestDecodeFileWithMeta(t *testing.T) {
	file, err := DecodeFile([]byte(`{
		"path": "lib/a.ex",
		"decls": [{"type":"atom","name":"ok"}],
		"meta": {"Pos": {"Line": 1, "Column": 2, "File": "lib/a.ex"}}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Path != "lib/a.ex" {
		t.Errorf("expected path lib/a.ex, got %q", file.Path)
	}
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(file.Decls))
	}
	if file.Meta.Pos.Line != 1 || file.Meta.Pos.File != "lib/a.ex" {
		t.Errorf("expected decoded file meta to carry position info, got %+v", file.Meta)
	}
}

func TestDecodeAssignAcceptsLiteralLeft(t *testing.T) {
	_, err := Decode([]byte(`{
		"type": "assign",
		"left": {"type":"literal","kind":"int","value":1},
		"right": {"type":"literal","kind":"int","value":2}
	}`))
	// A literal implements Pattern (patternNode on *Literal), so assign's
	// non-pattern guard does not fire and a literal assignment target
	// decodes cleanly.
	if err != nil {
		t.Fatalf("unexpected error decoding a literal assignment target: %v", err)
	}
}

func TestDecodeImportWithOnlyAndKind(t *testing.T) {
	node, err := Decode([]byte(`{
		"type": "import",
		"target": {"type":"aliases","segments":["List"]},
		"only": [{"Name":"map","Arity":2}],
		"kind": "functions"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	imp := node.(*ImportNode)
	if len(imp.Only) != 1 || imp.Only[0].Name != "map" || imp.Only[0].Arity != 2 {
		t.Errorf("expected only=[map/2], got %v", imp.Only)
	}
	if imp.Kind != "functions" {
		t.Errorf("expected kind=functions, got %q", imp.Kind)
	}
}

func TestDecodeDefstructWithDefaults(t *testing.T) {
	node, err := Decode([]byte(`{
		"type": "defstruct",
		"fields": [
			{"name":"age","default":{"type":"literal","kind":"int","value":0}},
			{"name":"name"}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := node.(*DefStructNode)
	if len(ds.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(ds.Fields))
	}
	if ds.Fields[0].Default == nil {
		t.Error("expected the age field to carry a default")
	}
	if ds.Fields[1].Default != nil {
		t.Error("expected the name field to have no default")
	}
}
