package ast

import (
	"encoding/json"
	"fmt"
)

// raw is the wire shape every encoded node arrives as: a "type" tag
// (the source parser's tag vocabulary, e.g. "def", "case", "__block__")
// plus its fields as a flat JSON object. This is the bridge between the
// JSON a driver reads off disk/stdin and the concrete Go structs the
// rest of this package defines — the parser itself stays out of scope
// (spec §1), but something has to get an in-memory AST from the bytes a
// CLI actually has.
type raw struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"-"`
}

// Decode parses one JSON-encoded source AST node. The wire format is a
// flat object carrying a "type" discriminator alongside that node's own
// fields (keyed by the Go field names below, matched case-insensitively,
// e.g. "elements" or "isBinary"); nested nodes are
// themselves tagged objects, decoded recursively.
func Decode(data []byte) (Node, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast.Decode: %w", err)
	}
	return decodeTagged(head.Type, data)
}

// DecodeFile parses a whole compilation unit: a "file" object carrying
// an ordered "decls" array plus a "path".
func DecodeFile(data []byte) (*File, error) {
	var wire struct {
		Decls []json.RawMessage `json:"decls"`
		Path  string            `json:"path"`
		Meta  json.RawMessage   `json:"meta"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("ast.DecodeFile: %w", err)
	}
	decls, err := decodeMany(wire.Decls)
	if err != nil {
		return nil, err
	}
	return &File{Decls: decls, Path: wire.Path, Meta: decodeMeta(wire.Meta)}, nil
}

func decodeMeta(m json.RawMessage) Meta {
	if len(m) == 0 {
		return Meta{}
	}
	var wire struct {
		Pos struct {
			Line, Column int
			File         string
		}
		Attrs map[string]interface{}
	}
	_ = json.Unmarshal(m, &wire)
	return Meta{Pos: Pos{Line: wire.Pos.Line, Column: wire.Pos.Column, File: wire.Pos.File}, Attrs: wire.Attrs}
}

func decodeMany(raws []json.RawMessage) ([]Node, error) {
	out := make([]Node, 0, len(raws))
	for _, r := range raws {
		n, err := Decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeOpt(r json.RawMessage) (Node, error) {
	if len(r) == 0 || string(r) == "null" {
		return nil, nil
	}
	return Decode(r)
}

func decodeClause(r json.RawMessage) (Clause, error) {
	var wire struct {
		Patterns []json.RawMessage
		Guard    json.RawMessage
		Body     json.RawMessage
		Meta     json.RawMessage
	}
	if err := json.Unmarshal(r, &wire); err != nil {
		return Clause{}, err
	}
	pats := make([]Pattern, 0, len(wire.Patterns))
	for _, p := range wire.Patterns {
		n, err := Decode(p)
		if err != nil {
			return Clause{}, err
		}
		pat, ok := n.(Pattern)
		if !ok {
			return Clause{}, fmt.Errorf("ast.decodeClause: node %T is not a Pattern", n)
		}
		pats = append(pats, pat)
	}
	guard, err := decodeOpt(wire.Guard)
	if err != nil {
		return Clause{}, err
	}
	body, err := Decode(wire.Body)
	if err != nil {
		return Clause{}, err
	}
	return Clause{Patterns: pats, Guard: guard, Body: body, Meta: decodeMeta(wire.Meta)}, nil
}

func decodeClauses(raws []json.RawMessage) ([]Clause, error) {
	out := make([]Clause, 0, len(raws))
	for _, r := range raws {
		c, err := decodeClause(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// decodeTagged is the single switch over the wire "type" tag, building
// the matching concrete struct. Node shapes that carry only primitive
// fields (Literal, Atom, Identifier, AliasesNode, …) decode directly;
// shapes carrying child nodes decode those recursively through Decode.
func decodeTagged(tag string, data json.RawMessage) (Node, error) {
	switch tag {
	case "literal":
		var wire struct {
			Kind  string
			Value interface{}
			Meta  json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		kind := map[string]LiteralKind{
			"int": IntLit, "float": FloatLit, "string": StringLit, "bool": BoolLit, "nil": NilLit,
		}[wire.Kind]
		return &Literal{Kind: kind, Value: wire.Value, Meta: decodeMeta(wire.Meta)}, nil

	case "atom":
		var wire struct {
			Name string
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		return &Atom{Name: wire.Name, Meta: decodeMeta(wire.Meta)}, nil

	case "identifier":
		var wire struct {
			Name string
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		return &Identifier{Name: wire.Name, Meta: decodeMeta(wire.Meta)}, nil

	case "wildcard":
		var wire struct{ Meta json.RawMessage }
		_ = json.Unmarshal(data, &wire)
		return &WildcardPattern{Meta: decodeMeta(wire.Meta)}, nil

	case "list":
		var wire struct {
			Elements []json.RawMessage
			Tail     json.RawMessage
			Meta     json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		elems, err := decodeMany(wire.Elements)
		if err != nil {
			return nil, err
		}
		tail, err := decodeOpt(wire.Tail)
		if err != nil {
			return nil, err
		}
		return &ListNode{Elements: elems, Tail: tail, Meta: decodeMeta(wire.Meta)}, nil

	case "tuple":
		var wire struct {
			Elements []json.RawMessage
			Meta     json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		elems, err := decodeMany(wire.Elements)
		if err != nil {
			return nil, err
		}
		return &TupleNode{Elements: elems, Meta: decodeMeta(wire.Meta)}, nil

	case "map":
		var wire struct {
			Pairs  []struct{ Key, Value json.RawMessage }
			Update json.RawMessage
			Meta   json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		pairs, err := decodeMapPairs(wire.Pairs)
		if err != nil {
			return nil, err
		}
		update, err := decodeOpt(wire.Update)
		if err != nil {
			return nil, err
		}
		return &MapNode{Pairs: pairs, Update: update, Meta: decodeMeta(wire.Meta)}, nil

	case "struct":
		var wire struct {
			Module json.RawMessage
			Pairs  []struct{ Key, Value json.RawMessage }
			Meta   json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		module, err := Decode(wire.Module)
		if err != nil {
			return nil, err
		}
		pairs, err := decodeMapPairs(wire.Pairs)
		if err != nil {
			return nil, err
		}
		return &StructNode{Module: module, Pairs: pairs, Meta: decodeMeta(wire.Meta)}, nil

	case "bitstring":
		var wire struct {
			Segments []struct {
				Value                                  json.RawMessage
				Size                                    json.RawMessage
				Unit                                    int
				Type, Signedness, Endianness            string
			}
			IsBinary bool
			Meta     json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		segs := make([]BitSegment, 0, len(wire.Segments))
		for _, s := range wire.Segments {
			v, err := Decode(s.Value)
			if err != nil {
				return nil, err
			}
			size, err := decodeOpt(s.Size)
			if err != nil {
				return nil, err
			}
			segs = append(segs, BitSegment{
				Value: v, Size: size, Unit: s.Unit,
				Type: s.Type, Signedness: s.Signedness, Endianness: s.Endianness,
			})
		}
		return &BitstringNode{Segments: segs, IsBinary: wire.IsBinary, Meta: decodeMeta(wire.Meta)}, nil

	case "binop":
		var wire struct {
			Left, Right json.RawMessage
			Op          string
			Meta        json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		left, err := Decode(wire.Left)
		if err != nil {
			return nil, err
		}
		right, err := Decode(wire.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Left: left, Op: wire.Op, Right: right, Meta: decodeMeta(wire.Meta)}, nil

	case "unop":
		var wire struct {
			Expr json.RawMessage
			Op   string
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		expr, err := Decode(wire.Expr)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: wire.Op, Expr: expr, Meta: decodeMeta(wire.Meta)}, nil

	case "capture":
		var wire struct {
			Target       json.RawMessage
			Placeholders int
			Meta         json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		target, err := Decode(wire.Target)
		if err != nil {
			return nil, err
		}
		return &CaptureNode{Target: target, Placeholders: wire.Placeholders, Meta: decodeMeta(wire.Meta)}, nil

	case "placeholder":
		var wire struct {
			Index int
			Meta  json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		return &PlaceholderNode{Index: wire.Index, Meta: decodeMeta(wire.Meta)}, nil

	case "attribute":
		var wire struct {
			Name  string
			Value json.RawMessage
			Meta  json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		value, err := decodeOpt(wire.Value)
		if err != nil {
			return nil, err
		}
		return &AttributeNode{Name: wire.Name, Value: value, Meta: decodeMeta(wire.Meta)}, nil

	case "aliases":
		var wire struct {
			Segments []string
			Meta     json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		return &AliasesNode{Segments: wire.Segments, Meta: decodeMeta(wire.Meta)}, nil

	case "dir":
		var wire struct{ Meta json.RawMessage }
		_ = json.Unmarshal(data, &wire)
		return &DirNode{Meta: decodeMeta(wire.Meta)}, nil

	case "__block__", "block":
		var wire struct {
			Body []json.RawMessage
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		body, err := decodeMany(wire.Body)
		if err != nil {
			return nil, err
		}
		return &BlockNode{Body: body, Meta: decodeMeta(wire.Meta)}, nil

	case "assign":
		var wire struct {
			Left, Right json.RawMessage
			Meta        json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		leftNode, err := Decode(wire.Left)
		if err != nil {
			return nil, err
		}
		left, ok := leftNode.(Pattern)
		if !ok {
			return nil, fmt.Errorf("ast.decodeTagged(assign): left %T is not a Pattern", leftNode)
		}
		right, err := Decode(wire.Right)
		if err != nil {
			return nil, err
		}
		return &AssignNode{Left: left, Right: right, Meta: decodeMeta(wire.Meta)}, nil

	case "call":
		var wire struct {
			Module json.RawMessage
			Name   string
			Args   []json.RawMessage
			Meta   json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		module, err := decodeOpt(wire.Module)
		if err != nil {
			return nil, err
		}
		args, err := decodeMany(wire.Args)
		if err != nil {
			return nil, err
		}
		return &CallNode{Module: module, Name: wire.Name, Args: args, Meta: decodeMeta(wire.Meta)}, nil

	case "case":
		var wire struct {
			Subject json.RawMessage
			Clauses []json.RawMessage
			Meta    json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		subject, err := Decode(wire.Subject)
		if err != nil {
			return nil, err
		}
		clauses, err := decodeClauses(wire.Clauses)
		if err != nil {
			return nil, err
		}
		return &CaseNode{Subject: subject, Clauses: clauses, Meta: decodeMeta(wire.Meta)}, nil

	case "cond":
		var wire struct {
			Clauses []struct{ Test, Body json.RawMessage }
			Meta    json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		clauses := make([]CondClause, 0, len(wire.Clauses))
		for _, c := range wire.Clauses {
			test, err := Decode(c.Test)
			if err != nil {
				return nil, err
			}
			body, err := Decode(c.Body)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, CondClause{Test: test, Body: body})
		}
		return &CondNode{Clauses: clauses, Meta: decodeMeta(wire.Meta)}, nil

	case "for":
		var wire struct {
			Generators []struct{ Pattern, Source json.RawMessage }
			Filters    []json.RawMessage
			Body       json.RawMessage
			Into       json.RawMessage
			Uniq       bool
			Meta       json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		gens := make([]Generator, 0, len(wire.Generators))
		for _, g := range wire.Generators {
			patNode, err := Decode(g.Pattern)
			if err != nil {
				return nil, err
			}
			pat, ok := patNode.(Pattern)
			if !ok {
				return nil, fmt.Errorf("ast.decodeTagged(for): generator pattern %T is not a Pattern", patNode)
			}
			src, err := Decode(g.Source)
			if err != nil {
				return nil, err
			}
			gens = append(gens, Generator{Pattern: pat, Source: src})
		}
		filters, err := decodeMany(wire.Filters)
		if err != nil {
			return nil, err
		}
		body, err := Decode(wire.Body)
		if err != nil {
			return nil, err
		}
		into, err := decodeOpt(wire.Into)
		if err != nil {
			return nil, err
		}
		return &ForNode{Generators: gens, Filters: filters, Body: body, Into: into, Uniq: wire.Uniq, Meta: decodeMeta(wire.Meta)}, nil

	case "try":
		var wire struct {
			Do                          json.RawMessage
			Rescue, Catch, Else         []json.RawMessage
			After                       json.RawMessage
			Meta                        json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		do, err := Decode(wire.Do)
		if err != nil {
			return nil, err
		}
		rescue, err := decodeClauses(wire.Rescue)
		if err != nil {
			return nil, err
		}
		catch, err := decodeClauses(wire.Catch)
		if err != nil {
			return nil, err
		}
		els, err := decodeClauses(wire.Else)
		if err != nil {
			return nil, err
		}
		after, err := decodeOpt(wire.After)
		if err != nil {
			return nil, err
		}
		return &TryNode{Do: do, Rescue: rescue, Catch: catch, Else: els, After: after, Meta: decodeMeta(wire.Meta)}, nil

	case "receive":
		var wire struct {
			Clauses       []json.RawMessage
			After, Timeout json.RawMessage
			Meta          json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		clauses, err := decodeClauses(wire.Clauses)
		if err != nil {
			return nil, err
		}
		after, err := decodeOpt(wire.After)
		if err != nil {
			return nil, err
		}
		timeout, err := decodeOpt(wire.Timeout)
		if err != nil {
			return nil, err
		}
		return &ReceiveNode{Clauses: clauses, After: after, Timeout: timeout, Meta: decodeMeta(wire.Meta)}, nil

	case "quote":
		var wire struct {
			Body json.RawMessage
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		body, err := Decode(wire.Body)
		if err != nil {
			return nil, err
		}
		return &QuoteNode{Body: body, Meta: decodeMeta(wire.Meta)}, nil

	case "unquote":
		var wire struct {
			Expr json.RawMessage
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		expr, err := Decode(wire.Expr)
		if err != nil {
			return nil, err
		}
		return &UnquoteNode{Expr: expr, Meta: decodeMeta(wire.Meta)}, nil

	case "fn":
		var wire struct {
			Clauses []json.RawMessage
			Meta    json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		clauses, err := decodeClauses(wire.Clauses)
		if err != nil {
			return nil, err
		}
		return &FnNode{Clauses: clauses, Meta: decodeMeta(wire.Meta)}, nil

	case "def", "defp":
		var wire struct {
			Name   string
			Clause json.RawMessage
			Meta   json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		clause, err := decodeClause(wire.Clause)
		if err != nil {
			return nil, err
		}
		return &DefNode{Private: tag == "defp", Name: wire.Name, Clause: clause, Meta: decodeMeta(wire.Meta)}, nil

	case "defstruct":
		fields, meta, err := decodeStructFields(data)
		if err != nil {
			return nil, err
		}
		return &DefStructNode{Fields: fields, Meta: meta}, nil

	case "defexception":
		fields, meta, err := decodeStructFields(data)
		if err != nil {
			return nil, err
		}
		return &DefExceptionNode{Fields: fields, Meta: meta}, nil

	case "defmodule":
		var wire struct {
			Name json.RawMessage
			Body []json.RawMessage
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		nameNode, err := Decode(wire.Name)
		if err != nil {
			return nil, err
		}
		name, ok := nameNode.(*AliasesNode)
		if !ok {
			return nil, fmt.Errorf("ast.decodeTagged(defmodule): name %T is not an AliasesNode", nameNode)
		}
		body, err := decodeMany(wire.Body)
		if err != nil {
			return nil, err
		}
		return &ModuleDecl{Name: name, Body: body, Meta: decodeMeta(wire.Meta)}, nil

	case "defprotocol":
		var wire struct {
			Name string
			Spec []json.RawMessage
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		spec, err := decodeMany(wire.Spec)
		if err != nil {
			return nil, err
		}
		return &ProtocolDecl{Name: wire.Name, Spec: spec, Meta: decodeMeta(wire.Meta)}, nil

	case "defimpl":
		var wire struct {
			Protocol string
			ForType  json.RawMessage
			Body     []json.RawMessage
			Meta     json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		forType, err := Decode(wire.ForType)
		if err != nil {
			return nil, err
		}
		body, err := decodeMany(wire.Body)
		if err != nil {
			return nil, err
		}
		return &ImplDecl{Protocol: wire.Protocol, ForType: forType, Body: body, Meta: decodeMeta(wire.Meta)}, nil

	case "alias":
		target, as, meta, err := decodeAliasTarget(data)
		if err != nil {
			return nil, err
		}
		return &AliasNode{Target: target, As: as, Meta: meta}, nil

	case "require":
		target, as, meta, err := decodeAliasTarget(data)
		if err != nil {
			return nil, err
		}
		return &RequireNode{Target: target, As: as, Meta: meta}, nil

	case "import":
		var wire struct {
			Target json.RawMessage
			Only   []NameArity
			Except []NameArity
			Kind   string
			Meta   json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		targetNode, err := Decode(wire.Target)
		if err != nil {
			return nil, err
		}
		target, ok := targetNode.(*AliasesNode)
		if !ok {
			return nil, fmt.Errorf("ast.decodeTagged(import): target %T is not an AliasesNode", targetNode)
		}
		return &ImportNode{Target: target, Only: wire.Only, Except: wire.Except, Kind: wire.Kind, Meta: decodeMeta(wire.Meta)}, nil

	case "reflective":
		var wire struct {
			Form string
			Meta json.RawMessage
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		return &ReflectiveNode{Form: wire.Form, Meta: decodeMeta(wire.Meta)}, nil

	default:
		return nil, fmt.Errorf("ast.Decode: unrecognized node type %q", tag)
	}
}

func decodeMapPairs(wire []struct{ Key, Value json.RawMessage }) ([]MapPair, error) {
	pairs := make([]MapPair, 0, len(wire))
	for _, p := range wire {
		k, err := Decode(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := Decode(p.Value)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, MapPair{Key: k, Value: v})
	}
	return pairs, nil
}

func decodeStructFields(data json.RawMessage) ([]StructField, Meta, error) {
	var wire struct {
		Fields []struct {
			Name    string
			Default json.RawMessage
		}
		Meta json.RawMessage
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, Meta{}, err
	}
	fields := make([]StructField, 0, len(wire.Fields))
	for _, f := range wire.Fields {
		def, err := decodeOpt(f.Default)
		if err != nil {
			return nil, Meta{}, err
		}
		fields = append(fields, StructField{Name: f.Name, Default: def})
	}
	return fields, decodeMeta(wire.Meta), nil
}

func decodeAliasTarget(data json.RawMessage) (*AliasesNode, string, Meta, error) {
	var wire struct {
		Target json.RawMessage
		As     string
		Meta   json.RawMessage
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, "", Meta{}, err
	}
	targetNode, err := Decode(wire.Target)
	if err != nil {
		return nil, "", Meta{}, err
	}
	target, ok := targetNode.(*AliasesNode)
	if !ok {
		return nil, "", Meta{}, fmt.Errorf("ast.decodeAliasTarget: target %T is not an AliasesNode", targetNode)
	}
	return target, wire.As, decodeMeta(wire.Meta), nil
}
