// Package env implements the Environment value threaded through
// translation (spec §3 "Environment"). It is logically immutable per
// call: every With* method returns a new Environment, mirroring the
// teacher's scope-extension style in internal/elaborate/elaborate.go.
package env

// Import is one resolved imported name available by bare reference
// inside the current module (spec §4.5 "Import semantics").
type Import struct {
	Module string // fully-qualified source module name
	Name   string
	Arity  int
	Kind   string // "function" | "macro"
}

// Environment carries the current module path, active aliases, in-scope
// imports, the macro table view, and implementation options.
type Environment struct {
	ModulePath []string          // current module name path, e.g. ["A", "B"]
	Aliases    map[string]string // local name -> canonical dotted name
	Imports    []Import
	Macros     map[string]bool // known macro names visible in this scope
	InQuote    bool            // true while lowering inside a quote block
	FilePath   string
	Root       string // compilation root path, for import-path emission
}

// New creates the initial environment for a compilation.
func New(root, filePath string) *Environment {
	return &Environment{
		ModulePath: nil,
		Aliases:    map[string]string{},
		Imports:    nil,
		Macros:     map[string]bool{},
		Root:       root,
		FilePath:   filePath,
	}
}

// clone makes a shallow structural copy so the maps/slices below can be
// extended without mutating the parent environment's view.
func (e *Environment) clone() *Environment {
	aliases := make(map[string]string, len(e.Aliases))
	for k, v := range e.Aliases {
		aliases[k] = v
	}
	macros := make(map[string]bool, len(e.Macros))
	for k, v := range e.Macros {
		macros[k] = v
	}
	imports := make([]Import, len(e.Imports))
	copy(imports, e.Imports)
	path := make([]string, len(e.ModulePath))
	copy(path, e.ModulePath)

	return &Environment{
		ModulePath: path,
		Aliases:    aliases,
		Imports:    imports,
		Macros:     macros,
		InQuote:    e.InQuote,
		FilePath:   e.FilePath,
		Root:       e.Root,
	}
}

// WithModule returns a new Environment scoped to a nested module name
// segment, used when entering a defmodule body (spec §4.5 step 1-2).
func (e *Environment) WithModule(segment string) *Environment {
	n := e.clone()
	n.ModulePath = append(n.ModulePath, segment)
	n.Aliases = map[string]string{}
	n.Imports = nil
	return n
}

// WithAlias binds localName to canonicalName, replacing any prior
// binding (spec §3 invariant: "re-aliasing replaces").
func (e *Environment) WithAlias(localName, canonicalName string) *Environment {
	n := e.clone()
	n.Aliases[localName] = canonicalName
	return n
}

// WithImports appends resolved imports to the environment's import
// list, used when an `import` is applied inside a module body (spec §4.5).
func (e *Environment) WithImports(imports ...Import) *Environment {
	n := e.clone()
	n.Imports = append(n.Imports, imports...)
	return n
}

// WithMacros marks the given names as known macros in this scope.
func (e *Environment) WithMacros(names ...string) *Environment {
	n := e.clone()
	for _, name := range names {
		n.Macros[name] = true
	}
	return n
}

// WithQuote returns a new Environment with InQuote set, used while
// lowering the body of a `quote` block.
func (e *Environment) WithQuote(inQuote bool) *Environment {
	n := e.clone()
	n.InQuote = inQuote
	return n
}

// ModuleName joins ModulePath into the dotted canonical module name,
// e.g. "A.B".
func (e *Environment) ModuleName() string {
	name := ""
	for i, seg := range e.ModulePath {
		if i > 0 {
			name += "."
		}
		name += seg
	}
	return name
}

// ResolveAlias resolves a local alias to its canonical dotted name, if
// one was bound; otherwise returns name unchanged (it is already
// canonical or unaliased).
func (e *Environment) ResolveAlias(name string) string {
	if canonical, ok := e.Aliases[name]; ok {
		return canonical
	}
	return name
}

// ResolveImport looks up a bare call name against the environment's
// resolved imports, returning the owning module name of the first
// import that matches name and arity (spec §4.5 "At call-lowering time...").
func (e *Environment) ResolveImport(name string, arity int) (string, bool) {
	for _, imp := range e.Imports {
		if imp.Name == name && imp.Arity == arity {
			return imp.Module, true
		}
	}
	return "", false
}

// IsMacro reports whether name is a known macro in this scope.
func (e *Environment) IsMacro(name string) bool {
	return e.Macros[name]
}
