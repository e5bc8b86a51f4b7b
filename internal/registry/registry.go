// Package registry implements the Module Registry (spec §3, §4.7):
// the process-wide table of known modules, aliases, imports, and
// protocol implementations, re-architected per spec §9's design note
// as an explicit CompilationContext value rather than a global — every
// translator call takes a *Registry instead of reaching for ambient
// state. Grounded on the teacher's internal/link/module_linker.go
// (ifaces/values maps, suggestion machinery) and internal/module/loader.go
// + resolver.go (module cache, cycle/name-collision handling), combined
// with internal/link/topo.go's dependency-ordering vocabulary for the
// two-pass import resolution spec §4.5 requires.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/sunholo/jsxform/internal/ast"
	apperrors "github.com/sunholo/jsxform/internal/errors"
	"github.com/sunholo/jsxform/internal/target"
)

// FuncKey identifies one function or macro by name and arity.
type FuncKey struct {
	Name  string
	Arity int
}

// AliasBinding is one `alias`/`alias ... as:` binding recorded against
// a module (spec §4.5 "Alias semantics").
type AliasBinding struct {
	LocalName     string
	CanonicalName string
}

// ImportSpec is one `import`/`require` recorded against a module before
// resolution (spec §4.5 "Import semantics").
type ImportSpec struct {
	ModuleName string
	Only       []FuncKey
	Except     []FuncKey
	Kind       string // "", "functions", "macros"
}

// ResolvedImport is one concrete name made available by bare reference
// after the second pass (spec §4.5 "Two-pass resolution").
type ResolvedImport struct {
	FromModule string
	Name       string
	Arity      int
	Kind       string
}

// Module is the Registry's record for one translated source module
// (spec §3 "Module record").
type Module struct {
	Name      []string // ordered, capitalized segments
	Source    string    // originating file, for name-collision reporting
	Functions map[FuncKey]bool
	Macros    map[FuncKey]bool
	Aliases   []AliasBinding
	Imports   []ImportSpec
	Resolved  []ResolvedImport // filled in by the second pass
	Body      *target.Program
}

// QualifiedName joins Name with ".".
func (m *Module) QualifiedName() string { return strings.Join(m.Name, ".") }

// ImportPath lowercases and "/"-joins Name (spec §6 "Module-to-file-path
// mapping").
func (m *Module) ImportPath() string {
	segs := make([]string, len(m.Name))
	for i, s := range m.Name {
		segs[i] = strings.ToLower(s)
	}
	return strings.Join(segs, "/")
}

// ProtocolRecord is the Registry's record for one protocol and its
// per-type implementations (spec §3 "ProtocolRecord").
type ProtocolRecord struct {
	Name  string
	Spec  target.Node // nil for a protocol record created implicitly by defimpl
	Impls map[string]target.Node
}

// Registry is the single mutable container every translator call
// threads through (spec §4.7). All mutations are atomic under mu; reads
// see a consistent snapshot — translation is single-threaded, so a
// simple mutex satisfies spec §5's concurrency model.
type Registry struct {
	mu        sync.Mutex
	root      string
	modules   map[string]*Module // keyed by QualifiedName
	order     []string           // registration order, for stable emission (spec §5 ordering guarantees)
	protocols map[string]*ProtocolRecord
	stopped   bool
	log       *logrus.Logger
}

// New creates a Registry rooted at root (spec §3 "root: the filesystem
// root for emitted imports").
func New(root string, log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
	}
	return &Registry{
		root:      root,
		modules:   map[string]*Module{},
		protocols: map[string]*ProtocolRecord{},
		log:       log,
	}
}

// Stop marks the Registry as closed; after it, AddModule and
// ProcessImports fail with REG001. The other commands do not check
// whether the Registry was stopped.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}

func (r *Registry) checkOpen() error {
	if r.stopped {
		return apperrors.New("registry", apperrors.REG001, "registry has been stopped", ast.Pos{})
	}
	return nil
}

// AddModule registers a new Module record, or returns a name-collision
// error if another module with the identical segment list was already
// registered from a different source (spec §3 invariant, §7 "Name
// collision").
func (r *Registry) AddModule(name []string, source string) (*Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	key := strings.Join(name, ".")
	if existing, ok := r.modules[key]; ok {
		if existing.Source != source {
			return nil, apperrors.NameCollision(key, existing.Source, source)
		}
		return existing, nil
	}

	m := &Module{
		Name:      append([]string{}, name...),
		Source:    source,
		Functions: map[FuncKey]bool{},
		Macros:    map[FuncKey]bool{},
	}
	r.modules[key] = m
	r.order = append(r.order, key)
	r.log.WithField("module", key).Debug("registered module")
	return m, nil
}

// DeleteModule removes a module record and its registration-order
// entry (part of the spec §4.7 command surface). The translators do not
// call it: a module whose body fails translation stays registered.
func (r *Registry) DeleteModule(name []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.Join(name, ".")
	delete(r.modules, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ModuleListed reports whether a module with the given dotted name is
// known to the Registry.
func (r *Registry) ModuleListed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.modules[name]
	return ok
}

// GetModule fetches a module record by dotted name.
func (r *Registry) GetModule(name string) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[name]
	return m, ok
}

// AddAlias records an alias binding against a module. Per spec §9's
// Open Question resolution (kept as source behavior): an alias whose
// target module is not yet known to the Registry is silently ignored —
// the module may be declared later in the same compilation, or be an
// external dependency resolved at load time.
func (r *Registry) AddAlias(moduleName string, local, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[moduleName]
	if !ok {
		r.log.WithFields(logrus.Fields{"module": moduleName, "alias": local}).
			Debug("alias added against unregistered module; ignored per silent-ignore policy")
		return
	}
	for i, a := range m.Aliases {
		if a.LocalName == local {
			m.Aliases[i].CanonicalName = canonical
			return
		}
	}
	m.Aliases = append(m.Aliases, AliasBinding{LocalName: local, CanonicalName: canonical})
}

// AddImport records an unresolved import spec against a module.
func (r *Registry) AddImport(moduleName string, spec ImportSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[moduleName]; ok {
		m.Imports = append(m.Imports, spec)
	}
}

// AddFunction records a public/private function name+arity against a
// module, for export-list computation (spec §4.4).
func (r *Registry) AddFunction(moduleName string, key FuncKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[moduleName]; ok {
		m.Functions[key] = true
	}
}

// AddMacro records a macro name+arity against a module.
func (r *Registry) AddMacro(moduleName string, key FuncKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[moduleName]; ok {
		m.Macros[key] = true
	}
}

// SetBody stores the translated target-AST program for a module.
func (r *Registry) SetBody(moduleName string, prog *target.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[moduleName]; ok {
		m.Body = prog
	}
}

// AddProtocol registers a protocol spec, creating the record if absent
// (spec §4.6).
func (r *Registry) AddProtocol(name string, spec target.Node) *ProtocolRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.protocols[name]
	if !ok {
		p = &ProtocolRecord{Name: name, Impls: map[string]target.Node{}}
		r.protocols[name] = p
	}
	if spec != nil {
		p.Spec = spec
	}
	return p
}

// AddProtocolImpl registers defimpl P, for: T's translated body under
// protocols[P].impls[T], creating the protocol record with a null spec
// if P was never declared with defprotocol (spec §3 invariant, §8
// "A defimpl for a type with no corresponding defprotocol creates a new
// protocol record with a null spec").
func (r *Registry) AddProtocolImpl(protocolName, typeKey string, body target.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.protocols[protocolName]
	if !ok {
		p = &ProtocolRecord{Name: protocolName, Impls: map[string]target.Node{}}
		r.protocols[protocolName] = p
	}
	p.Impls[typeKey] = body
}

// GetProtocol fetches a protocol record by name.
func (r *Registry) GetProtocol(name string) (*ProtocolRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.protocols[name]
	return p, ok
}

// ModuleOrder returns registered module dotted-names in stable
// registration order (spec §5 "the final emitted order is stable per
// input ordering").
func (r *Registry) ModuleOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Root returns the Registry's filesystem root.
func (r *Registry) Root() string { return r.root }

// DiscoverModuleFiles globs the Registry's root for candidate module
// source files. Import resolution and its suggestions do not use it;
// suggestModules ranks already-registered module names instead.
// Grounded on termfx-morfx's doublestar-based source-tree globbing.
func (r *Registry) DiscoverModuleFiles(pattern string) ([]string, error) {
	full := fmt.Sprintf("%s/%s", strings.TrimRight(r.root, "/"), pattern)
	return doublestar.FilepathGlob(full)
}
