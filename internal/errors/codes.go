// Package errors provides the structured error taxonomy for jsxform,
// grounded on the teacher's internal/errors/codes.go: one string code
// per distinguishable failure condition, grouped by compiler phase.
package errors

// ============================================================================
// Dispatcher errors (DSP###) — spec §4.1, §7 "Shape mismatch"
// ============================================================================

const (
	// DSP001 indicates the dispatcher encountered an AST shape it has no
	// translation rule for.
	DSP001 = "DSP001"

	// DSP002 indicates a malformed tagged form at a known tag (a
	// defmodule whose Name is nil is reported as MOD001 instead).
	DSP002 = "DSP002"

	// DSP003 indicates a reflective form (super, __CALLER__, __ENV__) was
	// encountered; always fatal per spec §4.1 rule 6.
	DSP003 = "DSP003"

	// DSP004 indicates macro expansion did not reach a fixed point within
	// the single permitted re-dispatch (spec §4.1 "Macro-expansion
	// fixed-point").
	DSP004 = "DSP004"

	// DSP005 indicates the injected macro expander itself returned an
	// error, propagated verbatim (spec §7 "Macro expansion failure").
	DSP005 = "DSP005"
)

// ============================================================================
// Pattern lowering errors (PAT###) — spec §4.2
// ============================================================================

const (
	// PAT001 indicates a pattern shape the lowering pass does not
	// recognize.
	PAT001 = "PAT001"

	// PAT002 indicates a bitstring pattern segment with an unsupported
	// type/size/unit combination.
	PAT002 = "PAT002"
)

// ============================================================================
// Function translator errors (FUN###) — spec §4.4
// ============================================================================

const (
	// FUN001 indicates clauses of the same name were declared with
	// inconsistent arity handling (internal invariant violation).
	FUN001 = "FUN001"
)

// ============================================================================
// Module translator errors (MOD###) — spec §4.5, §7
// ============================================================================

const (
	// MOD001 indicates a malformed defmodule node (missing name/body).
	MOD001 = "MOD001"

	// MOD002 indicates two modules with identical segment lists were
	// registered from distinct sources (spec §7 "Name collision").
	MOD002 = "MOD002"

	// MOD003 indicates an import referencing a module that, even after
	// the second resolution pass, was never registered.
	MOD003 = "MOD003"
)

// ============================================================================
// Protocol translator errors (PROTO###) — spec §4.6
// ============================================================================

const (
	// PROTO001 indicates a malformed defprotocol/defimpl node.
	PROTO001 = "PROTO001"
)

// ============================================================================
// Module Registry errors (REG###) — spec §4.7
// ============================================================================

const (
	// REG001 indicates a command was issued against a Registry that has
	// already been stopped.
	REG001 = "REG001"

	// REG002 indicates process_imports ran before every source module
	// in the compilation had completed its first pass.
	REG002 = "REG002"
)
