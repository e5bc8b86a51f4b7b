// Package translate implements the Translator dispatcher and the
// per-shape sub-translators (spec §4). Grounded on the teacher's
// internal/elaborate package — elaborate.go's big structural switch,
// expressions.go's one-routine-per-shape layout, and file.go's
// module-body walking — retargeted from "elaborate to Core IR for
// evaluation" to "translate to a target AST for emission".
package translate

import (
	"github.com/sirupsen/logrus"

	"github.com/sunholo/jsxform/internal/macro"
	"github.com/sunholo/jsxform/internal/registry"
)

// Context bundles the collaborators every sub-translator needs beyond
// the AST node and Environment: the Module Registry, the injected
// macro expander, and a logger for non-fatal diagnostics (exhaustiveness
// warnings, alias-ignored notices — spec §7, SPEC_FULL §12).
type Context struct {
	Registry *registry.Registry
	Expander macro.Expander
	Log      *logrus.Logger

	// warnings accumulates non-fatal ExhaustivenessWarning values
	// produced while lowering def/defp and protocol-impl clause tables
	// (SPEC_FULL §12 "Supplemented features"); case, fn, receive and
	// try clause tables are not checked.
	warnings []ExhaustivenessWarning
}

// ExhaustivenessWarning mirrors the teacher's
// internal/elaborate/exhaustiveness.go warning shape: a non-fatal,
// purely structural heuristic that a clause table may not cover every
// case of its scrutinee's apparent shape.
type ExhaustivenessWarning struct {
	Module         string
	Function       string
	MissingPattern string
}

// NewContext builds a Context around reg; if log is nil a default
// logrus.Logger is used.
func NewContext(reg *registry.Registry, expander macro.Expander, log *logrus.Logger) *Context {
	if log == nil {
		log = logrus.New()
	}
	if expander == nil {
		expander = macro.NoopExpander{}
	}
	return &Context{Registry: reg, Expander: expander, Log: log}
}

// Warnings returns the exhaustiveness warnings accumulated so far.
func (c *Context) Warnings() []ExhaustivenessWarning { return c.warnings }

func (c *Context) warn(w ExhaustivenessWarning) {
	c.warnings = append(c.warnings, w)
	c.Log.WithFields(logrus.Fields{
		"module":   w.Module,
		"function": w.Function,
		"missing":  w.MissingPattern,
	}).Warn("clause table may not be exhaustive")
}
