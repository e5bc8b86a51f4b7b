package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sunholo/jsxform/internal/ast"
)

// Report is the structured error shape every fatal translation failure
// carries (spec §7: "All fatal errors surface to the driver with a
// message carrying the AST node's metadata (file, line) when available").
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Pos     *ast.Pos       `json:"pos,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report so it survives errors.As() unwrapping
// through the ordinary Go error-wrapping chain.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// New builds a ReportError for the given phase/code/message at pos.
func New(phase, code, message string, pos ast.Pos) error {
	return &ReportError{Rep: &Report{
		Schema:  "jsxform.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Pos:     &pos,
	}}
}

// Unsupported builds the fixed UnsupportedError for a reflective form
// (spec §4.1 rule 6, §7).
func Unsupported(form string, pos ast.Pos) error {
	return New("dispatch", DSP003, fmt.Sprintf("unsupported reflective form %q", form), pos)
}

// NameCollision builds the fatal error for two modules sharing a
// segment list (spec §3 invariant, §7 "Name collision").
func NameCollision(name string, firstSource, secondSource string) error {
	return &ReportError{Rep: &Report{
		Schema:  "jsxform.error/v1",
		Code:    MOD002,
		Phase:   "module",
		Message: fmt.Sprintf("module %q defined in both %s and %s", name, firstSource, secondSource),
		Data: map[string]any{
			"first":  firstSource,
			"second": secondSource,
		},
	}}
}

// JSON renders a Report deterministically, sorting map keys the way
// encoding/json already does for map[string]any.
func (r *Report) JSON() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"schema":"jsxform.error/v1","code":"ERR000","message":%q}`, err.Error())
	}
	return string(data)
}
