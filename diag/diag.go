// Package diag defines the coded, positioned diagnostics reported by the
// reader and the analysis passes.
package diag

import (
	"errors"
	"fmt"

	"github.com/lovrosdu/klor-go/tree"
)

// Code identifies a class of diagnostic.
type Code string

const (
	// CodeParse indicates source text that could not be read.
	CodeParse Code = "parse-error"
	// CodeMalformed indicates a control or role form with an impossible shape.
	CodeMalformed Code = "malformed-syntax"
	// CodeUndeclaredRole indicates an ownership wrapper naming a role outside
	// the active set.
	CodeUndeclaredRole Code = "undeclared-role"
	// CodeBranchRoles indicates conditional branches whose owners cannot be
	// reconciled without a surrounding role context.
	CodeBranchRoles Code = "differing-branch-roles"
	// CodeUnplaced indicates a leaf that no role context places.
	CodeUnplaced Code = "unplaced-form"
)

// Diagnostic describes a single finding with a stable code and the source
// position it refers to.
type Diagnostic struct {
	Code    Code
	Message string
	Pos     tree.Pos
}

// Error formats the diagnostic for display, including code and position.
func (d *Diagnostic) Error() string {
	if d == nil {
		return "diagnostic <nil>"
	}
	if d.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s at %s", d.Code, d.Message, d.Pos)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// New builds a Diagnostic with a code, position, and message.
func New(code Code, pos tree.Pos, msg string) Diagnostic {
	return Diagnostic{Code: code, Message: msg, Pos: pos}
}

// Newf formats a message and builds a Diagnostic.
func Newf(code Code, pos tree.Pos, format string, args ...any) Diagnostic {
	return New(code, pos, fmt.Sprintf(format, args...))
}

// List is an error that wraps one or more diagnostics.
type List []Diagnostic

// Error returns a compact summary of the diagnostics.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

// AsDiagnostics extracts diagnostics from an error returned by the reader or
// the passes. It recognizes a bare Diagnostic as well as a List.
func AsDiagnostics(err error) ([]Diagnostic, bool) {
	if err == nil {
		return nil, false
	}

	var list List
	if errors.As(err, &list) {
		return []Diagnostic(list), true
	}

	var listPtr *List
	if errors.As(err, &listPtr) && listPtr != nil {
		return []Diagnostic(*listPtr), true
	}

	var d *Diagnostic
	if errors.As(err, &d) && d != nil {
		return []Diagnostic{*d}, true
	}

	return nil, false
}
