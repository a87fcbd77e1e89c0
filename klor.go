// Package klor implements the front-end analysis core of a choreographic
// programming language: reading s-expression choreographies, expanding
// role-qualified identifiers into explicit ownership wrappers, and
// analyzing role placement across the tree.
package klor

import (
	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/internal/analyze"
	"github.com/lovrosdu/klor-go/internal/expand"
	"github.com/lovrosdu/klor-go/internal/sexp"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// Options configures the reader and the optional analysis checks. The zero
// value is the default behavior.
type Options struct {
	// StrictPlacement rejects bare leaf identifiers that no role context
	// places, instead of annotating them ownerless.
	StrictPlacement bool
	// StrictBranches rejects if/select forms whose limbs carry different
	// explicit owners with no surrounding role context to unify them.
	StrictBranches bool
	// MaxDepth bounds form nesting accepted by the reader. Zero means the
	// default limit of 10000.
	MaxDepth int
}

// Source holds the forms read from one choreography file together with its
// file-local role declarations.
type Source struct {
	Forms []tree.Node
	// Roles is the set declared by ;klor:roles directives, nil when the
	// file has none.
	Roles role.Set
}

// Parse reads all top-level forms of a choreography source. The filename
// is only used for diagnostic positions.
func Parse(filename, src string) (*Source, error) {
	return ParseWithOptions(filename, src, Options{})
}

// ParseWithOptions is Parse with explicit reader settings.
func ParseWithOptions(filename, src string, opts Options) (*Source, error) {
	res, err := sexp.Reader{MaxDepth: opts.MaxDepth}.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return &Source{Forms: res.Forms, Roles: res.Roles}, nil
}

// Expand rewrites every role-qualified identifier whose role is in the
// active set into an ownership wrapper, recursing only through the control
// forms. The input is never mutated.
func Expand(active role.Set, n tree.Node) (tree.Node, error) {
	return expand.Expand(active, n)
}

// Analyze walks an expanded tree with no initial role context and returns
// the annotated tree: every recognized node exposes an owner and the set
// of implicated roles, and inert shapes pass through untouched.
func Analyze(active role.Set, n tree.Node) (tree.Node, error) {
	return analyze.Analyze(active, n)
}

// AnalyzeWithOptions is Analyze with explicit strictness settings.
func AnalyzeWithOptions(active role.Set, n tree.Node, opts Options) (tree.Node, error) {
	return analyze.AnalyzeWithOptions(active, n, analyze.Options{
		StrictPlacement: opts.StrictPlacement,
		StrictBranches:  opts.StrictBranches,
	})
}

// Check reads src and runs expansion and analysis over every top-level
// form, returning the annotated forms in input order. When active is nil,
// the roles declared by the file's ;klor:roles directive are used, or the
// empty set if it has none.
//
// Forms are checked independently: when any fail, Check returns a
// diag.List holding every form's diagnostic.
func Check(filename, src string, active role.Set) ([]tree.Node, error) {
	return CheckWithOptions(filename, src, active, Options{})
}

// CheckWithOptions is Check with explicit settings.
func CheckWithOptions(filename, src string, active role.Set, opts Options) ([]tree.Node, error) {
	source, err := ParseWithOptions(filename, src, opts)
	if err != nil {
		return nil, err
	}
	if active == nil {
		active = source.Roles
		if active == nil {
			active = role.NewSet()
		}
	}

	var list diag.List
	out := make([]tree.Node, 0, len(source.Forms))
	for _, form := range source.Forms {
		annotated, err := checkForm(active, form, opts)
		if err != nil {
			ds, ok := diag.AsDiagnostics(err)
			if !ok {
				return nil, err
			}
			list = append(list, ds...)
			continue
		}
		out = append(out, annotated)
	}
	if len(list) > 0 {
		return nil, list
	}
	return out, nil
}

func checkForm(active role.Set, form tree.Node, opts Options) (tree.Node, error) {
	expanded, err := Expand(active, form)
	if err != nil {
		return nil, err
	}
	return AnalyzeWithOptions(active, expanded, opts)
}
