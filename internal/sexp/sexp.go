// Package sexp reads choreography source text into syntax trees.
//
// The surface is a small s-expression grammar:
//
//   - symbols (x, reply!) and role-qualified symbols (Ana.x: exactly one
//     dot, both parts nonempty),
//   - integers, floats, strings, keywords (:k), true/false/nil,
//   - (...) lists and [...] vectors, with commas as whitespace,
//   - ; line comments.
//
// The control forms do, let, if and select are recognized at read time and
// checked for shape; any other list parses as a generic application, role
// forms included. A ;klor:roles comment declares the file's roles.
package sexp

import (
	"strings"

	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// DefaultMaxDepth bounds form nesting when Reader.MaxDepth is unset.
const DefaultMaxDepth = 10000

// Reader reads whole sources. The zero value is ready to use.
type Reader struct {
	// MaxDepth bounds form nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Result holds the forms read from one source together with its file-local
// role declarations.
type Result struct {
	Forms []tree.Node
	// Roles collects the names declared by ;klor:roles directives.
	// It is nil when the source carries no directive.
	Roles role.Set
}

// Parse reads src with the default reader configuration.
func Parse(filename, src string) (*Result, error) {
	return Reader{}.Parse(filename, src)
}

// Parse reads all top-level forms in src. The filename is only used for
// diagnostic positions.
func (r Reader) Parse(filename, src string) (*Result, error) {
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	lex := newLexer(filename, src)
	p, err := newParser(lex, maxDepth)
	if err != nil {
		return nil, err
	}
	forms, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	roles, err := directiveRoles(lex.comments)
	if err != nil {
		return nil, err
	}
	return &Result{Forms: forms, Roles: roles}, nil
}

// directiveRoles merges the declarations of all roles directives in a file.
func directiveRoles(comments []comment) (role.Set, error) {
	var roles role.Set
	for _, c := range comments {
		list, ok := parseRolesDirective(c.text)
		if !ok {
			continue
		}
		parsed, err := role.ParseSet(list)
		if err != nil {
			return nil, errAt(diag.CodeParse, c.pos, "bad roles directive: %v", err)
		}
		if roles == nil {
			roles = make(role.Set)
		}
		for r := range parsed {
			roles.Add(r)
		}
	}
	return roles, nil
}

// parseRolesDirective parses a roles directive and returns the declared
// names. Returns false if the comment is not a directive.
//
// Supported formats:
//   - ;klor:roles Ana,Bob
//   - ;; klor:roles Ana, Bob
func parseRolesDirective(text string) (string, bool) {
	text = strings.TrimLeft(text, ";")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "klor:roles") {
		return "", false
	}

	return strings.TrimSpace(strings.TrimPrefix(text, "klor:roles")), true
}

// errAt builds a positioned diagnostic as an error.
func errAt(code diag.Code, pos tree.Pos, format string, args ...any) error {
	d := diag.Newf(code, pos, format, args...)
	return &d
}
