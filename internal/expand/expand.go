// Package expand implements the role expansion pass: rewriting
// role-qualified identifiers into explicit ownership wrappers.
package expand

import (
	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// Expand rewrites every role-qualified identifier whose role is in the
// active set into an ownership wrapper. Recursion is limited to the four
// control forms; applications, role forms, vectors, and any other shape
// pass through untouched. Qualified identifiers naming inactive roles are
// preserved verbatim.
//
// The input is never mutated; unchanged subtrees are shared with the
// result.
func Expand(active role.Set, n tree.Node) (tree.Node, error) {
	e := expander{active: active}
	return e.node(n)
}

type expander struct {
	active role.Set
}

func (e expander) node(n tree.Node) (tree.Node, error) {
	switch n := n.(type) {
	case nil:
		return nil, errAt(tree.Pos{}, "nil expression")

	case *tree.Qual:
		if !e.active.Has(n.Role) {
			return n, nil
		}
		return &tree.Owned{
			Role: n.Role,
			Expr: &tree.Ident{Name: n.Name, At: n.At},
			At:   n.At,
		}, nil

	case *tree.Seq:
		if len(n.Items) == 0 {
			return nil, errAt(n.At, "do expects at least one expression")
		}
		items, changed, err := e.nodes(n.Items)
		if err != nil {
			return nil, err
		}
		if !changed {
			return n, nil
		}
		return &tree.Seq{Items: items, At: n.At}, nil

	case *tree.Let:
		binds := make([]tree.Bind, len(n.Binds))
		changed := false
		for i, b := range n.Binds {
			if b.Pattern == nil || b.Value == nil {
				return nil, errAt(n.At, "let binding expects a pattern and a value")
			}
			pat, err := e.node(b.Pattern)
			if err != nil {
				return nil, err
			}
			val, err := e.node(b.Value)
			if err != nil {
				return nil, err
			}
			binds[i] = tree.Bind{Pattern: pat, Value: val}
			if pat != b.Pattern || val != b.Value {
				changed = true
			}
		}
		body, bodyChanged, err := e.nodes(n.Body)
		if err != nil {
			return nil, err
		}
		if !changed && !bodyChanged {
			return n, nil
		}
		return &tree.Let{Binds: binds, Body: body, At: n.At}, nil

	case *tree.If:
		if n.Cond == nil || n.Then == nil || n.Else == nil {
			return nil, errAt(n.At, "if expects 3 sub-expressions")
		}
		cond, err := e.node(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := e.node(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := e.node(n.Else)
		if err != nil {
			return nil, err
		}
		if cond == n.Cond && then == n.Then && els == n.Else {
			return n, nil
		}
		return &tree.If{Cond: cond, Then: then, Else: els, At: n.At}, nil

	case *tree.Select:
		if len(n.Choosers) == 0 {
			return nil, errAt(n.At, "select expects at least one chooser")
		}
		choosers, cc, err := e.nodes(n.Choosers)
		if err != nil {
			return nil, err
		}
		body, bc, err := e.nodes(n.Body)
		if err != nil {
			return nil, err
		}
		if !cc && !bc {
			return n, nil
		}
		return &tree.Select{Choosers: choosers, Body: body, At: n.At}, nil

	default:
		// Identifiers, literals, and every unrecognized shape are inert.
		return n, nil
	}
}

func (e expander) nodes(items []tree.Node) ([]tree.Node, bool, error) {
	out := make([]tree.Node, len(items))
	changed := false
	for i, item := range items {
		expanded, err := e.node(item)
		if err != nil {
			return nil, false, err
		}
		out[i] = expanded
		if expanded != item {
			changed = true
		}
	}
	return out, changed, nil
}

func errAt(pos tree.Pos, format string, args ...any) error {
	d := diag.Newf(diag.CodeMalformed, pos, format, args...)
	return &d
}
