// Package analyze implements the role analysis pass: propagating a role
// context through an expanded tree and attributing every recognized node
// with its owner and implicated roles.
package analyze

import (
	"fmt"

	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// Options configures the optional strictness checks. The zero value is the
// default behavior: unplaced leaves and divergent branch owners pass
// silently.
type Options struct {
	// StrictPlacement rejects leaf identifiers analyzed with no role
	// context instead of annotating them ownerless.
	StrictPlacement bool
	// StrictBranches rejects if/select forms whose limbs carry different
	// explicit owners with no surrounding role context to unify them.
	StrictBranches bool
}

// Analyze walks an expanded tree with no initial role context and returns
// the annotated tree. Every recognized node of the result is a
// *tree.Annotated; inert shapes are returned untouched.
func Analyze(active role.Set, n tree.Node) (tree.Node, error) {
	return AnalyzeWithOptions(active, n, Options{})
}

// AnalyzeWithOptions is Analyze with explicit strictness settings.
func AnalyzeWithOptions(active role.Set, n tree.Node, opts Options) (tree.Node, error) {
	a := analyzer{active: active, opts: opts}
	return a.node(role.None, n)
}

type analyzer struct {
	active role.Set
	opts   Options
}

// node analyzes n under the given context. The context replicates to every
// child of a compound node; it is never threaded between siblings and
// never synthesized from children.
func (a analyzer) node(ctx role.Role, n tree.Node) (tree.Node, error) {
	switch n := n.(type) {
	case nil:
		return nil, errMalformed(tree.Pos{}, "nil expression")

	case *tree.Owned:
		return a.wrapper(n.Role, n.Expr, n.At)

	case *tree.Ident:
		if err := a.checkPlacement(ctx, n); err != nil {
			return nil, err
		}
		return box(n, ctx), nil

	case *tree.Lit:
		return box(n, ctx), nil

	case *tree.Seq:
		if len(n.Items) == 0 {
			return nil, errMalformed(n.At, "do expects at least one expression")
		}
		items, err := a.nodes(ctx, n.Items)
		if err != nil {
			return nil, err
		}
		return &tree.Annotated{
			Node:  &tree.Seq{Items: items, At: n.At},
			Owner: ctx,
			Roles: rolesOf(items...),
		}, nil

	case *tree.Let:
		binds := make([]tree.Bind, len(n.Binds))
		children := make([]tree.Node, 0, 2*len(n.Binds)+len(n.Body))
		for i, b := range n.Binds {
			if b.Pattern == nil || b.Value == nil {
				return nil, errMalformed(n.At, "let binding expects a pattern and a value")
			}
			pat, err := a.node(ctx, b.Pattern)
			if err != nil {
				return nil, err
			}
			val, err := a.node(ctx, b.Value)
			if err != nil {
				return nil, err
			}
			binds[i] = tree.Bind{Pattern: pat, Value: val}
			children = append(children, pat, val)
		}
		body, err := a.nodes(ctx, n.Body)
		if err != nil {
			return nil, err
		}
		children = append(children, body...)
		return &tree.Annotated{
			Node:  &tree.Let{Binds: binds, Body: body, At: n.At},
			Owner: ctx,
			Roles: rolesOf(children...),
		}, nil

	case *tree.If:
		if n.Cond == nil || n.Then == nil || n.Else == nil {
			return nil, errMalformed(n.At, "if expects 3 sub-expressions")
		}
		cond, err := a.node(ctx, n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := a.node(ctx, n.Then)
		if err != nil {
			return nil, err
		}
		els, err := a.node(ctx, n.Else)
		if err != nil {
			return nil, err
		}
		if err := a.checkBranchOwners(ctx, n.At, then, els); err != nil {
			return nil, err
		}
		return &tree.Annotated{
			Node:  &tree.If{Cond: cond, Then: then, Else: els, At: n.At},
			Owner: ctx,
			Roles: rolesOf(cond, then, els),
		}, nil

	case *tree.Select:
		if len(n.Choosers) == 0 {
			return nil, errMalformed(n.At, "select expects at least one chooser")
		}
		choosers, err := a.nodes(ctx, n.Choosers)
		if err != nil {
			return nil, err
		}
		body, err := a.nodes(ctx, n.Body)
		if err != nil {
			return nil, err
		}
		if err := a.checkChoiceOwners(ctx, n.At, body); err != nil {
			return nil, err
		}
		children := make([]tree.Node, 0, len(choosers)+len(body))
		children = append(children, choosers...)
		children = append(children, body...)
		return &tree.Annotated{
			Node:  &tree.Select{Choosers: choosers, Body: body, At: n.At},
			Owner: ctx,
			Roles: rolesOf(children...),
		}, nil

	case *tree.List:
		return a.list(ctx, n)

	default:
		// Inactive qualified identifiers, vectors, and every other shape
		// are not part of the attributed language.
		return n, nil
	}
}

// wrapper analyzes the expression under the wrapper's role and forces the
// result's owner to that role. The explicit wrapper always wins, whatever
// the expression's own analysis produced.
func (a analyzer) wrapper(r role.Role, expr tree.Node, pos tree.Pos) (tree.Node, error) {
	if !a.active.Has(r) {
		return nil, a.undeclaredRole(r, pos)
	}
	if expr == nil {
		return nil, errMalformed(pos, "role form (%s) expects an expression", r)
	}
	res, err := a.node(r, expr)
	if err != nil {
		return nil, err
	}
	return force(res, r), nil
}

// list separates role forms from inert applications. A list headed by an
// identifier naming an active role is an ownership wrapper and must carry
// exactly one expression; any other list is untouched data.
func (a analyzer) list(ctx role.Role, n *tree.List) (tree.Node, error) {
	if len(n.Items) > 0 {
		if head, ok := n.Items[0].(*tree.Ident); ok && a.active.Has(role.Role(head.Name)) {
			if len(n.Items) != 2 {
				return nil, errMalformed(n.At, "role form (%s) expects exactly one expression, got %d", head.Name, len(n.Items)-1)
			}
			return a.wrapper(role.Role(head.Name), n.Items[1], n.At)
		}
	}
	return n, nil
}

func (a analyzer) nodes(ctx role.Role, items []tree.Node) ([]tree.Node, error) {
	out := make([]tree.Node, len(items))
	for i, item := range items {
		res, err := a.node(ctx, item)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

// box wraps a leaf so it uniformly exposes owner and roles.
func box(n tree.Node, ctx role.Role) *tree.Annotated {
	return &tree.Annotated{Node: n, Owner: ctx, Roles: leafRoles(ctx)}
}

// force sets the owner of an analyzed result to r, boxing the result first
// when it is an inert shape that carries no attributes.
func force(n tree.Node, r role.Role) *tree.Annotated {
	if ann, ok := n.(*tree.Annotated); ok {
		return &tree.Annotated{Node: ann.Node, Owner: r, Roles: forcedRoles(ann.Roles, r)}
	}
	return &tree.Annotated{Node: n, Owner: r, Roles: role.NewSet(r)}
}

func (a analyzer) undeclaredRole(r role.Role, pos tree.Pos) error {
	msg := fmt.Sprintf("role %s is not active", r)
	if hint := diag.SuggestRole(string(r), a.active.Names()); hint != "" {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, hint)
	}
	d := diag.New(diag.CodeUndeclaredRole, pos, msg)
	return &d
}

func errMalformed(pos tree.Pos, format string, args ...any) error {
	d := diag.Newf(diag.CodeMalformed, pos, format, args...)
	return &d
}
