package analyze

import (
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// The roles attribute tracks the participants causally implicated in a
// node. Its exact composition is provisional, so every rule that computes
// it lives in this file and nowhere else.

// rolesOf computes a compound node's roles attribute from its analyzed
// children: the union of every annotated child's roles. Inert children
// contribute nothing.
func rolesOf(children ...tree.Node) role.Set {
	out := role.NewSet()
	for _, c := range children {
		if ann, ok := c.(*tree.Annotated); ok {
			for r := range ann.Roles {
				out.Add(r)
			}
		}
	}
	return out
}

// leafRoles is the roles attribute of a boxed leaf: the context singleton,
// or empty when the leaf is unplaced.
func leafRoles(ctx role.Role) role.Set {
	if ctx.IsNone() {
		return role.NewSet()
	}
	return role.NewSet(ctx)
}

// forcedRoles re-derives a roles attribute after an explicit wrapper takes
// ownership: the wrapper's role joins the set.
func forcedRoles(prev role.Set, r role.Role) role.Set {
	out := role.NewSet(r)
	for m := range prev {
		out.Add(m)
	}
	return out
}
