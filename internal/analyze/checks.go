package analyze

import (
	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// Optional strictness checks, isolated here so a policy change never
// touches the traversal.

// checkPlacement rejects a leaf identifier analyzed with no context when
// StrictPlacement is on. Literals are exempt: an unplaced constant carries
// no binding to misplace.
func (a analyzer) checkPlacement(ctx role.Role, n *tree.Ident) error {
	if !a.opts.StrictPlacement || !ctx.IsNone() {
		return nil
	}
	d := diag.Newf(diag.CodeUnplaced, n.At, "%s is not placed at any role", n.Name)
	return &d
}

// checkBranchOwners rejects an if whose branches carry different explicit
// owners while no surrounding context unifies them, when StrictBranches is
// on. A branch left inert or ownerless never conflicts.
func (a analyzer) checkBranchOwners(ctx role.Role, pos tree.Pos, then, els tree.Node) error {
	if !a.opts.StrictBranches || !ctx.IsNone() {
		return nil
	}
	ta, ok1 := then.(*tree.Annotated)
	ea, ok2 := els.(*tree.Annotated)
	if !ok1 || !ok2 || ta.Owner.IsNone() || ea.Owner.IsNone() || ta.Owner == ea.Owner {
		return nil
	}
	d := diag.Newf(diag.CodeBranchRoles, pos, "branches are owned by %s and %s with no unifying role context", ta.Owner, ea.Owner)
	return &d
}

// checkChoiceOwners is checkBranchOwners for select bodies: all explicitly
// owned body expressions must agree when no context unifies them.
func (a analyzer) checkChoiceOwners(ctx role.Role, pos tree.Pos, body []tree.Node) error {
	if !a.opts.StrictBranches || !ctx.IsNone() {
		return nil
	}
	seen := role.None
	for _, b := range body {
		ann, ok := b.(*tree.Annotated)
		if !ok || ann.Owner.IsNone() {
			continue
		}
		if seen.IsNone() {
			seen = ann.Owner
			continue
		}
		if ann.Owner != seen {
			d := diag.Newf(diag.CodeBranchRoles, pos, "select body is owned by both %s and %s with no unifying role context", seen, ann.Owner)
			return &d
		}
	}
	return nil
}
