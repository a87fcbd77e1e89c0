// Package tree defines the syntax tree consumed and produced by the
// choreography front-end passes.
//
// Surface trees come out of the sexp reader (or are built directly by
// embedding compilers). Expansion rewrites role-qualified identifiers into
// ownership wrappers; analysis rebuilds the tree with every attributed
// node boxed in an Annotated carrying its owner and implicated roles.
// Nodes are immutable by convention: the passes allocate new spines and
// share unchanged subtrees, they never modify their input.
package tree

import (
	"fmt"

	"github.com/lovrosdu/klor-go/role"
)

// Pos locates a node in its source. The zero Pos marks nodes built
// programmatically rather than read from a file.
type Pos struct {
	File string
	Line int // 1-based
	Col  int // 1-based, in runes
}

// IsValid reports whether p carries a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String renders the position as file:line:col.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	file := p.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
}

// Node is a tree node. The concrete types below are the whole vocabulary:
// anything the passes do not recognize travels through them as an inert
// *List or *Vec, byte-identical on output.
type Node interface {
	Pos() Pos
	String() string
	node()
}

// Keyword is the value of a keyword literal such as :ok.
type Keyword string

// Ident is a plain name.
type Ident struct {
	Name string
	At   Pos
}

// Qual is a role-qualified identifier: Ana.x names the binding x owned by
// Ana. Whether the qualifier actually denotes a role is decided against
// the active role set, not here; a Qual whose qualifier is inactive is
// inert data in both passes.
type Qual struct {
	Role role.Role
	Name string
	At   Pos
}

// Lit is an atomic value: int64, float64, string, bool, Keyword, or nil.
type Lit struct {
	Value any
	At    Pos
}

// Owned is an explicit ownership wrapper pairing a role with the single
// expression it places. The expander produces these from active Quals;
// an equivalent surface spelling is a two-element list headed by an
// active role name, which the analyzer classifies on the fly.
type Owned struct {
	Role role.Role
	Expr Node
	At   Pos
}

// Seq is the sequencing form (do e1 e2 ...), with at least one expression.
type Seq struct {
	Items []Node
	At    Pos
}

// Bind is one pattern/value pair of a Let binding list.
type Bind struct {
	Pattern Node
	Value   Node
}

// Let is the binding form (let [p1 v1 ...] body...). Patterns may be
// identifiers, wrappers, or vectors for destructuring.
type Let struct {
	Binds []Bind
	Body  []Node
	At    Pos
}

// If is the conditional form (if cond then else), always three parts.
type If struct {
	Cond Node
	Then Node
	Else Node
	At   Pos
}

// Select is the choice form (select [chooser...] body...): choosers name
// the roles announcing a branch, the body reacts to it.
type Select struct {
	Choosers []Node
	Body     []Node
	At       Pos
}

// List is a generic compound: applications, role forms before
// classification, and any other host syntax.
type List struct {
	Items []Node
	At    Pos
}

// Vec is a bracketed compound, used for destructuring patterns and
// otherwise carried as inert data.
type Vec struct {
	Items []Node
	At    Pos
}

// Annotated boxes a node with its analysis attributes. Every attributed
// position of an analysis result holds an Annotated; inert nodes stay
// raw. Owner is the single role established for the node at its syntactic
// position (role.None when unestablished), Roles the set of roles
// implicated in it.
type Annotated struct {
	Node  Node
	Owner role.Role
	Roles role.Set
}

func (n *Ident) node()     {}
func (n *Qual) node()      {}
func (n *Lit) node()       {}
func (n *Owned) node()     {}
func (n *Seq) node()       {}
func (n *Let) node()       {}
func (n *If) node()        {}
func (n *Select) node()    {}
func (n *List) node()      {}
func (n *Vec) node()       {}
func (n *Annotated) node() {}

// Pos returns the node's source location.
func (n *Ident) Pos() Pos  { return n.At }
func (n *Qual) Pos() Pos   { return n.At }
func (n *Lit) Pos() Pos    { return n.At }
func (n *Owned) Pos() Pos  { return n.At }
func (n *Seq) Pos() Pos    { return n.At }
func (n *Let) Pos() Pos    { return n.At }
func (n *If) Pos() Pos     { return n.At }
func (n *Select) Pos() Pos { return n.At }
func (n *List) Pos() Pos   { return n.At }
func (n *Vec) Pos() Pos    { return n.At }

// Pos returns the boxed node's source location.
func (n *Annotated) Pos() Pos {
	if n.Node == nil {
		return Pos{}
	}
	return n.Node.Pos()
}
