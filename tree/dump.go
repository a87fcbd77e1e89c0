package tree

import (
	"fmt"
	"strings"
)

// Dump renders an analysis result as a deterministic, indented listing
// with one node per line. Attributed nodes show their kind, owner, and
// implicated roles; inert nodes print as opaque surface syntax with no
// attributes, making the byte-identical passthrough visible. This is the
// golden format used by the corpus tests and the checker's -dump output.
func Dump(n Node) string {
	var b strings.Builder
	dumpNode(&b, n, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n Node, depth int) {
	if n == nil {
		line(b, depth, "opaque <nil>")
		return
	}

	a, ok := n.(*Annotated)
	if !ok {
		line(b, depth, "opaque "+n.String())
		return
	}

	attrs := fmt.Sprintf(" owner=%s roles=%s", a.Owner, a.Roles)

	switch inner := a.Node.(type) {
	case *Ident:
		line(b, depth, "ident "+inner.Name+attrs)
	case *Lit:
		line(b, depth, "lit "+formatLit(inner.Value)+attrs)
	case *Seq:
		line(b, depth, "seq"+attrs)
		for _, it := range inner.Items {
			dumpNode(b, it, depth+1)
		}
	case *Let:
		line(b, depth, "let"+attrs)
		for _, bind := range inner.Binds {
			line(b, depth+1, "bind")
			dumpNode(b, bind.Pattern, depth+2)
			dumpNode(b, bind.Value, depth+2)
		}
		if len(inner.Body) > 0 {
			line(b, depth+1, "body")
			for _, it := range inner.Body {
				dumpNode(b, it, depth+2)
			}
		}
	case *If:
		line(b, depth, "if"+attrs)
		dumpNode(b, inner.Cond, depth+1)
		dumpNode(b, inner.Then, depth+1)
		dumpNode(b, inner.Else, depth+1)
	case *Select:
		line(b, depth, "select"+attrs)
		line(b, depth+1, "choosers")
		for _, c := range inner.Choosers {
			dumpNode(b, c, depth+2)
		}
		if len(inner.Body) > 0 {
			line(b, depth+1, "body")
			for _, it := range inner.Body {
				dumpNode(b, it, depth+2)
			}
		}
	default:
		// A wrapper placed an inert expression; its internals are not
		// part of the attributed language.
		line(b, depth, "opaque "+stringOrNil(a.Node)+attrs)
	}
}

func line(b *strings.Builder, depth int, s string) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
